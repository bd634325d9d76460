package honk

import (
	"context"
	"fmt"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"
)

// VerifyBatch verifies independent proofs concurrently against the same key.
// Calls only read the immutable key, so no locking is involved. The first
// failure cancels the remaining work and is returned; nil means every proof
// verified.
func (v *Verifier) VerifyBatch(ctx context.Context, proofs [][]byte, publicInputs [][]fr.Element) error {
	if len(proofs) != len(publicInputs) {
		return fmt.Errorf("%w: %d proofs, %d public input sets", ErrPublicInputsLength, len(proofs), len(publicInputs))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range proofs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if _, err := v.Verify(proofs[i], publicInputs[i]); err != nil {
				return fmt.Errorf("proof %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}
