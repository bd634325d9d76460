// Package honk implements the verifier of a zero-knowledge Honk-family
// SNARK over BN254. Given a fixed verification key, a serialized proof and
// the public inputs, Verify deterministically decides whether the proof
// attests that some witness satisfies the circuit.
package honk

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkmesh/ultrahonk/curve"
	"github.com/zkmesh/ultrahonk/logger"
)

// Verifier verifies proofs against one verification key. It is immutable
// after construction and safe for concurrent use: every call owns its own
// transcript and intermediate state.
type Verifier struct {
	vk     *VerificationKey
	vkHash fr.Element
	engine curve.Engine
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithEngine substitutes the curve engine, e.g. for hosts with native
// scalar-multiplication and pairing primitives.
func WithEngine(e curve.Engine) Option {
	return func(v *Verifier) { v.engine = e }
}

// NewVerifier creates a Verifier for the given key. The key is validated
// once here and never mutated afterwards.
func NewVerifier(vk *VerificationKey, opts ...Option) (*Verifier, error) {
	if err := vk.Validate(); err != nil {
		return nil, err
	}
	v := &Verifier{
		vk:     vk,
		vkHash: vk.Hash(),
		engine: curve.NewEngine(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify decides whether the proof is valid for the given public inputs.
// The stages run in protocol order and the first failure wins; all failures
// are deterministic and non-retryable. No state survives the call.
func (v *Verifier) Verify(proofBytes []byte, publicInputs []fr.Element) (bool, error) {
	log := logger.Logger().With().Str("component", "honk").Logger()
	start := time.Now()

	want := int(v.vk.NumPublicInputs) - PairingObjectSize
	if len(publicInputs) != want {
		return false, fmt.Errorf("%w: got %d, want %d", ErrPublicInputsLength, len(publicInputs), want)
	}

	pf, err := DecodeProof(proofBytes, v.vk.LogN)
	if err != nil {
		return false, err
	}

	tr := generateTranscript(pf, publicInputs, v.vkHash, v.vk.CircuitSize, v.vk.PubInputsOffset, v.vk.LogN)

	if err := verifySumcheck(pf, tr); err != nil {
		log.Info().Err(err).Msg("proof rejected")
		return false, err
	}
	if err := verifyShplemini(pf, v.vk, tr, v.engine); err != nil {
		log.Info().Err(err).Msg("proof rejected")
		return false, err
	}

	log.Debug().Dur("took", time.Since(start)).Msg("proof verified")
	return true, nil
}
