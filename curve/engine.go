// Package curve wraps the BN254 group operations the verifier needs behind a
// small engine interface. Metered hosts that expose native multi-scalar
// multiplication and pairing primitives can substitute their own Engine; the
// verification logic above this package never touches curve internals.
package curve

import (
	"fmt"
	"math/big"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Engine evaluates the two group-level primitives of the verifier:
// one batched multi-scalar multiplication and one two-term pairing check
// against the fixed G2 constants.
type Engine interface {
	// MSM computes sum_i scalars[i] * points[i].
	MSM(points []bn254.G1Affine, scalars []fr.Element) (bn254.G1Affine, error)

	// PairingCheck reports whether e(p0, [1]_2) * e(p1, [x]_2) == 1.
	PairingCheck(p0, p1 bn254.G1Affine) (bool, error)
}

// BN254Engine is the default Engine, backed by gnark-crypto.
type BN254Engine struct {
	// NbTasks bounds the internal parallelism of the MSM.
	// Zero means one task per CPU.
	NbTasks int
}

// NewEngine creates a BN254Engine using all available CPUs.
func NewEngine() *BN254Engine {
	return &BN254Engine{NbTasks: runtime.NumCPU()}
}

// MSM computes sum_i scalars[i] * points[i].
func (e *BN254Engine) MSM(points []bn254.G1Affine, scalars []fr.Element) (bn254.G1Affine, error) {
	var res bn254.G1Affine
	if len(points) != len(scalars) {
		return res, fmt.Errorf("msm: %d points, %d scalars", len(points), len(scalars))
	}

	nbTasks := e.NbTasks
	if nbTasks <= 0 {
		nbTasks = runtime.NumCPU()
	}
	if _, err := res.MultiExp(points, scalars, ecc.MultiExpConfig{NbTasks: nbTasks}); err != nil {
		return res, err
	}
	return res, nil
}

// PairingCheck reports whether e(p0, [1]_2) * e(p1, [x]_2) == 1,
// where [x]_2 is the structured reference string point.
func (e *BN254Engine) PairingCheck(p0, p1 bn254.G1Affine) (bool, error) {
	return bn254.PairingCheck(
		[]bn254.G1Affine{p0, p1},
		[]bn254.G2Affine{G2Generator(), SRSG2X()},
	)
}

// ValidatePoint checks that p satisfies the curve equation. Points coming
// from proofs are validated before entering any MSM or pairing.
func ValidatePoint(p bn254.G1Affine) error {
	if !p.IsOnCurve() {
		return fmt.Errorf("point (%s, %s) is not on the curve", p.X.String(), p.Y.String())
	}
	return nil
}

var (
	g1Gen  bn254.G1Affine
	g2Gen  bn254.G2Affine
	srsG2X bn254.G2Affine
)

func init() {
	_, _, g1Gen, g2Gen = bn254.Generators()

	srsG2X.X.A0 = fpFromHex("0118c4d5b837bcc2bc89b5b398b5974e9f5944073b32078b7e231fec938883b0")
	srsG2X.X.A1 = fpFromHex("260e01b251f6f1c7e7ff4e580791dee8ea51d87a358e038b4efe30fac09383c1")
	srsG2X.Y.A0 = fpFromHex("22febda3c0c0632a56475b4214e5615e11e6dd3f96e6cea2854a87d4dacc5e55")
	srsG2X.Y.A1 = fpFromHex("04fc6369f7110fe3d25156c1bb9a72859cf2a04641f99ba4ee413c80da6a5fe4")
}

func fpFromHex(s string) fp.Element {
	b, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curve: invalid hex constant")
	}
	var e fp.Element
	e.SetBigInt(b)
	return e
}

// G1Generator returns the fixed G1 generator.
func G1Generator() bn254.G1Affine { return g1Gen }

// G2Generator returns the fixed G2 generator used on the left leg of the
// pairing check.
func G2Generator() bn254.G2Affine { return g2Gen }

// SRSG2X returns [x]_2 from the reference string, used on the right leg of
// the pairing check.
func SRSG2X() bn254.G2Affine { return srsG2X }
