package honk

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// checkLibraConsistency verifies the small-subgroup identity tying the
// claimed libra polynomial evaluations to the sumcheck. Over the order-256
// subgroup H with generator g, the grand sum polynomial A must satisfy
//
//	A(g*x) - A(x) = F(x)*G(x)  on H,  A(1) = 0,
//
// where G is the committed concatenation of the libra masking polynomials
// and F is the challenge polynomial built from the sumcheck challenges. The
// verifier checks the quotient form of this identity at the gemini challenge
// point r:
//
//	L_1(r)*A(r) + (r - g^-1)*(A(g*r) - A(r) - F(r)*G(r))
//	  + L_256(r)*(A(r) - s) - Z_H(r)*Q(r) == 0
//
// with s the claimed libra evaluation and Q the committed quotient.
//
// Precondition: Z_H(r) != 0. A vanishing value means the gemini challenge
// collided with a subgroup element, a distinct non-retryable failure.
func checkLibraConsistency(evals *[4]fr.Element, geminiR fr.Element, challenges []fr.Element, claimedSum fr.Element) error {
	// Z_H(r) = r^256 - 1 by repeated squaring.
	var vanishing, one fr.Element
	one.SetOne()
	vanishing = geminiR
	for i := 0; i < 8; i++ {
		vanishing.Square(&vanishing)
	}
	vanishing.Sub(&vanishing, &one)
	if vanishing.IsZero() {
		return ErrGeminiChallengeInSubgroup
	}

	concatEval := evals[0]
	sumEval := evals[1]
	sumShiftEval := evals[2]
	quotientEval := evals[3]

	challengePolyEval, lagrangeFirst, lagrangeLast := evaluateSubgroupPolys(geminiR, vanishing, challenges)

	var diff, t fr.Element
	diff.Mul(&lagrangeFirst, &sumEval)

	// (r - g^-1) * (A(g*r) - A(r) - F(r)*G(r))
	t.Sub(&sumShiftEval, &sumEval)
	var fg fr.Element
	fg.Mul(&challengePolyEval, &concatEval)
	t.Sub(&t, &fg)
	var rShift fr.Element
	rShift.Sub(&geminiR, &subgroupGeneratorInv)
	t.Mul(&t, &rShift)
	diff.Add(&diff, &t)

	t.Sub(&sumEval, &claimedSum).Mul(&t, &lagrangeLast)
	diff.Add(&diff, &t)

	t.Mul(&vanishing, &quotientEval)
	diff.Sub(&diff, &t)

	if !diff.IsZero() {
		return fmt.Errorf("%w: subgroup identity does not hold", ErrConsistencyFailed)
	}
	return nil
}

// evaluateSubgroupPolys evaluates, at r, the challenge polynomial and the
// first and last subgroup Lagrange polynomials, all given in Lagrange basis
// over H. The challenge polynomial has a leading one followed by one block
// of nine successive powers per sumcheck challenge.
func evaluateSubgroupPolys(r, vanishing fr.Element, challenges []fr.Element) (challengePoly, lagrangeFirst, lagrangeLast fr.Element) {
	var coeffs [SubgroupSize]fr.Element
	coeffs[0].SetOne()
	for k := range challenges {
		base := 1 + k*BatchedRelationLength
		if base+BatchedRelationLength > SubgroupSize {
			break
		}
		coeffs[base].SetOne()
		for j := 1; j < BatchedRelationLength; j++ {
			coeffs[base+j].Mul(&coeffs[base+j-1], &challenges[k])
		}
	}

	// denominators r - g^j for the barycentric sum
	var denoms [SubgroupSize]fr.Element
	var gPow fr.Element
	gPow.SetOne()
	for j := 0; j < SubgroupSize; j++ {
		denoms[j].Sub(&r, &gPow)
		gPow.Mul(&gPow, &subgroupGenerator)
	}
	inv := fr.BatchInvert(denoms[:])

	// L_j(r) = Z_H(r)/|H| * g^j / (r - g^j)
	var sizeInv, scale fr.Element
	sizeInv.SetUint64(SubgroupSize)
	sizeInv.Inverse(&sizeInv)
	scale.Mul(&vanishing, &sizeInv)

	var acc, t fr.Element
	gPow.SetOne()
	for j := 0; j < SubgroupSize; j++ {
		if !coeffs[j].IsZero() {
			t.Mul(&coeffs[j], &gPow).Mul(&t, &inv[j])
			acc.Add(&acc, &t)
		}
		gPow.Mul(&gPow, &subgroupGenerator)
	}
	challengePoly.Mul(&acc, &scale)

	lagrangeFirst.Mul(&scale, &inv[0])

	// g^(|H|-1) = g^-1
	t.Mul(&subgroupGeneratorInv, &inv[SubgroupSize-1])
	lagrangeLast.Mul(&scale, &t)
	return
}
