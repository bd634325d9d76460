package honk

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// verifySumcheck checks the logN sumcheck rounds against the transcript
// challenges. The target sum is seeded from the zero-knowledge blinding: the
// prover's claimed libra sum scaled by the libra challenge. Each round checks
// the claimed univariate against the running target, then folds the target
// through the round challenge; the final target must match the batched
// relation evaluation plus the blinding contribution.
func verifySumcheck(pf *Proof, tr *Transcript) error {
	var target fr.Element
	target.Mul(&tr.LibraChallenge, &pf.LibraSum)

	var one, powPartial, t fr.Element
	one.SetOne()
	powPartial.SetOne()

	for i := uint32(0); i < pf.NumRounds; i++ {
		u := &pf.SumcheckUnivariates[i]

		// u(0) + u(1) must equal the claimed sum of the previous round.
		t.Add(&u[0], &u[1])
		if !t.Equal(&target) {
			return fmt.Errorf("%w: univariate mismatch in round %d", ErrSumcheckFailed, i)
		}

		chal := tr.SumcheckChallenges[i]
		target = evaluateUnivariate(u, chal)

		// powPartial *= 1 + chal*(gateChallenge - 1)
		t.Sub(&tr.GateChallenges[i], &one).Mul(&t, &chal).Add(&t, &one)
		powPartial.Mul(&powPartial, &t)
	}

	relEval := accumulateRelations(&pf.SumcheckEvaluations, &tr.RelationParameters, &tr.Alphas, powPartial)

	// Padding rounds carry zero challenges, so the correction factor
	// (1 - prod of padding challenges) is one whenever padding exists and
	// the formula degenerates to the identity either way.
	if pf.NumRounds < MaxLogN {
		pad := tr.SumcheckChallenges[pf.NumRounds]
		for i := pf.NumRounds + 1; i < MaxLogN; i++ {
			pad.Mul(&pad, &tr.SumcheckChallenges[i])
		}
		t.Sub(&one, &pad)
		relEval.Mul(&relEval, &t)
	}

	t.Mul(&tr.LibraChallenge, &pf.LibraEvaluation)
	relEval.Add(&relEval, &t)

	if !relEval.Equal(&target) {
		return fmt.Errorf("%w: final evaluation mismatch", ErrSumcheckFailed)
	}
	return nil
}

// evaluateUnivariate evaluates the round univariate, given on the domain
// {0..8}, at an arbitrary point via barycentric interpolation with the
// precomputed denominator table.
func evaluateUnivariate(u *[BatchedRelationLength]fr.Element, x fr.Element) fr.Element {
	var diffs [BatchedRelationLength]fr.Element
	var xi fr.Element
	for i := range diffs {
		xi.SetUint64(uint64(i))
		diffs[i].Sub(&x, &xi)
		if diffs[i].IsZero() {
			return u[i]
		}
	}

	inv := fr.BatchInvert(diffs[:])

	var num fr.Element
	num.SetOne()
	for i := range diffs {
		num.Mul(&num, &diffs[i])
	}

	var res, t fr.Element
	for i := range u {
		t.Mul(&inv[i], &baryDenomInv[i]).Mul(&t, &u[i])
		res.Add(&res, &t)
	}
	res.Mul(&res, &num)
	return res
}
