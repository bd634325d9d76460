package honk

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkmesh/ultrahonk/curve"
	"github.com/zkmesh/ultrahonk/transcript"
)

// verifyShplemini checks that every committed polynomial opens to its
// claimed evaluation, batched into a single multi-scalar multiplication and
// one pairing check. Gemini folds the multilinear claim into univariate
// claims at +/- powers of the gemini challenge; Shplonk batches those and
// the libra openings with powers of nu against a single quotient.
func verifyShplemini(pf *Proof, vk *VerificationKey, tr *Transcript, engine curve.Engine) error {
	n := int(pf.NumRounds)

	if err := checkLibraConsistency(&pf.LibraPolyEvals, tr.GeminiR, tr.SumcheckChallenges[:n], pf.LibraEvaluation); err != nil {
		return err
	}

	// rPow[i] = r^(2^i)
	rPow := make([]fr.Element, n)
	rPow[0] = tr.GeminiR
	for i := 1; i < n; i++ {
		rPow[i].Square(&rPow[i-1])
	}

	// Batch-inverted denominators: z-r, z+r, the n-1 fold denominators
	// z+r^(2^i), z-g*r for the shifted libra opening, and r itself for the
	// to-be-shifted weight.
	denoms := make([]fr.Element, n+3)
	denoms[0].Sub(&tr.ShplonkZ, &rPow[0])
	denoms[1].Add(&tr.ShplonkZ, &rPow[0])
	for i := 1; i < n; i++ {
		denoms[i+1].Add(&tr.ShplonkZ, &rPow[i])
	}
	var gr fr.Element
	gr.Mul(&subgroupGenerator, &tr.GeminiR)
	denoms[n+1].Sub(&tr.ShplonkZ, &gr)
	denoms[n+2] = tr.GeminiR
	inv := fr.BatchInvert(denoms)
	posInv, negInv := inv[0], inv[1]
	foldInv := inv[2 : n+1]
	grInv := inv[n+1]
	rInv := inv[n+2]

	nu := tr.ShplonkNu

	// Unshifted polynomials open at +r and -r with weights 1 and nu; a
	// shifted polynomial is the unshifted one divided by X, so its claims
	// pick up 1/r and a sign flip on the negative point.
	var unshiftedWeight, shiftedWeight, t fr.Element
	t.Mul(&nu, &negInv)
	unshiftedWeight.Add(&posInv, &t)
	shiftedWeight.Sub(&posInv, &t).Mul(&shiftedWeight, &rInv)

	// rho-batched multilinear evaluation, masking polynomial last
	var batchedEval, rhoPow fr.Element
	rhoPow.SetOne()
	for j := 0; j < NumEntities; j++ {
		t.Mul(&rhoPow, &pf.SumcheckEvaluations[j])
		batchedEval.Add(&batchedEval, &t)
		rhoPow.Mul(&rhoPow, &tr.Rho)
	}
	maskingRho := rhoPow
	t.Mul(&maskingRho, &pf.GeminiMaskingEval)
	batchedEval.Add(&batchedEval, &t)

	a0Pos, err := foldGeminiEvaluations(pf, tr, rPow, batchedEval)
	if err != nil {
		return err
	}

	// nu powers: claim 0 is the positive opening, claim 1 the negative,
	// claims 2..n the fold polynomials, then the four libra claims.
	nuPow := make([]fr.Element, n+5)
	nuPow[0].SetOne()
	for i := 1; i < len(nuPow); i++ {
		nuPow[i].Mul(&nuPow[i-1], &nu)
	}

	// constant term: sum of nu^k * value_k / (z - x_k) over all claims
	var constantTerm fr.Element
	constantTerm.Mul(&a0Pos, &posInv)
	t.Mul(&nuPow[1], &negInv).Mul(&t, &pf.GeminiAEvals[0])
	constantTerm.Add(&constantTerm, &t)
	for i := 1; i < n; i++ {
		t.Mul(&nuPow[i+1], &foldInv[i-1]).Mul(&t, &pf.GeminiAEvals[i])
		constantTerm.Add(&constantTerm, &t)
	}
	libraDens := [4]fr.Element{posInv, posInv, grInv, posInv}
	for k := 0; k < 4; k++ {
		t.Mul(&nuPow[n+1+k], &libraDens[k]).Mul(&t, &pf.LibraPolyEvals[k])
		constantTerm.Add(&constantTerm, &t)
	}

	// Assemble the MSM. Commitment scalars are negated so the accumulated
	// point lands on the left leg of the pairing check.
	numTerms := 3 + 1 + NumUnshiftedEntities + NumShiftedEntities + (n - 1) + 3
	points := make([]bn254.G1Affine, 0, numTerms)
	scalars := make([]fr.Element, 0, numTerms)
	add := func(p bn254.G1Affine, s fr.Element) {
		points = append(points, p)
		scalars = append(scalars, s)
	}
	addNeg := func(p bn254.G1Affine, s fr.Element) {
		s.Neg(&s)
		add(p, s)
	}

	var oneScalar fr.Element
	oneScalar.SetOne()
	add(pf.ShplonkQ, oneScalar)
	add(pf.KZGQuotient, tr.ShplonkZ)
	add(curve.G1Generator(), constantTerm)

	witness := pf.witnessCommitments()
	rhoPow.SetOne()
	for j := 0; j < NumUnshiftedEntities; j++ {
		var c bn254.G1Affine
		if j < NumPrecomputedEntities {
			c = vk.Commitments[j]
		} else {
			c = witness[j-NumPrecomputedEntities]
		}
		t.Mul(&rhoPow, &unshiftedWeight)
		addNeg(c, t)
		rhoPow.Mul(&rhoPow, &tr.Rho)
	}
	shifted := [NumShiftedEntities]bn254.G1Affine{pf.W1, pf.W2, pf.W3, pf.W4, pf.ZPerm}
	for j := 0; j < NumShiftedEntities; j++ {
		t.Mul(&rhoPow, &shiftedWeight)
		addNeg(shifted[j], t)
		rhoPow.Mul(&rhoPow, &tr.Rho)
	}
	t.Mul(&maskingRho, &unshiftedWeight)
	addNeg(pf.GeminiMasking, t)

	for i := 1; i < n; i++ {
		t.Mul(&nuPow[i+1], &foldInv[i-1])
		addNeg(pf.GeminiFold[i-1], t)
	}

	t.Mul(&nuPow[n+1], &posInv)
	addNeg(pf.LibraConcatenation, t)
	t.Mul(&nuPow[n+2], &posInv)
	var t2 fr.Element
	t2.Mul(&nuPow[n+3], &grInv)
	t.Add(&t, &t2)
	addNeg(pf.LibraGrandSum, t)
	t.Mul(&nuPow[n+4], &posInv)
	addNeg(pf.LibraQuotient, t)

	p0, err := engine.MSM(points, scalars)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShpleminiFailed, err)
	}
	var p1 bn254.G1Affine
	p1.Neg(&pf.KZGQuotient)

	// Fold in the proof's accumulated pairing points with a derived
	// separator, keeping both legs bound to this transcript.
	t0, t1, err := pf.pairingPoints()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShpleminiFailed, err)
	}
	sep := deriveRecursionSeparator(p0, p1, t0, t1)
	var sepBig big.Int
	sep.BigInt(&sepBig)
	var scaled bn254.G1Affine
	scaled.ScalarMultiplication(&t0, &sepBig)
	p0.Add(&p0, &scaled)
	scaled.ScalarMultiplication(&t1, &sepBig)
	p1.Add(&p1, &scaled)

	ok, err := engine.PairingCheck(p0, p1)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShpleminiFailed, err)
	}
	if !ok {
		return fmt.Errorf("%w: pairing check failed", ErrShpleminiFailed)
	}
	return nil
}

// foldGeminiEvaluations reconstructs A_0(r) from the batched multilinear
// evaluation and the claimed negative evaluations, inverting one fold step
// per sumcheck round from the top down.
func foldGeminiEvaluations(pf *Proof, tr *Transcript, rPow []fr.Element, batchedEval fr.Element) (fr.Element, error) {
	n := int(pf.NumRounds)

	// denominators r^(2^i)*(1-u_i) + u_i
	var one fr.Element
	one.SetOne()
	denoms := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		var oneMinusU fr.Element
		oneMinusU.Sub(&one, &tr.SumcheckChallenges[i])
		denoms[i].Mul(&rPow[i], &oneMinusU).Add(&denoms[i], &tr.SumcheckChallenges[i])
		if denoms[i].IsZero() {
			return fr.Element{}, fmt.Errorf("%w: degenerate fold denominator in round %d", ErrShpleminiFailed, i)
		}
	}
	inv := fr.BatchInvert(denoms)

	acc := batchedEval
	var t, u fr.Element
	for i := n - 1; i >= 0; i-- {
		// A_i(+p) = (2p*A_{i+1} - a_i*(p*(1-u_i) - u_i)) / (p*(1-u_i) + u_i)
		t.Mul(&rPow[i], &acc).Double(&t)
		u.Sub(&denoms[i], &tr.SumcheckChallenges[i]).Sub(&u, &tr.SumcheckChallenges[i]) // p*(1-u_i) - u_i
		u.Mul(&u, &pf.GeminiAEvals[i])
		t.Sub(&t, &u)
		acc.Mul(&t, &inv[i])
	}
	return acc, nil
}

// pairingPoints recombines the two accumulated points carried in the proof's
// pairing point object from their 68-bit limbs.
func (pf *Proof) pairingPoints() (bn254.G1Affine, bn254.G1Affine, error) {
	p0, err := limbsToPoint(pf.PairingObject[:PairingObjectSize/2])
	if err != nil {
		return p0, p0, err
	}
	p1, err := limbsToPoint(pf.PairingObject[PairingObjectSize/2:])
	return p0, p1, err
}

func limbsToPoint(limbs []fr.Element) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	p.X = limbsToFp(limbs[:NumPairingObjectLimbs])
	p.Y = limbsToFp(limbs[NumPairingObjectLimbs:])
	if p.X.IsZero() && p.Y.IsZero() {
		return p, nil
	}
	if err := curve.ValidatePoint(p); err != nil {
		return p, err
	}
	return p, nil
}

func limbsToFp(limbs []fr.Element) fp.Element {
	acc := new(big.Int)
	var b big.Int
	for i := NumPairingObjectLimbs - 1; i >= 0; i-- {
		acc.Lsh(acc, pairingObjectLimbBits)
		limbs[i].BigInt(&b)
		acc.Add(acc, &b)
	}
	var x fp.Element
	x.SetBigInt(acc)
	return x
}

// deriveRecursionSeparator derives the scalar folding the embedded pairing
// points into the final check, bound to everything both legs contain.
func deriveRecursionSeparator(p0, p1, t0, t1 bn254.G1Affine) fr.Element {
	o := transcript.NewOracle()
	o.WritePoint(p0)
	o.WritePoint(p1)
	o.WritePoint(t0)
	o.WritePoint(t1)
	return o.SqueezeScalar()
}
