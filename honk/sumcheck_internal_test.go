package honk

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkmesh/ultrahonk/curve"
)

func mustRandom(t *testing.T) fr.Element {
	t.Helper()
	var e fr.Element
	_, err := e.SetRandom()
	require.NoError(t, err)
	return e
}

func testPoint(t *testing.T) bn254.G1Affine {
	t.Helper()
	s := mustRandom(t)
	var b big.Int
	s.BigInt(&b)
	var p bn254.G1Affine
	gen := curve.G1Generator()
	p.ScalarMultiplication(&gen, &b)
	return p
}

// zeroScalarProof builds a proof whose scalars are all zero but whose
// commitments are valid points. Every sumcheck round then carries the zero
// univariate and the protocol's padding semantics make all checks vanish.
func zeroScalarProof(t *testing.T, logN uint32) *Proof {
	t.Helper()
	pf := &Proof{NumRounds: logN}
	pf.W1 = testPoint(t)
	pf.W2 = testPoint(t)
	pf.W3 = testPoint(t)
	pf.W4 = testPoint(t)
	pf.LookupReadCounts = testPoint(t)
	pf.LookupReadTags = testPoint(t)
	pf.LookupInverses = testPoint(t)
	pf.ZPerm = testPoint(t)
	pf.LibraConcatenation = testPoint(t)
	pf.LibraGrandSum = testPoint(t)
	pf.LibraQuotient = testPoint(t)
	pf.GeminiMasking = testPoint(t)
	for i := uint32(0); i+1 < logN; i++ {
		pf.GeminiFold[i] = testPoint(t)
	}
	pf.ShplonkQ = testPoint(t)
	pf.KZGQuotient = testPoint(t)
	return pf
}

func testTranscript(t *testing.T, pf *Proof, logN uint32) *Transcript {
	t.Helper()
	return generateTranscript(pf, []fr.Element{mustRandom(t)}, mustRandom(t), 1<<logN, 1, logN)
}

func TestEvaluateUnivariateMatchesPolynomial(t *testing.T) {
	// random degree-8 polynomial in coefficient form
	var coeffs [BatchedRelationLength]fr.Element
	for i := range coeffs {
		coeffs[i] = mustRandom(t)
	}
	evalAt := func(x fr.Element) fr.Element {
		var res fr.Element
		for i := len(coeffs) - 1; i >= 0; i-- {
			res.Mul(&res, &x).Add(&res, &coeffs[i])
		}
		return res
	}

	var u [BatchedRelationLength]fr.Element
	for i := range u {
		var x fr.Element
		x.SetUint64(uint64(i))
		u[i] = evalAt(x)
	}

	x := mustRandom(t)
	got := evaluateUnivariate(&u, x)
	want := evalAt(x)
	assert.True(t, got.Equal(&want))

	// a domain point returns the stored evaluation directly
	var two fr.Element
	two.SetUint64(2)
	got = evaluateUnivariate(&u, two)
	assert.True(t, got.Equal(&u[2]))
}

func TestVerifySumcheckZeroProof(t *testing.T) {
	pf := zeroScalarProof(t, testRounds)
	tr := testTranscript(t, pf, testRounds)
	assert.NoError(t, verifySumcheck(pf, tr))
}

func TestVerifySumcheckRoundMismatch(t *testing.T) {
	pf := zeroScalarProof(t, testRounds)
	pf.SumcheckUnivariates[0][0].SetOne()
	tr := testTranscript(t, pf, testRounds)
	assert.ErrorIs(t, verifySumcheck(pf, tr), ErrSumcheckFailed)
}

func TestVerifySumcheckFinalMismatch(t *testing.T) {
	// all rounds pass with zero univariates, but a nonzero claimed libra
	// evaluation breaks the final identity
	pf := zeroScalarProof(t, testRounds)
	pf.LibraEvaluation.SetOne()
	tr := testTranscript(t, pf, testRounds)
	assert.ErrorIs(t, verifySumcheck(pf, tr), ErrSumcheckFailed)
}

func TestVerifySumcheckRandomProof(t *testing.T) {
	pf := zeroScalarProof(t, testRounds)
	pf.LibraSum = mustRandom(t)
	for i := uint32(0); i < testRounds; i++ {
		for j := 0; j < BatchedRelationLength; j++ {
			pf.SumcheckUnivariates[i][j] = mustRandom(t)
		}
	}
	tr := testTranscript(t, pf, testRounds)
	assert.ErrorIs(t, verifySumcheck(pf, tr), ErrSumcheckFailed)
}

const testRounds = 4

func TestAccumulateRelationsZeroEvaluations(t *testing.T) {
	var evals [NumEntities]fr.Element
	var alphas [NumAlphas]fr.Element
	for i := range alphas {
		alphas[i] = mustRandom(t)
	}
	rp := &RelationParameters{
		Eta:              mustRandom(t),
		EtaTwo:           mustRandom(t),
		EtaThree:         mustRandom(t),
		Beta:             mustRandom(t),
		Gamma:            mustRandom(t),
		PublicInputDelta: mustRandom(t),
	}

	got := accumulateRelations(&evals, rp, &alphas, mustRandom(t))
	assert.True(t, got.IsZero())
}

func TestAccumulateRelationsDeterministic(t *testing.T) {
	var evals [NumEntities]fr.Element
	for i := range evals {
		evals[i] = mustRandom(t)
	}
	var alphas [NumAlphas]fr.Element
	for i := range alphas {
		alphas[i] = mustRandom(t)
	}
	rp := &RelationParameters{
		Eta:              mustRandom(t),
		EtaTwo:           mustRandom(t),
		EtaThree:         mustRandom(t),
		Beta:             mustRandom(t),
		Gamma:            mustRandom(t),
		PublicInputDelta: mustRandom(t),
	}
	pow := mustRandom(t)

	a := accumulateRelations(&evals, rp, &alphas, pow)
	b := accumulateRelations(&evals, rp, &alphas, pow)
	assert.True(t, a.Equal(&b))
}
