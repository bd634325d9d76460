package honk

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkmesh/ultrahonk/transcript"
)

// RelationParameters are the challenges shared by several relation families.
type RelationParameters struct {
	Eta      fr.Element
	EtaTwo   fr.Element
	EtaThree fr.Element
	Beta     fr.Element
	Gamma    fr.Element

	// PublicInputDelta ties the permutation grand product to the actual
	// public inputs. It is recomputed by the verifier, never trusted.
	PublicInputDelta fr.Element
}

// Transcript holds every verifier challenge for one verification call.
// Per-round arrays are capacity-bounded at MaxLogN; entries beyond NumRounds
// stay zero so padding rounds drop out of every downstream formula.
type Transcript struct {
	RelationParameters RelationParameters

	Alphas             [NumAlphas]fr.Element
	GateChallenges     [MaxLogN]fr.Element
	LibraChallenge     fr.Element
	SumcheckChallenges [MaxLogN]fr.Element

	Rho       fr.Element
	GeminiR   fr.Element
	ShplonkNu fr.Element
	ShplonkZ  fr.Element

	NumRounds uint32
}

// generateTranscript re-derives all challenges from the proof, the public
// inputs and the key hash. The write/squeeze order is part of the protocol:
// prover and verifier must agree on it bit for bit.
func generateTranscript(pf *Proof, publicInputs []fr.Element, vkHash fr.Element, circuitSize uint64, pubInputsOffset uint32, logN uint32) *Transcript {
	o := transcript.NewOracle()
	tr := &Transcript{NumRounds: logN}

	// eta, etaTwo, etaThree: bound to the key, the public inputs and the
	// first three wire commitments.
	o.WriteScalar(vkHash)
	o.WriteScalars(publicInputs)
	o.WriteScalars(pf.PairingObject[:])
	o.WritePoint(pf.W1)
	o.WritePoint(pf.W2)
	o.WritePoint(pf.W3)
	tr.RelationParameters.Eta, tr.RelationParameters.EtaTwo = o.SqueezeSplit()
	tr.RelationParameters.EtaThree, _ = o.SqueezeSplit()

	// beta, gamma: bound to the lookup read data and the fourth wire.
	o.WritePoint(pf.LookupReadCounts)
	o.WritePoint(pf.LookupReadTags)
	o.WritePoint(pf.W4)
	tr.RelationParameters.Beta, tr.RelationParameters.Gamma = o.SqueezeSplit()

	tr.RelationParameters.PublicInputDelta = computePublicInputDelta(
		publicInputs, pf.PairingObject[:],
		tr.RelationParameters.Beta, tr.RelationParameters.Gamma,
		circuitSize, pubInputsOffset,
	)

	// Subrelation batching challenges, two per squeeze.
	o.WritePoint(pf.LookupInverses)
	o.WritePoint(pf.ZPerm)
	tr.Alphas[0], tr.Alphas[1] = o.SqueezeSplit()
	for i := 2; i < NumAlphas; i += 2 {
		lo, hi := o.SqueezeSplit()
		tr.Alphas[i] = lo
		if i+1 < NumAlphas {
			tr.Alphas[i+1] = hi
		}
	}

	for i := uint32(0); i < logN; i++ {
		tr.GateChallenges[i], _ = o.SqueezeSplit()
	}

	o.WritePoint(pf.LibraConcatenation)
	o.WriteScalar(pf.LibraSum)
	tr.LibraChallenge, _ = o.SqueezeSplit()

	for i := uint32(0); i < logN; i++ {
		o.WriteScalars(pf.SumcheckUnivariates[i][:])
		tr.SumcheckChallenges[i], _ = o.SqueezeSplit()
	}

	o.WriteScalars(pf.SumcheckEvaluations[:])
	o.WriteScalar(pf.LibraEvaluation)
	o.WritePoint(pf.LibraGrandSum)
	o.WritePoint(pf.LibraQuotient)
	o.WritePoint(pf.GeminiMasking)
	o.WriteScalar(pf.GeminiMaskingEval)
	tr.Rho, _ = o.SqueezeSplit()

	for i := uint32(0); i+1 < logN; i++ {
		o.WritePoint(pf.GeminiFold[i])
	}
	tr.GeminiR, _ = o.SqueezeSplit()

	o.WriteScalars(pf.GeminiAEvals[:logN])
	o.WriteScalars(pf.LibraPolyEvals[:])
	tr.ShplonkNu, _ = o.SqueezeSplit()

	o.WritePoint(pf.ShplonkQ)
	tr.ShplonkZ, _ = o.SqueezeSplit()

	return tr
}

// computePublicInputDelta evaluates the ratio of the two running products
// that the permutation argument contributes over the public input rows. The
// pairing point object elements count as extra public inputs.
func computePublicInputDelta(publicInputs, pairingObject []fr.Element, beta, gamma fr.Element, circuitSize uint64, pubInputsOffset uint32) fr.Element {
	var num, den fr.Element
	num.SetOne()
	den.SetOne()

	// numAcc starts at gamma + beta*(N + offset), denAcc at
	// gamma - beta*(offset + 1); each row advances them by +/- beta.
	var numAcc, denAcc, t fr.Element
	t.SetUint64(circuitSize + uint64(pubInputsOffset)).Mul(&t, &beta)
	numAcc.Add(&gamma, &t)
	t.SetUint64(uint64(pubInputsOffset) + 1).Mul(&t, &beta)
	denAcc.Sub(&gamma, &t)

	accumulate := func(p fr.Element) {
		var term fr.Element
		term.Add(&numAcc, &p)
		num.Mul(&num, &term)
		term.Add(&denAcc, &p)
		den.Mul(&den, &term)

		numAcc.Add(&numAcc, &beta)
		denAcc.Sub(&denAcc, &beta)
	}
	for i := range publicInputs {
		accumulate(publicInputs[i])
	}
	for i := range pairingObject {
		accumulate(pairingObject[i])
	}

	den.Inverse(&den)
	num.Mul(&num, &den)
	return num
}
