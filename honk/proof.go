package honk

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkmesh/ultrahonk/curve"
)

// Proof is the decoded form of a serialized proof. Per-round sections are
// capacity-bounded at MaxLogN with NumRounds marking the active length;
// padding entries stay zero and are no-ops downstream.
type Proof struct {
	// PairingObject carries two previously-accumulated pairing points as
	// 68-bit limbs, folded into the final pairing check.
	PairingObject [PairingObjectSize]fr.Element

	W1 bn254.G1Affine
	W2 bn254.G1Affine
	W3 bn254.G1Affine
	W4 bn254.G1Affine

	LookupReadCounts bn254.G1Affine
	LookupReadTags   bn254.G1Affine
	LookupInverses   bn254.G1Affine
	ZPerm            bn254.G1Affine

	LibraConcatenation bn254.G1Affine
	LibraSum           fr.Element

	SumcheckUnivariates [MaxLogN][BatchedRelationLength]fr.Element
	SumcheckEvaluations [NumEntities]fr.Element

	LibraEvaluation fr.Element
	LibraGrandSum   bn254.G1Affine
	LibraQuotient   bn254.G1Affine

	GeminiMasking     bn254.G1Affine
	GeminiMaskingEval fr.Element
	GeminiFold        [MaxLogN - 1]bn254.G1Affine
	GeminiAEvals      [MaxLogN]fr.Element

	// LibraPolyEvals holds, in order, the concatenation polynomial at r,
	// the grand sum at r, the grand sum at g*r, and the quotient at r.
	LibraPolyEvals [4]fr.Element

	ShplonkQ    bn254.G1Affine
	KZGQuotient bn254.G1Affine

	// NumRounds is the active number of sumcheck rounds, equal to the
	// circuit's logN.
	NumRounds uint32
}

// proofReader walks a serialized proof word by word, latching the first
// decoding error.
type proofReader struct {
	data []byte
	off  int
	err  error
}

func (r *proofReader) scalar() fr.Element {
	var x fr.Element
	if r.err != nil {
		return x
	}
	if err := x.SetBytesCanonical(r.data[r.off : r.off+fr.Bytes]); err != nil {
		r.err = fmt.Errorf("%w: non-canonical scalar at offset %d", ErrProofEncoding, r.off)
		return x
	}
	r.off += fr.Bytes
	return x
}

func (r *proofReader) point() bn254.G1Affine {
	var p bn254.G1Affine
	if r.err != nil {
		return p
	}
	off := r.off
	if err := p.X.SetBytesCanonical(r.data[off : off+32]); err != nil {
		r.err = fmt.Errorf("%w: non-canonical x coordinate at offset %d", ErrProofEncoding, off)
		return p
	}
	if err := p.Y.SetBytesCanonical(r.data[off+32 : off+64]); err != nil {
		r.err = fmt.Errorf("%w: non-canonical y coordinate at offset %d", ErrProofEncoding, off)
		return p
	}
	r.off += 64

	// (0, 0) encodes the identity.
	if p.X.IsZero() && p.Y.IsZero() {
		return p
	}
	if err := curve.ValidatePoint(p); err != nil {
		r.err = fmt.Errorf("%w: %v", ErrProofEncoding, err)
	}
	return p
}

// DecodeProof deserializes a proof for a circuit of the given log-size.
// The byte length must match [ProofNumBytes] exactly; on any mismatch no
// partial decoding is attempted.
func DecodeProof(data []byte, logN uint32) (*Proof, error) {
	if logN == 0 || logN > MaxLogN {
		return nil, fmt.Errorf("%w: logN %d out of range", ErrProofLength, logN)
	}
	if len(data) != ProofNumBytes(logN) {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrProofLength, len(data), ProofNumBytes(logN))
	}

	r := &proofReader{data: data}
	pf := &Proof{NumRounds: logN}

	// Limbs must fit the 68-bit radix; a wider limb would alias a different
	// base-field element when the pairing points are recombined.
	var limb big.Int
	for i := range pf.PairingObject {
		pf.PairingObject[i] = r.scalar()
		pf.PairingObject[i].BigInt(&limb)
		if limb.BitLen() > pairingObjectLimbBits {
			return nil, fmt.Errorf("%w: pairing object limb %d exceeds %d bits", ErrProofEncoding, i, pairingObjectLimbBits)
		}
	}

	pf.W1 = r.point()
	pf.W2 = r.point()
	pf.W3 = r.point()
	pf.LookupReadCounts = r.point()
	pf.LookupReadTags = r.point()
	pf.W4 = r.point()
	pf.LookupInverses = r.point()
	pf.ZPerm = r.point()

	pf.LibraConcatenation = r.point()
	pf.LibraSum = r.scalar()

	for i := uint32(0); i < logN; i++ {
		for j := 0; j < BatchedRelationLength; j++ {
			pf.SumcheckUnivariates[i][j] = r.scalar()
		}
	}
	for i := range pf.SumcheckEvaluations {
		pf.SumcheckEvaluations[i] = r.scalar()
	}

	pf.LibraEvaluation = r.scalar()
	pf.LibraGrandSum = r.point()
	pf.LibraQuotient = r.point()

	pf.GeminiMasking = r.point()
	pf.GeminiMaskingEval = r.scalar()
	for i := uint32(0); i+1 < logN; i++ {
		pf.GeminiFold[i] = r.point()
	}
	for i := uint32(0); i < logN; i++ {
		pf.GeminiAEvals[i] = r.scalar()
	}
	for i := range pf.LibraPolyEvals {
		pf.LibraPolyEvals[i] = r.scalar()
	}

	pf.ShplonkQ = r.point()
	pf.KZGQuotient = r.point()

	if r.err != nil {
		return nil, r.err
	}
	return pf, nil
}

// witnessCommitments returns the 8 witness commitments in entity order
// (w1-w4, zPerm, lookupInverses, lookupReadCounts, lookupReadTags).
func (pf *Proof) witnessCommitments() [NumWitnessEntities]bn254.G1Affine {
	return [NumWitnessEntities]bn254.G1Affine{
		pf.W1, pf.W2, pf.W3, pf.W4,
		pf.ZPerm, pf.LookupInverses, pf.LookupReadCounts, pf.LookupReadTags,
	}
}
