package honk_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkmesh/ultrahonk/curve"
	"github.com/zkmesh/ultrahonk/honk"
)

const testLogN = 4

// proofWriter serializes proof elements in protocol order.
type proofWriter struct {
	buf []byte
}

func (w *proofWriter) scalar(x fr.Element) {
	b := x.Bytes()
	w.buf = append(w.buf, b[:]...)
}

func (w *proofWriter) point(p bn254.G1Affine) {
	bx := p.X.Bytes()
	by := p.Y.Bytes()
	w.buf = append(w.buf, bx[:]...)
	w.buf = append(w.buf, by[:]...)
}

func randomScalar(t *testing.T) fr.Element {
	t.Helper()
	var e fr.Element
	_, err := e.SetRandom()
	require.NoError(t, err)
	return e
}

func randomPoint(t *testing.T) bn254.G1Affine {
	t.Helper()
	s := randomScalar(t)
	var b big.Int
	s.BigInt(&b)
	var p bn254.G1Affine
	gen := curve.G1Generator()
	p.ScalarMultiplication(&gen, &b)
	return p
}

// buildProofBytes serializes a syntactically valid proof: valid curve points
// everywhere and scalars drawn from the given source.
func buildProofBytes(t *testing.T, logN uint32, scalar func() fr.Element) []byte {
	t.Helper()
	w := &proofWriter{}

	for i := 0; i < honk.PairingObjectSize; i++ {
		w.scalar(fr.Element{}) // identity pairing points
	}
	for i := 0; i < honk.NumWitnessEntities; i++ {
		w.point(randomPoint(t))
	}
	w.point(randomPoint(t)) // libra concatenation
	w.scalar(scalar())      // libra sum

	for i := uint32(0); i < logN; i++ {
		for j := 0; j < honk.BatchedRelationLength; j++ {
			w.scalar(scalar())
		}
	}
	for i := 0; i < honk.NumEntities; i++ {
		w.scalar(scalar())
	}

	w.scalar(scalar())      // libra evaluation
	w.point(randomPoint(t)) // libra grand sum
	w.point(randomPoint(t)) // libra quotient

	w.point(randomPoint(t)) // gemini masking
	w.scalar(scalar())
	for i := uint32(0); i+1 < logN; i++ {
		w.point(randomPoint(t))
	}
	for i := uint32(0); i < logN; i++ {
		w.scalar(scalar())
	}
	for i := 0; i < 4; i++ {
		w.scalar(scalar())
	}

	w.point(randomPoint(t)) // shplonk Q
	w.point(randomPoint(t)) // kzg quotient

	return w.buf
}

func randomProofBytes(t *testing.T, logN uint32) []byte {
	return buildProofBytes(t, logN, func() fr.Element { return randomScalar(t) })
}

func zeroProofBytes(t *testing.T, logN uint32) []byte {
	return buildProofBytes(t, logN, func() fr.Element { return fr.Element{} })
}

func TestProofNumElements(t *testing.T) {
	data := randomProofBytes(t, testLogN)
	assert.Equal(t, honk.ProofNumBytes(testLogN), len(data))
}

func TestDecodeProof(t *testing.T) {
	data := randomProofBytes(t, testLogN)

	pf, err := honk.DecodeProof(data, testLogN)
	require.NoError(t, err)
	assert.Equal(t, uint32(testLogN), pf.NumRounds)

	// padding rounds stay zero
	for i := uint32(testLogN); i < honk.MaxLogN; i++ {
		for j := 0; j < honk.BatchedRelationLength; j++ {
			assert.True(t, pf.SumcheckUnivariates[i][j].IsZero())
		}
	}
}

func TestDecodeProofLength(t *testing.T) {
	data := randomProofBytes(t, testLogN)

	_, err := honk.DecodeProof(data[:len(data)-32], testLogN)
	assert.ErrorIs(t, err, honk.ErrProofLength)

	_, err = honk.DecodeProof(append(data, make([]byte, 32)...), testLogN)
	assert.ErrorIs(t, err, honk.ErrProofLength)

	_, err = honk.DecodeProof(data, testLogN+1)
	assert.ErrorIs(t, err, honk.ErrProofLength)

	_, err = honk.DecodeProof(data, 0)
	assert.ErrorIs(t, err, honk.ErrProofLength)

	_, err = honk.DecodeProof(data, honk.MaxLogN+1)
	assert.ErrorIs(t, err, honk.ErrProofLength)
}

func TestDecodeProofNonCanonicalScalar(t *testing.T) {
	data := randomProofBytes(t, testLogN)

	// overwrite the first pairing object word with the field modulus
	fr.Modulus().FillBytes(data[:32])

	_, err := honk.DecodeProof(data, testLogN)
	assert.ErrorIs(t, err, honk.ErrProofEncoding)
}

func TestDecodeProofPairingObjectLimbTooWide(t *testing.T) {
	data := randomProofBytes(t, testLogN)

	// a limb one past the 68-bit radix is canonical as a scalar but would
	// alias a different base-field coordinate on recombination
	wide := new(big.Int).Lsh(big.NewInt(1), 68)
	wide.FillBytes(data[:32])

	_, err := honk.DecodeProof(data, testLogN)
	assert.ErrorIs(t, err, honk.ErrProofEncoding)

	// the radix boundary itself is accepted
	data2 := randomProofBytes(t, testLogN)
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 68), big.NewInt(1))
	max.FillBytes(data2[:32])

	_, err = honk.DecodeProof(data2, testLogN)
	assert.NoError(t, err)
}

func TestDecodeProofPointOffCurve(t *testing.T) {
	data := randomProofBytes(t, testLogN)

	// corrupt the y coordinate of the first witness commitment
	off := 32*honk.PairingObjectSize + 32
	data[off+31] ^= 1

	_, err := honk.DecodeProof(data, testLogN)
	assert.ErrorIs(t, err, honk.ErrProofEncoding)
}
