package honk_test

import (
	"context"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkmesh/ultrahonk/honk"
)

func testVerifier(t *testing.T) *honk.Verifier {
	t.Helper()
	v, err := honk.NewVerifier(testVerificationKey(t))
	require.NoError(t, err)
	return v
}

func testPublicInputs(t *testing.T, vk *honk.VerificationKey) []fr.Element {
	t.Helper()
	pub := make([]fr.Element, int(vk.NumPublicInputs)-honk.PairingObjectSize)
	for i := range pub {
		pub[i] = randomScalar(t)
	}
	return pub
}

func TestNewVerifierRejectsInvalidKey(t *testing.T) {
	vk := testVerificationKey(t)
	vk.CircuitSize = 3

	_, err := honk.NewVerifier(vk)
	assert.ErrorIs(t, err, honk.ErrInvalidVerificationKey)
}

func TestVerifyPublicInputsLength(t *testing.T) {
	v := testVerifier(t)
	proof := randomProofBytes(t, testLogN)

	ok, err := v.Verify(proof, nil)
	assert.False(t, ok)
	assert.ErrorIs(t, err, honk.ErrPublicInputsLength)

	ok, err = v.Verify(proof, []fr.Element{randomScalar(t), randomScalar(t)})
	assert.False(t, ok)
	assert.ErrorIs(t, err, honk.ErrPublicInputsLength)
}

func TestVerifyTruncatedProof(t *testing.T) {
	vk := testVerificationKey(t)
	v, err := honk.NewVerifier(vk)
	require.NoError(t, err)

	proof := randomProofBytes(t, testLogN)
	ok, err := v.Verify(proof[:len(proof)-1], testPublicInputs(t, vk))
	assert.False(t, ok)
	assert.ErrorIs(t, err, honk.ErrProofLength)
}

func TestVerifyRandomProofFailsSumcheck(t *testing.T) {
	vk := testVerificationKey(t)
	v, err := honk.NewVerifier(vk)
	require.NoError(t, err)

	ok, err := v.Verify(randomProofBytes(t, testLogN), testPublicInputs(t, vk))
	assert.False(t, ok)
	assert.ErrorIs(t, err, honk.ErrSumcheckFailed)
}

func TestVerifyZeroProofFailsOpening(t *testing.T) {
	// the all-zero-scalar proof passes every sumcheck round, so it reaches
	// the opening argument and fails its pairing check
	vk := testVerificationKey(t)
	v, err := honk.NewVerifier(vk)
	require.NoError(t, err)

	ok, err := v.Verify(zeroProofBytes(t, testLogN), testPublicInputs(t, vk))
	assert.False(t, ok)
	assert.ErrorIs(t, err, honk.ErrShpleminiFailed)
}

func TestVerifyIdempotent(t *testing.T) {
	vk := testVerificationKey(t)
	v, err := honk.NewVerifier(vk)
	require.NoError(t, err)

	proof := randomProofBytes(t, testLogN)
	pub := testPublicInputs(t, vk)

	ok1, err1 := v.Verify(proof, pub)
	ok2, err2 := v.Verify(proof, pub)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, err1, err2)
}

func TestVerifyBatch(t *testing.T) {
	vk := testVerificationKey(t)
	v, err := honk.NewVerifier(vk)
	require.NoError(t, err)

	proofs := [][]byte{
		randomProofBytes(t, testLogN),
		randomProofBytes(t, testLogN),
	}
	pubs := [][]fr.Element{
		testPublicInputs(t, vk),
		testPublicInputs(t, vk),
	}

	// random proofs fail, and the error names the offending index
	err = v.VerifyBatch(context.Background(), proofs, pubs)
	assert.ErrorIs(t, err, honk.ErrSumcheckFailed)

	// length mismatch is rejected up front
	err = v.VerifyBatch(context.Background(), proofs, pubs[:1])
	assert.ErrorIs(t, err, honk.ErrPublicInputsLength)

	// nothing to do is not an error
	assert.NoError(t, v.VerifyBatch(context.Background(), nil, nil))
}

func TestVerifyBatchCancelled(t *testing.T) {
	vk := testVerificationKey(t)
	v, err := honk.NewVerifier(vk)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	proofs := [][]byte{randomProofBytes(t, testLogN)}
	pubs := [][]fr.Element{testPublicInputs(t, vk)}
	assert.Error(t, v.VerifyBatch(ctx, proofs, pubs))
}
