package honk

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
)

func TestGenerateTranscriptDeterministic(t *testing.T) {
	pf := zeroScalarProof(t, testRounds)
	pub := []fr.Element{mustRandom(t)}
	vkHash := mustRandom(t)

	a := generateTranscript(pf, pub, vkHash, 1<<testRounds, 1, testRounds)
	b := generateTranscript(pf, pub, vkHash, 1<<testRounds, 1, testRounds)

	assert.Equal(t, a.RelationParameters, b.RelationParameters)
	assert.Equal(t, a.Alphas, b.Alphas)
	assert.Equal(t, a.SumcheckChallenges, b.SumcheckChallenges)
	assert.True(t, a.GeminiR.Equal(&b.GeminiR))
	assert.True(t, a.ShplonkZ.Equal(&b.ShplonkZ))
}

func TestGenerateTranscriptSensitivity(t *testing.T) {
	pf := zeroScalarProof(t, testRounds)
	pub := []fr.Element{mustRandom(t)}
	vkHash := mustRandom(t)

	a := generateTranscript(pf, pub, vkHash, 1<<testRounds, 1, testRounds)

	// mutating the libra sum must not touch earlier challenges but must
	// change the libra challenge and everything after it
	pf2 := *pf
	pf2.LibraSum.SetOne()
	b := generateTranscript(&pf2, pub, vkHash, 1<<testRounds, 1, testRounds)

	assert.True(t, a.RelationParameters.Eta.Equal(&b.RelationParameters.Eta))
	assert.True(t, a.RelationParameters.Beta.Equal(&b.RelationParameters.Beta))
	assert.Equal(t, a.Alphas, b.Alphas)
	assert.False(t, a.LibraChallenge.Equal(&b.LibraChallenge))
	assert.False(t, a.SumcheckChallenges[0].Equal(&b.SumcheckChallenges[0]))
	assert.False(t, a.ShplonkZ.Equal(&b.ShplonkZ))

	// a different key hash changes the very first challenge
	c := generateTranscript(pf, pub, mustRandom(t), 1<<testRounds, 1, testRounds)
	assert.False(t, a.RelationParameters.Eta.Equal(&c.RelationParameters.Eta))
}

func TestGenerateTranscriptPadding(t *testing.T) {
	pf := zeroScalarProof(t, testRounds)
	tr := testTranscript(t, pf, testRounds)

	for i := uint32(testRounds); i < MaxLogN; i++ {
		assert.True(t, tr.SumcheckChallenges[i].IsZero())
		assert.True(t, tr.GateChallenges[i].IsZero())
	}
	for i := uint32(0); i < testRounds; i++ {
		assert.False(t, tr.SumcheckChallenges[i].IsZero())
	}
}

func TestPublicInputDelta(t *testing.T) {
	beta := mustRandom(t)
	gamma := mustRandom(t)
	pub := []fr.Element{mustRandom(t), mustRandom(t)}
	pairing := make([]fr.Element, PairingObjectSize)

	a := computePublicInputDelta(pub, pairing, beta, gamma, 16, 1)
	b := computePublicInputDelta(pub, pairing, beta, gamma, 16, 1)
	assert.True(t, a.Equal(&b))

	// the delta binds the public inputs
	pub2 := []fr.Element{pub[0], mustRandom(t)}
	c := computePublicInputDelta(pub2, pairing, beta, gamma, 16, 1)
	assert.False(t, a.Equal(&c))

	// and the pairing object elements
	pairing2 := make([]fr.Element, PairingObjectSize)
	pairing2[0].SetOne()
	d := computePublicInputDelta(pub, pairing2, beta, gamma, 16, 1)
	assert.False(t, a.Equal(&d))
}
