package honk

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Protocol constants. These are pinned by the proving-system version this
// verifier matches; changing any of them requires a new verification key.
const (
	// MaxLogN is the capacity bound for per-round arrays. Circuits may use
	// fewer rounds; padding rounds carry zero challenges and are no-ops in
	// every downstream formula.
	MaxLogN = 28

	// NumEntities is the width of the sumcheck evaluation vector:
	// 28 precomputed columns, 8 witness columns, 5 shifts.
	NumEntities            = 41
	NumPrecomputedEntities = 28
	NumWitnessEntities     = 8
	NumShiftedEntities     = 5
	NumUnshiftedEntities   = NumEntities - NumShiftedEntities

	// NumSubrelations is the total number of batched algebraic identities;
	// the first is unscaled, the rest take one alpha challenge each.
	NumSubrelations = 28
	NumAlphas       = NumSubrelations - 1

	// BatchedRelationLength is the number of evaluations in each sumcheck
	// round univariate (degree 8, domain {0..8}).
	BatchedRelationLength = 9

	// PairingObjectSize is the number of field elements encoding the two
	// previously-accumulated pairing points carried inside a proof.
	PairingObjectSize = 16

	// NumPairingObjectLimbs is the number of 68-bit limbs per point
	// coordinate in the pairing point object.
	NumPairingObjectLimbs = 4
	pairingObjectLimbBits = 68

	// SubgroupSize is the order of the small multiplicative subgroup used
	// by the zero-knowledge consistency check.
	SubgroupSize = 256
)

// Entity indices into the sumcheck evaluation vector. The order is part of
// the protocol: the shplemini batching walks it front to back.
const (
	entQM = iota
	entQC
	entQL
	entQR
	entQO
	entQ4
	entQLookup
	entQArith
	entQDeltaRange
	entQElliptic
	entQMemory
	entQNnf
	entQPoseidon2External
	entQPoseidon2Internal
	entSigma1
	entSigma2
	entSigma3
	entSigma4
	entID1
	entID2
	entID3
	entID4
	entTable1
	entTable2
	entTable3
	entTable4
	entLagrangeFirst
	entLagrangeLast
	entW1
	entW2
	entW3
	entW4
	entZPerm
	entLookupInverses
	entLookupReadCounts
	entLookupReadTags
	entW1Shift
	entW2Shift
	entW3Shift
	entW4Shift
	entZPermShift
)

var (
	subgroupGenerator    fr.Element
	subgroupGeneratorInv fr.Element

	// negHalf is -1/2 mod r, used by the arithmetic relation.
	negHalf fr.Element

	// poseidonInternalDiag is the diagonal of the Poseidon2 internal round
	// matrix for state width 4.
	poseidonInternalDiag [4]fr.Element

	// baryDenomInv[i] = 1 / prod_{j != i} (i - j) over the 9-point domain.
	baryDenomInv [BatchedRelationLength]fr.Element
)

func init() {
	g, err := fr.Generator(SubgroupSize)
	if err != nil {
		panic(err)
	}
	subgroupGenerator = g
	subgroupGeneratorInv.Inverse(&subgroupGenerator)

	var two fr.Element
	two.SetUint64(2)
	negHalf.Inverse(&two).Neg(&negHalf)

	poseidonInternalDiag[0] = frFromHex("10dc6e9c006ea38b04b1e03b4bd9490c0d03f98929ca1d7fb56821fd19d3b6e7")
	poseidonInternalDiag[1] = frFromHex("0c28145b6a44df3e0149b3d0a30b3bb599df9756d4dd9b84a86b38cfb45a740b")
	poseidonInternalDiag[2] = frFromHex("00544b8338791518b2c7645a50392798b21f75bb60e3596170067d00141cac15")
	poseidonInternalDiag[3] = frFromHex("222c01175718386f2e2e82eb122789e352e105a3b8fa852613bc534433ee428b")

	var denoms [BatchedRelationLength]fr.Element
	for i := 0; i < BatchedRelationLength; i++ {
		denoms[i].SetOne()
		var diff fr.Element
		for j := 0; j < BatchedRelationLength; j++ {
			if j == i {
				continue
			}
			if i > j {
				diff.SetUint64(uint64(i - j))
			} else {
				diff.SetUint64(uint64(j - i)).Neg(&diff)
			}
			denoms[i].Mul(&denoms[i], &diff)
		}
	}
	inv := fr.BatchInvert(denoms[:])
	copy(baryDenomInv[:], inv)
}

func frFromHex(s string) fr.Element {
	b, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("honk: invalid hex constant")
	}
	var e fr.Element
	e.SetBigInt(b)
	return e
}

// SubgroupGenerator returns the fixed generator of the order-256 subgroup.
func SubgroupGenerator() fr.Element { return subgroupGenerator }

// ProofNumElements returns the number of 32-byte words a serialized proof
// must contain for a circuit of the given log-size. The per-round sections
// scale with logN; everything else is a protocol constant.
func ProofNumElements(logN uint32) int {
	n := int(logN)
	const fixed = PairingObjectSize + // pairing point object
		2*NumWitnessEntities + // 8 witness commitments
		2 + 1 + // libra concatenation commitment, libra sum
		NumEntities + // sumcheck evaluations
		1 + // libra evaluation
		4 + // libra grand sum + quotient commitments
		2 + 1 + // gemini masking commitment + evaluation
		4 + // libra polynomial evaluations
		4 // shplonk Q + kzg quotient commitments
	return fixed +
		n*BatchedRelationLength + // sumcheck round univariates
		2*(n-1) + // gemini fold commitments
		n // gemini A evaluations
}

// ProofNumBytes returns the serialized size in bytes of a proof for a
// circuit of the given log-size.
func ProofNumBytes(logN uint32) int {
	return 32 * ProofNumElements(logN)
}
