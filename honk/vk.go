package honk

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"

	"github.com/zkmesh/ultrahonk/curve"
)

// VerificationKey holds the circuit-specific constants of the verifier.
// It is created once per circuit version, immutable thereafter, and may be
// shared across arbitrarily many concurrent verifications.
type VerificationKey struct {
	// CircuitSize is the number of rows in the execution trace, a power of two.
	CircuitSize uint64
	// LogN is log2(CircuitSize).
	LogN uint32
	// NumPublicInputs counts the circuit's public inputs, including the
	// PairingObjectSize elements of the embedded pairing point object.
	NumPublicInputs uint32
	// PubInputsOffset is the trace row at which public inputs start.
	PubInputsOffset uint32

	// Commitments holds the 28 precomputed column commitments, indexed by
	// entity order: the 14 selectors, sigma1-4, id1-4, table1-4, and the
	// first/last Lagrange polynomials.
	Commitments [NumPrecomputedEntities]bn254.G1Affine
}

// Validate checks the structural invariants of the key.
func (vk *VerificationKey) Validate() error {
	if vk.CircuitSize == 0 || bits.OnesCount64(vk.CircuitSize) != 1 {
		return fmt.Errorf("%w: circuit size %d is not a power of two", ErrInvalidVerificationKey, vk.CircuitSize)
	}
	if uint32(bits.TrailingZeros64(vk.CircuitSize)) != vk.LogN {
		return fmt.Errorf("%w: logN %d does not match circuit size %d", ErrInvalidVerificationKey, vk.LogN, vk.CircuitSize)
	}
	if vk.LogN == 0 || vk.LogN > MaxLogN {
		return fmt.Errorf("%w: logN %d out of range", ErrInvalidVerificationKey, vk.LogN)
	}
	if vk.NumPublicInputs < PairingObjectSize {
		return fmt.Errorf("%w: public input count %d smaller than the pairing point object", ErrInvalidVerificationKey, vk.NumPublicInputs)
	}
	for i := range vk.Commitments {
		if err := curve.ValidatePoint(vk.Commitments[i]); err != nil {
			return fmt.Errorf("%w: commitment %d: %v", ErrInvalidVerificationKey, i, err)
		}
	}
	return nil
}

// Hash returns the keccak binding of every scalar and commitment in the key,
// reduced into the scalar field. It seeds the Fiat-Shamir transcript, so two
// different circuits can never share a challenge schedule.
func (vk *VerificationKey) Hash() fr.Element {
	h := sha3.NewLegacyKeccak256()

	var w [32]byte
	writeWord := func(x uint64) {
		clear(w[:])
		for i := 0; i < 8; i++ {
			w[31-i] = byte(x >> (8 * i))
		}
		h.Write(w[:])
	}
	writeWord(vk.CircuitSize)
	writeWord(uint64(vk.LogN))
	writeWord(uint64(vk.NumPublicInputs))
	writeWord(uint64(vk.PubInputsOffset))

	for i := range vk.Commitments {
		bx := vk.Commitments[i].X.Bytes()
		by := vk.Commitments[i].Y.Bytes()
		h.Write(bx[:])
		h.Write(by[:])
	}

	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return out
}

// vkWire is the cbor encoding of a verification key. Commitments travel as
// 64-byte uncompressed points so loading revalidates the curve equation.
type vkWire struct {
	CircuitSize     uint64   `cbor:"1,keyasint"`
	LogN            uint32   `cbor:"2,keyasint"`
	NumPublicInputs uint32   `cbor:"3,keyasint"`
	PubInputsOffset uint32   `cbor:"4,keyasint"`
	Commitments     [][]byte `cbor:"5,keyasint"`
}

// WriteTo serializes the key. It implements [io.WriterTo].
func (vk *VerificationKey) WriteTo(w io.Writer) (int64, error) {
	wire := vkWire{
		CircuitSize:     vk.CircuitSize,
		LogN:            vk.LogN,
		NumPublicInputs: vk.NumPublicInputs,
		PubInputsOffset: vk.PubInputsOffset,
		Commitments:     make([][]byte, NumPrecomputedEntities),
	}
	for i := range vk.Commitments {
		raw := vk.Commitments[i].RawBytes()
		wire.Commitments[i] = raw[:]
	}

	data, err := cbor.Marshal(wire)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom deserializes and validates a key. It implements [io.ReaderFrom].
func (vk *VerificationKey) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}

	var wire vkWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return int64(len(data)), fmt.Errorf("%w: %v", ErrInvalidVerificationKey, err)
	}
	if len(wire.Commitments) != NumPrecomputedEntities {
		return int64(len(data)), fmt.Errorf("%w: got %d commitments, want %d", ErrInvalidVerificationKey, len(wire.Commitments), NumPrecomputedEntities)
	}

	vk.CircuitSize = wire.CircuitSize
	vk.LogN = wire.LogN
	vk.NumPublicInputs = wire.NumPublicInputs
	vk.PubInputsOffset = wire.PubInputsOffset
	for i := range wire.Commitments {
		if _, err := vk.Commitments[i].SetBytes(wire.Commitments[i]); err != nil {
			return int64(len(data)), fmt.Errorf("%w: commitment %d: %v", ErrInvalidVerificationKey, i, err)
		}
	}

	return int64(len(data)), vk.Validate()
}
