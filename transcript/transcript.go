// Package transcript implements the Fiat-Shamir oracle shared by the prover
// and verifier. Challenges are derived by hashing everything written so far
// with Keccak-256; the previous digest is chained into the next absorption so
// every challenge commits to the full history of the protocol.
package transcript

import (
	"encoding/binary"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/sha3"
)

// Oracle is a deterministic random oracle.
// The zero value is not usable; use [NewOracle].
type Oracle struct {
	h hash.Hash

	state [32]byte
	buf   []byte
}

// NewOracle creates a new Oracle with an empty history.
func NewOracle() *Oracle {
	return &Oracle{
		h:   sha3.NewLegacyKeccak256(),
		buf: make([]byte, 0, 1024),
	}
}

// WriteBytes absorbs raw bytes into the oracle.
func (o *Oracle) WriteBytes(b []byte) {
	o.buf = append(o.buf, b...)
}

// WriteUint32 absorbs a uint32 as a 32-byte big-endian word,
// matching the field element encoding.
func (o *Oracle) WriteUint32(x uint32) {
	var w [32]byte
	binary.BigEndian.PutUint32(w[28:], x)
	o.buf = append(o.buf, w[:]...)
}

// WriteScalar absorbs a scalar as a 32-byte big-endian word.
func (o *Oracle) WriteScalar(x fr.Element) {
	b := x.Bytes()
	o.buf = append(o.buf, b[:]...)
}

// WriteScalars absorbs a slice of scalars in order.
func (o *Oracle) WriteScalars(xs []fr.Element) {
	for i := range xs {
		o.WriteScalar(xs[i])
	}
}

// WritePoint absorbs an affine point as its two coordinates,
// each a 32-byte big-endian word.
func (o *Oracle) WritePoint(p bn254.G1Affine) {
	bx := p.X.Bytes()
	by := p.Y.Bytes()
	o.buf = append(o.buf, bx[:]...)
	o.buf = append(o.buf, by[:]...)
}

// squeeze hashes the chained state and the absorbed buffer,
// chains the digest, and resets the buffer.
func (o *Oracle) squeeze() [32]byte {
	o.h.Reset()
	o.h.Write(o.state[:])
	o.h.Write(o.buf)
	var d [32]byte
	o.h.Sum(d[:0])

	o.state = d
	o.buf = o.buf[:0]
	return d
}

// SqueezeScalar derives one challenge, reducing the digest into the scalar field.
func (o *Oracle) SqueezeScalar() fr.Element {
	d := o.squeeze()
	var c fr.Element
	c.SetBytes(d[:])
	return c
}

// SqueezeSplit derives two sub-challenges from a single digest: the low
// 128 bits and the high 128 bits. Both sides of the protocol must agree on
// this exact layout, so it is fixed here and nowhere else.
func (o *Oracle) SqueezeSplit() (fr.Element, fr.Element) {
	d := o.squeeze()
	var lo, hi fr.Element
	lo.SetBytes(d[16:32])
	hi.SetBytes(d[0:16])
	return lo, hi
}
