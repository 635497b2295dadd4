// Package curve implements CurveOps: BN254 G1 point arithmetic, the
// compressed/uncompressed wire encodings, and the invariant checks the
// rest of the engine relies on (no infinite points, scalars reduced mod n).
//
// Arithmetic itself (scalar multiplication, point addition, marshaling)
// comes from go-ethereum's crypto/bn256 package. Compression is not part
// of that package's public surface, so it is implemented here on top of
// the curve equation y^2 = x^3 + 3 over the BN254 base field.
package curve

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto/bn256"
)

var (
	ErrPointAtInfinity = errors.New("curve: point at infinity")
	ErrPointNotOnCurve = errors.New("curve: point not on curve")
	ErrInvalidScalar   = errors.New("curve: invalid scalar")
	ErrInvalidLength   = errors.New("curve: invalid encoded length")
)

// Order is the BN254 scalar field order n, i.e. the order of the G1 group.
var Order = bn256.Order

// fieldPrime is the BN254 base field prime p, over which point coordinates
// live. bn256 does not export it, so it is restated here; its top byte is
// 0x30, which is why bits 6-7 of a compressed point's first byte are free
// for the infinity/sign flags (spec.md 4.1).
var fieldPrime, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088696311157297823662689037894645226208583", 10)

// sqrtExp is (p+1)/4; BN254's base field has p ≡ 3 (mod 4), so modular
// square roots are a single exponentiation, no Tonelli-Shanks needed.
var sqrtExp = new(big.Int).Rsh(new(big.Int).Add(fieldPrime, big.NewInt(1)), 2)

// curveB is the BN254 G1 short-Weierstrass coefficient (y^2 = x^3 + b).
var curveB = big.NewInt(3)

// Point is a BN254 G1 element.
type Point struct {
	p *bn256.G1
}

// Generator returns the canonical BN254 G1 base point G.
func Generator() *Point {
	return &Point{p: new(bn256.G1).ScalarBaseMult(big.NewInt(1))}
}

// RandomScalar draws a uniform nonzero scalar in [1, n).
func RandomScalar() (*big.Int, error) {
	for {
		k, err := rand.Int(rand.Reader, Order)
		if err != nil {
			return nil, err
		}
		if k.Sign() != 0 {
			return k, nil
		}
	}
}

// ReduceScalar reduces k modulo n and rejects a zero result, per spec.md
// 4.1 ("an input scalar of 0 is rejected").
func ReduceScalar(k *big.Int) (*big.Int, error) {
	r := new(big.Int).Mod(k, Order)
	if r.Sign() == 0 {
		return nil, ErrInvalidScalar
	}
	return r, nil
}

// ScalarMul computes scalar*point. The scalar is reduced mod n first and
// rejected if it reduces to zero. A result equal to the identity element
// fails with ErrPointAtInfinity.
func ScalarMul(pt *Point, scalar *big.Int) (*Point, error) {
	k, err := ReduceScalar(scalar)
	if err != nil {
		return nil, err
	}
	res := new(bn256.G1).ScalarMult(pt.p, k)
	out := &Point{p: res}
	if out.IsInfinity() {
		return nil, ErrPointAtInfinity
	}
	return out, nil
}

// Add computes p+q, failing with ErrPointAtInfinity if the sum is the
// identity element.
func Add(p, q *Point) (*Point, error) {
	res := new(bn256.G1).Add(p.p, q.p)
	out := &Point{p: res}
	if out.IsInfinity() {
		return nil, ErrPointAtInfinity
	}
	return out, nil
}

// IsInfinity reports whether pt is the group identity. bn256's affine
// marshaling represents the identity as 64 zero bytes.
func (pt *Point) IsInfinity() bool {
	b := pt.p.Marshal()
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// Bytes returns the 64-byte uncompressed encoding [x||y], both big-endian.
func (pt *Point) Bytes() [64]byte {
	var out [64]byte
	copy(out[:], pt.p.Marshal())
	return out
}

// DecodeUncompressed parses a 64-byte [x||y] encoding and verifies the
// point lies on the curve (ErrPointNotOnCurve otherwise) and is not the
// identity (ErrPointAtInfinity).
func DecodeUncompressed(b []byte) (*Point, error) {
	if len(b) != 64 {
		return nil, ErrInvalidLength
	}
	g := new(bn256.G1)
	if _, err := g.Unmarshal(b); err != nil {
		return nil, ErrPointNotOnCurve
	}
	pt := &Point{p: g}
	if pt.IsInfinity() {
		return nil, ErrPointAtInfinity
	}
	if !pt.onCurve() {
		return nil, ErrPointNotOnCurve
	}
	return pt, nil
}

func (pt *Point) onCurve() bool {
	b := pt.p.Marshal()
	x := new(big.Int).SetBytes(b[:32])
	y := new(big.Int).SetBytes(b[32:])
	return checkCurveEquation(x, y)
}

func checkCurveEquation(x, y *big.Int) bool {
	lhs := new(big.Int).Mul(y, y)
	lhs.Mod(lhs, fieldPrime)

	rhs := new(big.Int).Mul(x, x)
	rhs.Mul(rhs, x)
	rhs.Add(rhs, curveB)
	rhs.Mod(rhs, fieldPrime)

	return lhs.Cmp(rhs) == 0
}

// halfPrime is p/2, used to pick the canonical sign bit on compression
// (spec.md 4.1: bit 7 of the MSB is set iff y > p/2).
var halfPrime = new(big.Int).Rsh(new(big.Int).Set(fieldPrime), 1)

// Compress encodes pt as 32 big-endian bytes of x, with bit 7 of the first
// byte set iff y > p/2. Bit 6 is reserved for the infinity marker and is
// always clear here, since a Point value is never the identity by
// construction (ScalarMul/Add/Decode* all reject infinity results).
func (pt *Point) Compress() [32]byte {
	b := pt.p.Marshal()
	x := new(big.Int).SetBytes(b[:32])
	y := new(big.Int).SetBytes(b[32:])

	var out [32]byte
	xb := x.Bytes()
	copy(out[32-len(xb):], xb)

	if y.Cmp(halfPrime) > 0 {
		out[0] |= 0x80
	}
	return out
}

// Decompress reverses Compress: recovers y from the curve equation and
// the stored sign bit, then validates the resulting point.
func Decompress(b []byte) (*Point, error) {
	if len(b) != 32 {
		return nil, ErrInvalidLength
	}

	var buf [32]byte
	copy(buf[:], b)

	if buf[0]&0x40 != 0 {
		return nil, ErrPointAtInfinity
	}
	negative := buf[0]&0x80 != 0
	buf[0] &^= 0xC0

	x := new(big.Int).SetBytes(buf[:])
	if x.Cmp(fieldPrime) >= 0 {
		return nil, ErrPointNotOnCurve
	}

	ySq := new(big.Int).Mul(x, x)
	ySq.Mul(ySq, x)
	ySq.Add(ySq, curveB)
	ySq.Mod(ySq, fieldPrime)

	y := new(big.Int).Exp(ySq, sqrtExp, fieldPrime)
	check := new(big.Int).Mul(y, y)
	check.Mod(check, fieldPrime)
	if check.Cmp(ySq) != 0 {
		return nil, ErrPointNotOnCurve
	}

	isUpper := y.Cmp(halfPrime) > 0
	if isUpper != negative {
		y.Sub(fieldPrime, y)
	}

	var full [64]byte
	xb := x.Bytes()
	copy(full[32-len(xb):32], xb)
	yb := y.Bytes()
	copy(full[64-len(yb):], yb)

	return DecodeUncompressed(full[:])
}
