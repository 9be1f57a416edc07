// Package bignum implements a small arbitrary-precision unsigned integer
// stored as decimal digits. It supports exactly the operations needed to
// compute Fibonacci numbers (addition, subtraction without underflow and
// multiplication) and renders values as canonical decimal strings.
//
// A Number is an immutable value. Every operation returns a freshly allocated
// result and never modifies its operands, so Numbers can be shared freely
// between goroutines.
package bignum

import (
	"errors"
	"math"
	"math/big"
)

var (
	// ErrUnderflow is raised when a subtraction would produce a negative value.
	ErrUnderflow = errors.New("bignum: subtraction underflow")
	// ErrShortBuffer is returned by Format when the destination cannot hold
	// the full decimal representation.
	ErrShortBuffer = errors.New("bignum: destination buffer too short")
	// ErrSyntax is returned by Parse for input that is not a decimal integer.
	ErrSyntax = errors.New("bignum: invalid decimal syntax")
)

// Number is a non-negative integer held as base-10 digits, least
// significant first. The zero value is a valid Number equal to 0.
//
// Invariants: the digit sequence has at least one element once normalized,
// every element is in [0, 9], and the most significant digit is non-zero
// unless the value is 0.
type Number struct {
	digits []byte
}

var zeroDigits = []byte{0}

// New returns the Number equal to value.
func New(value uint64) Number {
	if value == 0 {
		return Number{digits: []byte{0}}
	}
	d := make([]byte, 0, 20)
	for value > 0 {
		d = append(d, byte(value%10))
		value /= 10
	}
	return Number{digits: d}
}

// fromDigits wraps a little-endian digit slice after trimming leading zeros.
// The slice is owned by the returned Number.
func fromDigits(d []byte) Number {
	n := len(d)
	for n > 1 && d[n-1] == 0 {
		n--
	}
	if n == 0 {
		return Number{digits: []byte{0}}
	}
	return Number{digits: d[:n]}
}

func (x Number) view() []byte {
	if len(x.digits) == 0 {
		return zeroDigits
	}
	return x.digits
}

// Len returns the number of decimal digits of x. Zero has one digit.
func (x Number) Len() int {
	return len(x.view())
}

// Digit returns the i-th least significant digit of x, or 0 when i lies
// beyond the most significant digit.
func (x Number) Digit(i int) byte {
	d := x.view()
	if i < 0 || i >= len(d) {
		return 0
	}
	return d[i]
}

// IsZero reports whether x == 0.
func (x Number) IsZero() bool {
	d := x.view()
	return len(d) == 1 && d[0] == 0
}

// Uint64 returns x as a uint64 and reports whether the conversion was exact.
func (x Number) Uint64() (uint64, bool) {
	d := x.view()
	if len(d) > 20 {
		return 0, false
	}
	var v uint64
	for i := len(d) - 1; i >= 0; i-- {
		digit := uint64(d[i])
		if v > (math.MaxUint64-digit)/10 {
			return 0, false
		}
		v = v*10 + digit
	}
	return v, true
}

// Cmp compares a and b and returns -1, 0 or +1.
func Cmp(a, b Number) int {
	da, db := a.view(), b.view()
	if len(da) != len(db) {
		if len(da) < len(db) {
			return -1
		}
		return 1
	}
	for i := len(da) - 1; i >= 0; i-- {
		switch {
		case da[i] < db[i]:
			return -1
		case da[i] > db[i]:
			return 1
		}
	}
	return 0
}

// Equal reports whether x and y hold the same value.
func (x Number) Equal(y Number) bool {
	return Cmp(x, y) == 0
}

// BigInt converts x to a newly allocated *big.Int.
func (x Number) BigInt() *big.Int {
	z, _ := new(big.Int).SetString(x.String(), 10)
	return z
}

// FromBigInt converts a non-negative *big.Int. It returns ErrUnderflow for
// negative input.
func FromBigInt(v *big.Int) (Number, error) {
	if v.Sign() < 0 {
		return Number{}, ErrUnderflow
	}
	return Parse(v.String())
}

// DigitsBound returns an upper bound on the number of decimal digits of the
// k-th Fibonacci number. F(k) < phi^k, so it has at most
// floor(k*log10(phi)) + 1 digits.
func DigitsBound(k uint64) int {
	const log10Phi = 0.20898764024997873
	return int(float64(k)*log10Phi) + 1
}
