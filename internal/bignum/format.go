package bignum

import (
	"fmt"
	"strings"

	"github.com/govalues/decimal"
)

// String returns the canonical decimal representation of x, most
// significant digit first, without sign or leading zeros. Zero renders
// as "0".
func (x Number) String() string {
	return string(x.AppendDecimal(nil))
}

// AppendDecimal appends the decimal representation of x to dst and returns
// the extended buffer.
func (x Number) AppendDecimal(dst []byte) []byte {
	d := x.view()
	for i := len(d) - 1; i >= 0; i-- {
		dst = append(dst, '0'+d[i])
	}
	return dst
}

// Format writes the decimal representation of x into dst and returns the
// number of bytes written. If dst is too small nothing is written and
// ErrShortBuffer is returned; the output is never truncated.
func (x Number) Format(dst []byte) (int, error) {
	d := x.view()
	if len(dst) < len(d) {
		return 0, ErrShortBuffer
	}
	for i := range d {
		dst[i] = '0' + d[len(d)-1-i]
	}
	return len(d), nil
}

// Parse reads a non-empty string of ASCII decimal digits. Leading zeros are
// accepted and dropped.
func Parse(s string) (Number, error) {
	if s == "" {
		return Number{}, fmt.Errorf("%w: empty input", ErrSyntax)
	}
	d := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return Number{}, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, c, i)
		}
		d[len(s)-1-i] = c - '0'
	}
	return fromDigits(d), nil
}

// MustParse is like Parse but panics on malformed input. It is intended for
// constants and tests.
func MustParse(s string) Number {
	x, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return x
}

// MarshalText implements encoding.TextMarshaler.
func (x Number) MarshalText() ([]byte, error) {
	return x.AppendDecimal(nil), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Number) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// MarshalJSON encodes x as a bare JSON number, the way encoding/json treats
// *big.Int.
func (x Number) MarshalJSON() ([]byte, error) {
	return x.AppendDecimal(nil), nil
}

// UnmarshalJSON accepts a bare JSON number or a quoted decimal string.
func (x *Number) UnmarshalJSON(data []byte) error {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	return x.UnmarshalText(data)
}

// Scientific renders x in normalized scientific notation with the given
// number of significant digits, for example "1.259e+10". Values with no
// more digits than sig are rendered exactly, without an exponent.
// sig is capped at 18, the precision of a decimal coefficient less one
// guard digit.
func (x Number) Scientific(sig int) (string, error) {
	if sig < 1 {
		sig = 1
	}
	d := x.view()
	if len(d) <= sig {
		return x.String(), nil
	}
	// A decimal coefficient holds at most 19 digits, which is plenty to
	// round to sig <= 18 significant digits.
	if sig > 18 {
		sig = 18
	}
	lead := 19
	if len(d) < lead {
		lead = len(d)
	}
	buf := make([]byte, 0, lead+1)
	buf = append(buf, '0'+d[len(d)-1], '.')
	for i := len(d) - 2; i >= len(d)-lead; i-- {
		buf = append(buf, '0'+d[i])
	}
	mantissa, err := decimal.Parse(string(buf))
	if err != nil {
		return "", fmt.Errorf("scientific mantissa: %w", err)
	}
	exp := len(d) - 1
	rounded := mantissa.Round(sig - 1)
	ten, err := decimal.Parse("10")
	if err != nil {
		return "", err
	}
	if rounded.Cmp(ten) >= 0 {
		// Rounding carried into a new digit: the mantissa is 1 followed by
		// sig-1 zeros.
		one := "1"
		if sig > 1 {
			one += "." + strings.Repeat("0", sig-1)
		}
		if rounded, err = decimal.Parse(one); err != nil {
			return "", err
		}
		exp++
	}
	return fmt.Sprintf("%se+%02d", rounded.String(), exp), nil
}
