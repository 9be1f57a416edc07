package bignum

// Add returns a + b.
func Add(a, b Number) Number {
	da, db := a.view(), b.view()
	if len(da) < len(db) {
		da, db = db, da
	}
	z := make([]byte, len(da)+1)
	var carry byte
	for i := range da {
		s := da[i] + carry
		if i < len(db) {
			s += db[i]
		}
		z[i] = s % 10
		carry = s / 10
	}
	z[len(da)] = carry
	return fromDigits(z)
}

// Sub returns a - b. It panics with ErrUnderflow if b > a; callers must
// guarantee a >= b. Use SubChecked when the operands are not trusted.
func Sub(a, b Number) Number {
	z, err := SubChecked(a, b)
	if err != nil {
		panic(err)
	}
	return z
}

// SubChecked returns a - b, or ErrUnderflow if b > a.
func SubChecked(a, b Number) (Number, error) {
	if Cmp(a, b) < 0 {
		return Number{}, ErrUnderflow
	}
	da, db := a.view(), b.view()
	z := make([]byte, len(da))
	var borrow byte
	for i := range da {
		sub := borrow
		if i < len(db) {
			sub += db[i]
		}
		if da[i] >= sub {
			z[i] = da[i] - sub
			borrow = 0
		} else {
			z[i] = da[i] + 10 - sub
			borrow = 1
		}
	}
	return fromDigits(z), nil
}

// Mul returns a * b using schoolbook multiplication. Column sums are
// accumulated first and carried once at the end.
func Mul(a, b Number) Number {
	if a.IsZero() || b.IsZero() {
		return New(0)
	}
	da, db := a.view(), b.view()
	acc := make([]uint64, len(da)+len(db))
	for i, x := range da {
		if x == 0 {
			continue
		}
		for j, y := range db {
			acc[i+j] += uint64(x) * uint64(y)
		}
	}
	z := make([]byte, len(acc))
	var carry uint64
	for i, v := range acc {
		v += carry
		z[i] = byte(v % 10)
		carry = v / 10
	}
	return fromDigits(z)
}

// Double returns 2x.
func Double(x Number) Number {
	return Add(x, x)
}

// Square returns x².
func Square(x Number) Number {
	return Mul(x, x)
}
