// Package fraction implements exact rational arithmetic for musical time.
//
// Tick offsets on the alignment grid must compare exactly across voices, so
// all time accounting is done with integer numerator/denominator pairs and
// never with floating point. Unlike math/big.Rat, a Fraction is not reduced
// automatically: Add keeps the least common multiple of the two
// denominators, which lets a cursor seeded with the grid's resolution
// multiplier as its denominator produce integer numerators for every
// offset it visits.
package fraction

import "fmt"

// Fraction is an exact rational number. The zero value is 0/1... almost:
// a zero Denominator is normalized to 1 by the methods that read it, but
// callers should use New to stay out of that corner.
type Fraction struct {
	Numerator   int64
	Denominator int64
}

// New returns the fraction n/d. A zero d panics: musical durations always
// have a positive denominator.
func New(n, d int64) Fraction {
	if d == 0 {
		panic("fraction: zero denominator")
	}
	if d < 0 {
		n, d = -n, -d
	}
	return Fraction{Numerator: n, Denominator: d}
}

// Zero returns the fraction 0/1.
func Zero() Fraction { return Fraction{Numerator: 0, Denominator: 1} }

func (f Fraction) den() int64 {
	if f.Denominator == 0 {
		return 1
	}
	return f.Denominator
}

// Add returns f + o. The result's denominator is LCM(f.Denominator,
// o.Denominator); no reduction is performed.
func (f Fraction) Add(o Fraction) Fraction {
	fd, od := f.den(), o.den()
	d := LCM(fd, od)
	return Fraction{
		Numerator:   f.Numerator*(d/fd) + o.Numerator*(d/od),
		Denominator: d,
	}
}

// Subtract returns f - o, on the common LCM denominator.
func (f Fraction) Subtract(o Fraction) Fraction {
	return f.Add(Fraction{Numerator: -o.Numerator, Denominator: o.den()})
}

// Multiply returns f * o, reduced.
func (f Fraction) Multiply(o Fraction) Fraction {
	return Fraction{Numerator: f.Numerator * o.Numerator, Denominator: f.den() * o.den()}.Simplify()
}

// Divide returns f / o, reduced. Division by a zero fraction panics.
func (f Fraction) Divide(o Fraction) Fraction {
	if o.Numerator == 0 {
		panic("fraction: division by zero")
	}
	return Fraction{Numerator: f.Numerator * o.den(), Denominator: f.den() * o.Numerator}.Simplify()
}

// Simplify returns f reduced to lowest terms with a positive denominator.
func (f Fraction) Simplify() Fraction {
	n, d := f.Numerator, f.den()
	if d < 0 {
		n, d = -n, -d
	}
	if n == 0 {
		return Fraction{Numerator: 0, Denominator: 1}
	}
	g := GCD(abs(n), d)
	return Fraction{Numerator: n / g, Denominator: d / g}
}

// Value returns the floating-point value of f. Only for pixel math; never
// feed the result back into grid keys.
func (f Fraction) Value() float64 {
	return float64(f.Numerator) / float64(f.den())
}

// Quotient returns the integer part of f.
func (f Fraction) Quotient() int64 {
	return f.Numerator / f.den()
}

// IsZero reports whether f equals zero.
func (f Fraction) IsZero() bool { return f.Numerator == 0 }

// Equals reports exact equality, comparing cross products so that
// unreduced representations of the same value compare equal.
func (f Fraction) Equals(o Fraction) bool {
	return f.Numerator*o.den() == o.Numerator*f.den()
}

// GreaterThan reports f > o exactly.
func (f Fraction) GreaterThan(o Fraction) bool {
	return f.Numerator*o.den() > o.Numerator*f.den()
}

// LessThan reports f < o exactly.
func (f Fraction) LessThan(o Fraction) bool {
	return f.Numerator*o.den() < o.Numerator*f.den()
}

// String renders f as "n/d".
func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.den())
}

// GCD returns the greatest common divisor of a and b. GCD(0, 0) is 1 so
// the result is always a valid denominator.
func GCD(a, b int64) int64 {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// LCM returns the least common multiple of a and b.
func LCM(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return abs(a) / GCD(a, b) * abs(b)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
