package fraction

import "testing"

func TestAdd_KeepsScaledDenominator(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Fraction
		wantNum  int64
		wantDen  int64
	}{
		{"SameDenominator", New(1, 12), New(2, 12), 3, 12},
		{"DividingDenominator", New(0, 12), New(1, 4), 3, 12},
		{"CoprimeDenominators", New(1, 4), New(1, 3), 7, 12},
		{"NoAutoReduce", New(2, 12), New(2, 12), 4, 12},
		{"Negative", New(1, 4), New(-1, 2), -1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Add(tt.b)
			if got.Numerator != tt.wantNum || got.Denominator != tt.wantDen {
				t.Errorf("%v + %v = %v, want %d/%d", tt.a, tt.b, got, tt.wantNum, tt.wantDen)
			}
		})
	}
}

func TestCursorStaysInteger(t *testing.T) {
	// A cursor seeded with the resolution multiplier as its denominator
	// must keep that denominator while durations with dividing
	// denominators are accumulated.
	cursor := New(0, 6)
	for _, step := range []Fraction{New(1, 2), New(1, 3), New(1, 6), New(1, 1)} {
		cursor = cursor.Add(step)
		if cursor.Denominator != 6 {
			t.Fatalf("cursor denominator drifted to %d after adding %v", cursor.Denominator, step)
		}
	}
	if cursor.Numerator != 12 {
		t.Errorf("cursor numerator = %d, want 12", cursor.Numerator)
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		in, want Fraction
	}{
		{New(4, 8), New(1, 2)},
		{New(0, 7), New(0, 1)},
		{New(-6, 4), New(-3, 2)},
		{New(5, 1), New(5, 1)},
	}
	for _, tt := range tests {
		if got := tt.in.Simplify(); got != tt.want {
			t.Errorf("Simplify(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComparisons(t *testing.T) {
	a, b := New(2, 4), New(1, 2)
	if !a.Equals(b) {
		t.Errorf("%v should equal %v", a, b)
	}
	if !New(3, 4).GreaterThan(b) {
		t.Error("3/4 should be greater than 1/2")
	}
	if !New(1, 4).LessThan(b) {
		t.Error("1/4 should be less than 1/2")
	}
}

func TestValueAndQuotient(t *testing.T) {
	f := New(9, 4)
	if f.Value() != 2.25 {
		t.Errorf("Value = %v, want 2.25", f.Value())
	}
	if f.Quotient() != 2 {
		t.Errorf("Quotient = %d, want 2", f.Quotient())
	}
}

func TestGCDLCM(t *testing.T) {
	tests := []struct {
		a, b, gcd, lcm int64
	}{
		{4, 6, 2, 12},
		{3, 5, 1, 15},
		{8, 8, 8, 8},
		{1, 12, 1, 12},
	}
	for _, tt := range tests {
		if got := GCD(tt.a, tt.b); got != tt.gcd {
			t.Errorf("GCD(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.gcd)
		}
		if got := LCM(tt.a, tt.b); got != tt.lcm {
			t.Errorf("LCM(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.lcm)
		}
	}
}
