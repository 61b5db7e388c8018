package modpay

import (
	"math"
	"testing"
)

func TestFractionMulFloor(t *testing.T) {
	cases := map[string]struct {
		frac  Fraction
		value uint64
		want  uint64
	}{
		"exact division": {
			frac:  Fraction{Numerator: 1, Denominator: 5},
			value: 100,
			want:  20,
		},
		"rounded down": {
			frac:  Fraction{Numerator: 1, Denominator: 3},
			value: 100,
			want:  33,
		},
		"zero numerator": {
			frac:  Fraction{Numerator: 0, Denominator: 3},
			value: 100,
			want:  0,
		},
		"identity": {
			frac:  Fraction{Numerator: 7, Denominator: 7},
			value: math.MaxUint64,
			want:  math.MaxUint64,
		},
		"wide intermediate product": {
			// 2^63 * 2 does not fit into 64 bits.
			frac:  Fraction{Numerator: 2, Denominator: 3},
			value: 1 << 63,
			want:  6148914691236517205,
		},
		"saturates instead of overflowing": {
			frac:  Fraction{Numerator: 3, Denominator: 2},
			value: math.MaxUint64,
			want:  math.MaxUint64,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.frac.MulFloor(tc.value); got != tc.want {
				t.Fatalf("got %d", got)
			}
		})
	}
}

func TestFractionMulCeil(t *testing.T) {
	cases := map[string]struct {
		frac  Fraction
		value uint64
		want  uint64
	}{
		"exact division": {
			frac:  Fraction{Numerator: 1, Denominator: 5},
			value: 100,
			want:  20,
		},
		"rounded up": {
			frac:  Fraction{Numerator: 1, Denominator: 3},
			value: 100,
			want:  34,
		},
		"zero numerator": {
			frac:  Fraction{Numerator: 1, Denominator: 0},
			value: 100,
			want:  0,
		},
		"saturates instead of overflowing": {
			frac:  Fraction{Numerator: 3, Denominator: 2},
			value: math.MaxUint64,
			want:  math.MaxUint64,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.frac.MulCeil(tc.value); got != tc.want {
				t.Fatalf("got %d", got)
			}
		})
	}
}

func TestFractionValidate(t *testing.T) {
	if err := (Fraction{Numerator: 2, Denominator: 0}).Validate(); err == nil {
		t.Fatal("zero division must be invalid")
	}
	if err := (Fraction{Numerator: 0, Denominator: 0}).Validate(); err != nil {
		t.Fatalf("zero value must be valid: %s", err)
	}
	if err := (Fraction{Numerator: 1, Denominator: 2}).Validate(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestFractionNormalize(t *testing.T) {
	n := Fraction{Numerator: 20, Denominator: 60}.Normalize()
	if n.Numerator != 1 || n.Denominator != 3 {
		t.Fatalf("unexpected fraction: %v", n)
	}
}

func TestParseFractionString(t *testing.T) {
	frac, err := ParseFractionString("1/10")
	if err != nil {
		t.Fatalf("cannot parse: %s", err)
	}
	if frac.Numerator != 1 || frac.Denominator != 10 {
		t.Fatalf("unexpected fraction: %v", frac)
	}
	frac, err = ParseFractionString("42")
	if err != nil {
		t.Fatalf("cannot parse: %s", err)
	}
	if frac.Numerator != 42 || frac.Denominator != 1 {
		t.Fatalf("unexpected fraction: %v", frac)
	}
	if _, err := ParseFractionString("x/y"); err == nil {
		t.Fatal("expected an error")
	}
}
