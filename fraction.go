package modpay

import (
	"encoding/json"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/modnet/modpay/errors"
)

// Fraction is a rational number used to express rates and shares without
// floating point arithmetic.
type Fraction struct {
	Numerator   uint32
	Denominator uint32
}

// String returns a human readable fraction representation.
func (f *Fraction) String() string {
	if f == nil {
		return "nil"
	}
	if f.Numerator == 0 {
		return "0"
	}
	if f.Denominator == 1 {
		return fmt.Sprint(f.Numerator)
	}
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Numerator   uint32 `json:"numerator"`
		Denominator uint32 `json:"denominator"`
	}{
		Numerator:   f.Numerator,
		Denominator: f.Denominator,
	})
}

func (f *Fraction) UnmarshalJSON(raw []byte) error {
	// Prioritize human readable format.
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		frac, err := ParseFractionString(human)
		if err != nil {
			return errors.Wrap(err, "fraction string")
		}
		*f = *frac
		return nil
	}

	var frac struct {
		Numerator   uint32
		Denominator uint32
	}
	if err := json.Unmarshal(raw, &frac); err != nil {
		return err
	}
	f.Numerator = frac.Numerator
	f.Denominator = frac.Denominator
	return nil
}

// Validate returns an error if this fraction represents an invalid value.
func (f Fraction) Validate() error {
	if f.Denominator == 0 && f.Numerator != 0 {
		return errors.Wrap(errors.ErrState, "zero division")
	}
	return nil
}

// Normalize returns a new fraction instance that has its numerator and
// denominator reduced to the smallest possible representation.
func (f Fraction) Normalize() Fraction {
	div := uintGcd(f.Numerator, f.Denominator)
	if div == 0 {
		return f
	}
	return Fraction{
		Numerator:   f.Numerator / div,
		Denominator: f.Denominator / div,
	}
}

// MulFloor returns the value multiplied by this fraction, rounded down.
// The intermediate product is computed with 128 bits so the result cannot
// overflow before the division. Saturates at the maximum uint64 value.
func (f Fraction) MulFloor(value uint64) uint64 {
	if f.Numerator == 0 || f.Denominator == 0 {
		return 0
	}
	hi, lo := bits.Mul64(value, uint64(f.Numerator))
	if hi >= uint64(f.Denominator) {
		return math.MaxUint64
	}
	quo, _ := bits.Div64(hi, lo, uint64(f.Denominator))
	return quo
}

// MulCeil returns the value multiplied by this fraction, rounded up.
// Saturates at the maximum uint64 value.
func (f Fraction) MulCeil(value uint64) uint64 {
	if f.Numerator == 0 || f.Denominator == 0 {
		return 0
	}
	hi, lo := bits.Mul64(value, uint64(f.Numerator))
	if hi >= uint64(f.Denominator) {
		return math.MaxUint64
	}
	quo, rem := bits.Div64(hi, lo, uint64(f.Denominator))
	if rem > 0 && quo < math.MaxUint64 {
		quo++
	}
	return quo
}

func uintGcd(a, b uint32) uint32 {
	for b != 0 {
		t := b
		b = a % b
		a = t
	}
	return a
}

// ParseFractionString returns a fraction value that is represented by given
// string. This function fails if given string does not represent a fraction
// value. It does not fail if the representation format is correct but the
// value is invalid (ie. value of "2/0").
func ParseFractionString(raw string) (*Fraction, error) {
	chunks := strings.SplitN(raw, "/", 2)
	n, err := strconv.ParseUint(chunks[0], 10, 32)
	if err != nil {
		return nil, errors.Wrap(err, "numerator")
	}
	if len(chunks) == 1 {
		return &Fraction{Numerator: uint32(n), Denominator: 1}, nil
	}
	d, err := strconv.ParseUint(chunks[1], 10, 32)
	if err != nil {
		return nil, errors.Wrap(err, "denominator")
	}
	return &Fraction{Numerator: uint32(n), Denominator: uint32(d)}, nil
}
