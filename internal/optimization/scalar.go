package optimization

import (
	"encoding/json"
	"math"
	"strconv"
)

// Scalar is a number that may be INVALID. The zero value is Invalid.
type Scalar struct {
	v  float64
	ok bool
}

// Invalid is the sentinel produced by any failed evaluation.
var Invalid = Scalar{}

// NewScalar wraps v, mapping NaN and infinities to Invalid.
func NewScalar(v float64) Scalar {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Invalid
	}
	return Scalar{v: v, ok: true}
}

// Float returns the value and whether it is valid.
func (s Scalar) Float() (float64, bool) {
	return s.v, s.ok
}

// IsValid reports whether s holds a finite number.
func (s Scalar) IsValid() bool {
	return s.ok
}

// Or returns s when valid and fallback otherwise.
func (s Scalar) Or(fallback Scalar) Scalar {
	if s.ok {
		return s
	}
	return fallback
}

// Float64 returns the value, or NaN when invalid.
func (s Scalar) Float64() float64 {
	if !s.ok {
		return math.NaN()
	}
	return s.v
}

func (s Scalar) String() string {
	if !s.ok {
		return "INVALID"
	}
	return strconv.FormatFloat(s.v, 'g', -1, 64)
}

// MarshalJSON encodes an invalid scalar as null.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.ok {
		return []byte("null"), nil
	}
	return json.Marshal(s.v)
}

// UnmarshalJSON decodes null as Invalid.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Invalid
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = NewScalar(v)
	return nil
}
