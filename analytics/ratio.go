// Package analytics turns a snapshot of journal trades into performance
// figures: scalar metrics, an equity curve, calendar buckets and heatmap
// intensities. Every function is a pure pass over its input.
package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// RatioKind tags how a Ratio should be read.
type RatioKind int

const (
	Finite RatioKind = iota
	Infinite
	NotApplicable
)

func (k RatioKind) String() string {
	switch k {
	case Infinite:
		return "infinite"
	case NotApplicable:
		return "n/a"
	default:
		return "finite"
	}
}

// Ratio is a quotient that may have no finite value. Value is only
// meaningful when Kind is Finite.
type Ratio struct {
	Kind  RatioKind
	Value float64
}

func FiniteRatio(v float64) Ratio { return Ratio{Kind: Finite, Value: v} }
func InfiniteRatio() Ratio        { return Ratio{Kind: Infinite} }
func NotApplicableRatio() Ratio   { return Ratio{Kind: NotApplicable} }

// Quotient divides num by den. A zero denominator gives Infinite when num is
// positive and Finite(0) otherwise. A quotient that overflows to +Inf is
// Infinite; one with no real value is NotApplicable.
func Quotient(num, den float64) Ratio {
	if den == 0 {
		if num > 0 {
			return InfiniteRatio()
		}
		return FiniteRatio(0)
	}
	q := num / den
	switch {
	case math.IsInf(q, 1):
		return InfiniteRatio()
	case math.IsNaN(q) || math.IsInf(q, -1):
		return NotApplicableRatio()
	}
	return FiniteRatio(q)
}

// Float returns the value and whether it is finite.
func (r Ratio) Float() (float64, bool) {
	if r.Kind != Finite {
		return 0, false
	}
	return r.Value, true
}

func (r Ratio) IsInfinite() bool      { return r.Kind == Infinite }
func (r Ratio) IsNotApplicable() bool { return r.Kind == NotApplicable }

func (r Ratio) String() string {
	switch r.Kind {
	case Infinite:
		return "∞"
	case NotApplicable:
		return "n/a"
	default:
		return strconv.FormatFloat(math.Round(r.Value*100)/100, 'f', 2, 64)
	}
}

// RR renders the ratio as "1 : x".
func (r Ratio) RR() string {
	if r.Kind == NotApplicable {
		return "n/a"
	}
	return "1 : " + r.String()
}

type ratioJSON struct {
	Kind  string   `json:"kind"`
	Value *float64 `json:"value,omitempty"`
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	out := ratioJSON{Kind: r.Kind.String()}
	if r.Kind == Finite {
		v := r.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	var in ratioJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch in.Kind {
	case "finite":
		if in.Value == nil || math.IsNaN(*in.Value) {
			return fmt.Errorf("finite ratio without a value")
		}
		*r = FiniteRatio(*in.Value)
	case "infinite":
		*r = InfiniteRatio()
	case "n/a":
		*r = NotApplicableRatio()
	default:
		return fmt.Errorf("unknown ratio kind %q", in.Kind)
	}
	return nil
}
