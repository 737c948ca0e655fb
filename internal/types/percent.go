package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Percent is an optional percentage. A ranking entry whose performance could
// not be determined carries an unknown Percent, and unknown sorts after every
// known value regardless of direction.
type Percent struct {
	value decimal.Decimal
	known bool
}

func KnownPercent(v decimal.Decimal) Percent { return Percent{value: v, known: true} }

func UnknownPercent() Percent { return Percent{} }

func (p Percent) Known() bool { return p.known }

// Value returns the percentage; zero when unknown.
func (p Percent) Value() decimal.Decimal { return p.value }

// Cmp defines the total ordering used by rankings: known values compare
// numerically, any known value precedes unknown, two unknowns are equal.
func (p Percent) Cmp(o Percent) int {
	switch {
	case p.known && o.known:
		return p.value.Cmp(o.value)
	case p.known:
		return 1
	case o.known:
		return -1
	default:
		return 0
	}
}

func (p Percent) String() string {
	if !p.known {
		return "n/a"
	}
	return p.value.StringFixed(2) + "%"
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.known {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

func (p *Percent) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Percent{}
		return nil
	}
	var v decimal.Decimal
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Percent{value: v, known: true}
	return nil
}
