package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrPercentageRange is returned for rates outside [0, 100].
var ErrPercentageRange = errors.New("money: percentage must be between 0 and 100")

var hundred = decimal.NewFromInt(100)

// Percentage is a rate in [0, 100]; 16 means sixteen percent.
type Percentage struct {
	value decimal.Decimal
}

// ParsePercentage reads a decimal rate such as "16" or "7.5".
func ParsePercentage(s string) (Percentage, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Percentage{}, fmt.Errorf("money: invalid percentage %q", s)
	}
	return NewPercentage(d)
}

// NewPercentage validates the [0, 100] bound.
func NewPercentage(d decimal.Decimal) (Percentage, error) {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return Percentage{}, fmt.Errorf("%w: %s", ErrPercentageRange, d.String())
	}
	return Percentage{value: d}, nil
}

// MustPercentage is ParsePercentage for constants and tests.
func MustPercentage(s string) Percentage {
	p, err := ParsePercentage(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Percentage) Decimal() decimal.Decimal {
	return p.value
}

func (p Percentage) IsZero() bool {
	return p.value.IsZero()
}

func (p Percentage) String() string {
	return p.value.String()
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Percentage) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("money: invalid percentage %s", string(data))
		}
		str = num.String()
	}
	parsed, err := ParsePercentage(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
