package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderState is the lifecycle state of a sales order. Created -> Voided is
// the only transition and Voided is terminal.
type OrderState int

const (
	OrderStateCreated OrderState = iota + 1
	OrderStateVoided
)

var orderStateText = map[OrderState]string{
	OrderStateCreated: "created",
	OrderStateVoided:  "voided",
}

var orderStateByText = invert(orderStateText)

// ParseOrderState maps stored text back to the state.
func ParseOrderState(s string) (OrderState, error) {
	st, ok := orderStateByText[s]
	if !ok {
		return 0, fmt.Errorf("unknown order state %q", s)
	}
	return st, nil
}

func (s OrderState) String() string {
	if txt, ok := orderStateText[s]; ok {
		return txt
	}
	return fmt.Sprintf("OrderState(%d)", int(s))
}

func (s OrderState) Valid() bool {
	_, ok := orderStateText[s]
	return ok
}

func (s OrderState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	st, err := ParseOrderState(str)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s OrderState) Value() (driver.Value, error) {
	txt, ok := orderStateText[s]
	if !ok {
		return nil, fmt.Errorf("invalid order state %d", int(s))
	}
	return txt, nil
}

func (s *OrderState) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		return s.set(v)
	case []byte:
		return s.set(string(v))
	default:
		return fmt.Errorf("cannot scan %T into OrderState", value)
	}
}

func (s *OrderState) set(txt string) error {
	st, err := ParseOrderState(txt)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func invert[K comparable, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
