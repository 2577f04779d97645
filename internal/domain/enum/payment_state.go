package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentState is the lifecycle state of a payment. Completed -> Voided,
// Voided is terminal.
type PaymentState int

const (
	PaymentStateCompleted PaymentState = iota + 1
	PaymentStateVoided
)

var paymentStateText = map[PaymentState]string{
	PaymentStateCompleted: "completed",
	PaymentStateVoided:    "voided",
}

var paymentStateByText = invert(paymentStateText)

func ParsePaymentState(s string) (PaymentState, error) {
	st, ok := paymentStateByText[s]
	if !ok {
		return 0, fmt.Errorf("unknown payment state %q", s)
	}
	return st, nil
}

func (s PaymentState) String() string {
	if txt, ok := paymentStateText[s]; ok {
		return txt
	}
	return fmt.Sprintf("PaymentState(%d)", int(s))
}

func (s PaymentState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	st, err := ParsePaymentState(str)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s PaymentState) Value() (driver.Value, error) {
	txt, ok := paymentStateText[s]
	if !ok {
		return nil, fmt.Errorf("invalid payment state %d", int(s))
	}
	return txt, nil
}

func (s *PaymentState) Scan(value interface{}) error {
	var txt string
	switch v := value.(type) {
	case string:
		txt = v
	case []byte:
		txt = string(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentState", value)
	}
	st, err := ParsePaymentState(txt)
	if err != nil {
		return err
	}
	*s = st
	return nil
}
