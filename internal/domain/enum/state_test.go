package enum

import (
	"encoding/json"
	"testing"
)

func TestOrderStateRoundTrip(t *testing.T) {
	for st, txt := range orderStateText {
		v, err := st.Value()
		if err != nil || v != txt {
			t.Fatalf("Value(%d): got=%v err=%v", st, v, err)
		}
		var back OrderState
		if err := back.Scan(txt); err != nil || back != st {
			t.Fatalf("Scan(%q): got=%v err=%v", txt, back, err)
		}
		if err := back.Scan([]byte(txt)); err != nil || back != st {
			t.Fatalf("Scan bytes(%q): got=%v err=%v", txt, back, err)
		}
	}
	if len(orderStateByText) != len(orderStateText) {
		t.Fatalf("order state text map is not a bijection")
	}
	var s OrderState
	if err := s.Scan("cancelled"); err == nil {
		t.Fatalf("unknown text must fail")
	}
	if _, err := OrderState(99).Value(); err == nil {
		t.Fatalf("invalid state must not be stored")
	}
}

func TestPaymentStateRoundTrip(t *testing.T) {
	for st, txt := range paymentStateText {
		v, err := st.Value()
		if err != nil || v != txt {
			t.Fatalf("Value(%d): got=%v err=%v", st, v, err)
		}
		parsed, err := ParsePaymentState(txt)
		if err != nil || parsed != st {
			t.Fatalf("Parse(%q): got=%v err=%v", txt, parsed, err)
		}
	}
	if len(paymentStateByText) != len(paymentStateText) {
		t.Fatalf("payment state text map is not a bijection")
	}
	if _, err := ParsePaymentState("pending"); err == nil {
		t.Fatalf("unknown text must fail")
	}
}

func TestStateJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Order   OrderState   `json:"order"`
		Payment PaymentState `json:"payment"`
	}{OrderStateVoided, PaymentStateCompleted})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"order":"voided","payment":"completed"}` {
		t.Fatalf("json: %s", out)
	}
	var st OrderState
	if err := json.Unmarshal([]byte(`"created"`), &st); err != nil || st != OrderStateCreated {
		t.Fatalf("unmarshal: %v %v", st, err)
	}
}
