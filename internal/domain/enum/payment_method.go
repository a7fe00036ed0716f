package enum

import (
	"encoding/json"
	"fmt"

	"github.com/climasgama/pos-terminal/pkg/textnorm"
)

// PaymentMethod is how the customer pays. Only cash needs an amount tendered.
type PaymentMethod int

const (
	PaymentCash     PaymentMethod = 0
	PaymentCredit   PaymentMethod = 1
	PaymentDebit    PaymentMethod = 2
	PaymentTransfer PaymentMethod = 3
)

var paymentLabels = [...]string{"Efectivo", "Credito", "Debito", "Transferencia"}

// String returns the label the backend stores in forma_pago.
func (p PaymentMethod) String() string {
	if !p.IsValid() {
		return fmt.Sprintf("PaymentMethod(%d)", int(p))
	}
	return paymentLabels[p]
}

func (p PaymentMethod) IsValid() bool {
	return p >= PaymentCash && p <= PaymentTransfer
}

func (p PaymentMethod) IsCash() bool {
	return p == PaymentCash
}

// ParsePaymentMethod accepts the backend label in any case or accent form,
// or the English name.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch textnorm.Normalize(s) {
	case "efectivo", "cash":
		return PaymentCash, nil
	case "credito", "credit", "tarjeta de credito":
		return PaymentCredit, nil
	case "debito", "debit", "tarjeta de debito":
		return PaymentDebit, nil
	case "transferencia", "transfer":
		return PaymentTransfer, nil
	}
	return PaymentCash, fmt.Errorf("unknown payment method %q", s)
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !PaymentMethod(i).IsValid() {
			return fmt.Errorf("unknown payment method %d", i)
		}
		*p = PaymentMethod(i)
		return nil
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// AllPaymentMethods lists the methods in display order.
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentCredit, PaymentDebit, PaymentTransfer}
}
