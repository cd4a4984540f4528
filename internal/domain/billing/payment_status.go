package billing

import "github.com/shopspring/decimal"

// PaymentStatus tracks how much of a realization has been paid
type PaymentStatus string

const (
	PaymentStatusNotPaid       PaymentStatus = "NOT_PAID"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusPaid          PaymentStatus = "PAID"
)

// IsValid checks if the status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusNotPaid, PaymentStatusPartiallyPaid, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// DeriveStatus is the only place payment status is computed.
// Zero paid is NOT_PAID even for a zero total; paid at or above total is PAID.
func DeriveStatus(totalSale, paidAmount decimal.Decimal) PaymentStatus {
	switch {
	case paidAmount.IsZero():
		return PaymentStatusNotPaid
	case paidAmount.GreaterThanOrEqual(totalSale):
		return PaymentStatusPaid
	default:
		return PaymentStatusPartiallyPaid
	}
}
