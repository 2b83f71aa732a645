package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"intakeflow/pkg/derrors"
)

// Customer holds identity and contact facts for the invoice flow. UniqueID is
// the caller-supplied business key and is immutable once assigned.
type Customer struct {
	UniqueID  string `json:"cust_unique_id"`
	TaxID     string `json:"cust_tax_id"`
	FirstName string `json:"cust_fname"`
	LastName  string `json:"cust_lname"`
	Email     string `json:"cust_email"`
}

// Currency is one of the fixed set of billing currencies.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
)

// Currencies lists the accepted values in display order.
var Currencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY}

// ParseCurrency validates a caller-supplied currency code.
func ParseCurrency(s string) (Currency, error) {
	for _, c := range Currencies {
		if string(c) == s {
			return c, nil
		}
	}
	return "", derrors.Newf(derrors.CodeBadRequest, "unsupported currency %q", s)
}

// PaymentStatus tracks the lifecycle of an invoice after creation. It is the
// only mutable invoice field.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

var paymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentOverdue, PaymentCancelled}

// ParsePaymentStatus validates a caller-supplied payment status (case-insensitive
// on input, stored lowercase).
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for _, p := range paymentStatuses {
		if string(p) == s {
			return p, nil
		}
	}
	return "", derrors.Newf(derrors.CodeBadRequest, "unsupported payment status %q", s)
}

// PaymentTermDays is the fixed offset between invoice creation and payment due date.
const PaymentTermDays = 30

// Invoice is one transaction tied to exactly one customer. TransactionID,
// TransactionDate and PaymentDueDate are assigned once at creation.
type Invoice struct {
	TransactionID   string          `json:"transaction_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	BilledAmount    decimal.Decimal `json:"billed_amount"`
	Currency        Currency        `json:"currency"`
	PaymentDueDate  time.Time       `json:"payment_due_date"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
}

// NewInvoice mints a transaction with a fresh globally unique ID and the fixed
// 30-day payment term.
func NewInvoice(amount decimal.Decimal, currency Currency, status PaymentStatus, now time.Time) (Invoice, error) {
	if amount.IsNegative() {
		return Invoice{}, derrors.New(derrors.CodeBadRequest, "billed amount must not be negative")
	}
	day := now.Truncate(24 * time.Hour)
	return Invoice{
		TransactionID:   uuid.NewString(),
		TransactionDate: day,
		BilledAmount:    amount,
		Currency:        currency,
		PaymentDueDate:  day.AddDate(0, 0, PaymentTermDays),
		PaymentStatus:   status,
	}, nil
}

// Record is one persisted row: a customer snapshot plus one invoice.
type Record struct {
	Customer Customer `json:"customer"`
	Invoice  Invoice  `json:"invoice"`
}
