package domain

import (
	"strings"

	"github.com/fintrackhq/fintrack/internal/shared/apperr"
)

// Kind says which direction a transaction moves money.
type Kind string

const (
	KindExpense Kind = "EXPENSE"
	KindIncome  Kind = "INCOME"
)

// ParseKind parses the wire encoding of a transaction kind. Parsing happens
// once at the boundary; the ledger core only ever sees the closed enum.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindExpense:
		return KindExpense, nil
	case KindIncome:
		return KindIncome, nil
	}
	return "", apperr.Newf(apperr.KindInvalidKind, "unknown transaction kind %q", s)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// PaymentMethod says how a transaction was paid.
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "CASH"
	PaymentDebitCard     PaymentMethod = "DEBIT_CARD"
	PaymentCreditCard    PaymentMethod = "CREDIT_CARD"
	PaymentBankTransfer  PaymentMethod = "BANK_TRANSFER"
	PaymentMobilePayment PaymentMethod = "MOBILE_PAYMENT"
	PaymentPayPal        PaymentMethod = "PAYPAL"
	PaymentCrypto        PaymentMethod = "CRYPTO"
	PaymentOther         PaymentMethod = "OTHER"
)

var paymentMethods = map[PaymentMethod]struct{}{
	PaymentCash:          {},
	PaymentDebitCard:     {},
	PaymentCreditCard:    {},
	PaymentBankTransfer:  {},
	PaymentMobilePayment: {},
	PaymentPayPal:        {},
	PaymentCrypto:        {},
	PaymentOther:         {},
}

// ParsePaymentMethod parses the wire encoding of a payment method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	pm := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := paymentMethods[pm]; ok {
		return pm, nil
	}
	return "", apperr.Newf(apperr.KindInvalidPaymentMethod, "unknown payment method %q", s)
}

// Valid reports whether pm is a known payment method.
func (pm PaymentMethod) Valid() bool {
	_, ok := paymentMethods[pm]
	return ok
}
