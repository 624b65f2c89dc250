package models

import "errors"

// PaymentType enumerates the accepted payment methods for a sale.
type PaymentType string

const (
	PaymentCash PaymentType = "cash"
	PaymentQR   PaymentType = "qr"
	PaymentLoan PaymentType = "loan"
)

// ErrStoreUnreachable marks store failures caused by the database being
// unreachable (refused connection, server selection timeout). Callers use it
// to pick an actionable user-facing message.
var ErrStoreUnreachable = errors.New("sales store unreachable")

// SaleEntry is one recorded sale transaction, the unit stored in the "sales"
// collection. Date is the business day (YYYY-MM-DD, server-local) and
// CreatedAt the millisecond timestamp used as the listing sort key; both are
// assigned at creation and never edited afterwards.
type SaleEntry struct {
	ID          string      `bson:"id" json:"id"`
	ProductName string      `bson:"productName" json:"productName"`
	Amount      float64     `bson:"amount" json:"amount"`
	PaymentType PaymentType `bson:"paymentType" json:"paymentType"`
	Date        string      `bson:"date" json:"date"`
	CreatedAt   int64       `bson:"createdAt" json:"createdAt"`
}

// NormalizePaymentType maps unknown or empty values to cash.
func NormalizePaymentType(v string) PaymentType {
	switch PaymentType(v) {
	case PaymentCash, PaymentQR, PaymentLoan:
		return PaymentType(v)
	default:
		return PaymentCash
	}
}

// EntryFromDoc rebuilds a SaleEntry from a raw document, tolerating missing
// or ill-typed fields so one malformed record cannot fail a whole listing.
func EntryFromDoc(doc map[string]any) SaleEntry {
	return SaleEntry{
		ID:          docString(doc["id"]),
		ProductName: docString(doc["productName"]),
		Amount:      docFloat(doc["amount"]),
		PaymentType: NormalizePaymentType(docString(doc["paymentType"])),
		Date:        docString(doc["date"]),
		CreatedAt:   int64(docFloat(doc["createdAt"])),
	}
}

func docString(v any) string {
	s, _ := v.(string)
	return s
}

func docFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
