package enum

import "strings"

// InvoiceType distinguishes domestic from export invoices
type InvoiceType string

const (
	InvoiceTypeDomestic InvoiceType = "domestic"
	InvoiceTypeForeign  InvoiceType = "foreign"
)

// InvoiceStatusIssued is the status given to invoices when none is supplied.
const InvoiceStatusIssued = "issued"

// ParseInvoiceType parses s case-insensitively. An empty string yields domestic.
func ParseInvoiceType(s string) (InvoiceType, bool) {
	switch InvoiceType(strings.ToLower(strings.TrimSpace(s))) {
	case "", InvoiceTypeDomestic:
		return InvoiceTypeDomestic, true
	case InvoiceTypeForeign:
		return InvoiceTypeForeign, true
	}
	return "", false
}

// Code is the single-letter tag used in invoice numbers.
func (t InvoiceType) Code() string {
	if t == InvoiceTypeForeign {
		return "F"
	}
	return "D"
}

func (t InvoiceType) String() string {
	return string(t)
}
