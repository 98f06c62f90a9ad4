package enum

// PurchaseStatus represents the lifecycle state of a purchase order
type PurchaseStatus string

const (
	PurchaseStatusOrdered  PurchaseStatus = "ordered"
	PurchaseStatusReceived PurchaseStatus = "received"
)

func (s PurchaseStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known purchase order status
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusOrdered, PurchaseStatusReceived:
		return true
	}
	return false
}
