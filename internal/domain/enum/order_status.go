package enum

// OrderStatus represents the lifecycle state of a sale order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed:
		return true
	}
	return false
}
