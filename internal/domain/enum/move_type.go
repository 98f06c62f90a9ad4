package enum

// MoveType is the direction of a stock movement
type MoveType string

const (
	MoveTypeIn  MoveType = "IN"
	MoveTypeOut MoveType = "OUT"
)

// Sign returns +1 for inbound and -1 for outbound moves.
func (m MoveType) Sign() int64 {
	if m == MoveTypeOut {
		return -1
	}
	return 1
}
