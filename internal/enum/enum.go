package enum

// ── Order decision state machine ──
//
// pending is the only non-terminal state. An order moves to accepted or
// rejected exactly once and never transitions again.

const (
	OrderStatusPending  = "pending"
	OrderStatusAccepted = "accepted"
	OrderStatusRejected = "rejected"
)

// Merchant decisions on a pending order.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)
