package domain

const (
	RoleClient    = "CLIENT"
	RoleCompanion = "COMPANION"
)

// Booking statuses. PENDING is the only entry state; COMPLETED, REJECTED,
// EXPIRED and CANCELLED are terminal.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusAccepted  = "ACCEPTED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusRejected  = "REJECTED"
	BookingStatusExpired   = "EXPIRED"
	BookingStatusCancelled = "CANCELLED"
)

// Booking payment statuses.
const (
	PaymentStatusUnpaid   = "UNPAID"
	PaymentStatusPaid     = "PAID"
	PaymentStatusRefunded = "REFUNDED"
	PaymentStatusSplit    = "SPLIT"
)

// Payment record statuses (gateway side).
const (
	GatewayStatusPending   = "PENDING"
	GatewayStatusCompleted = "COMPLETED"
	GatewayStatusFailed    = "FAILED"
	GatewayStatusRefunded  = "REFUNDED"
)

const (
	MediaTypeImage = "IMAGE"
	MediaTypeVideo = "VIDEO"
)
