package domain

// Actions a booking can undergo after creation.
const (
	ActionAccept   = "ACCEPT"
	ActionReject   = "REJECT"
	ActionExpire   = "EXPIRE"
	ActionCancel   = "CANCEL"
	ActionComplete = "COMPLETE"
)

// Actor kinds for transition guards. Identity (is this companion the booking's
// companion) is authorized by the caller; the machine only checks the kind.
const (
	ActorClient    = "CLIENT"
	ActorCompanion = "COMPANION"
	ActorSystem    = "SYSTEM"
)

// Payment actions the caller must carry out after a successful transition.
// Refund applies only when the booking has actually been paid.
const (
	PaymentActionNone   = "NONE"
	PaymentActionRefund = "REFUND"
	PaymentActionSplit  = "SPLIT"
)

// Transition is the decision returned by Apply: the new status plus the side
// effects the caller owes (chat flag, payment action).
type Transition struct {
	Status        string
	ChatEnabled   bool
	PaymentAction string
}

type rule struct {
	from   string
	actors []string
	result Transition
}

var transitionRules = map[string]rule{
	ActionAccept: {
		from:   BookingStatusPending,
		actors: []string{ActorCompanion},
		result: Transition{Status: BookingStatusAccepted, ChatEnabled: true, PaymentAction: PaymentActionNone},
	},
	ActionReject: {
		from:   BookingStatusPending,
		actors: []string{ActorCompanion},
		result: Transition{Status: BookingStatusRejected, ChatEnabled: false, PaymentAction: PaymentActionRefund},
	},
	ActionExpire: {
		from:   BookingStatusPending,
		actors: []string{ActorSystem},
		result: Transition{Status: BookingStatusExpired, ChatEnabled: false, PaymentAction: PaymentActionRefund},
	},
	ActionCancel: {
		from:   BookingStatusAccepted,
		actors: []string{ActorClient, ActorCompanion},
		result: Transition{Status: BookingStatusCancelled, ChatEnabled: false, PaymentAction: PaymentActionRefund},
	},
	ActionComplete: {
		from:   BookingStatusAccepted,
		actors: []string{ActorCompanion},
		result: Transition{Status: BookingStatusCompleted, ChatEnabled: false, PaymentAction: PaymentActionSplit},
	},
}

// Apply resolves a lifecycle action against the current status. It returns the
// transition decision without mutating anything; on error no side effect may
// be performed by the caller.
func Apply(current, action, actor string) (Transition, error) {
	r, ok := transitionRules[action]
	if !ok {
		return Transition{}, ErrInvalidTransition
	}
	if NormalizeStatus(current) != r.from {
		return Transition{}, ErrInvalidTransition
	}
	for _, a := range r.actors {
		if a == actor {
			return r.result, nil
		}
	}
	return Transition{}, ErrActorNotAllowed
}

// NormalizeStatus maps legacy spellings onto the closed enumeration.
// "CONFIRMED" was used interchangeably with ACCEPTED by older clients.
func NormalizeStatus(s string) string {
	if s == "CONFIRMED" {
		return BookingStatusAccepted
	}
	return s
}

// IsTerminal reports whether no further transition is permitted from s.
func IsTerminal(s string) bool {
	switch NormalizeStatus(s) {
	case BookingStatusCompleted, BookingStatusRejected, BookingStatusExpired, BookingStatusCancelled:
		return true
	}
	return false
}

// ChatAvailable reports whether messaging is open for a booking status.
// Chat is open only while the booking is accepted.
func ChatAvailable(status string) bool {
	return NormalizeStatus(status) == BookingStatusAccepted
}

// BlocksSlot reports whether a booking in this status still occupies its time
// window for conflict checking.
func BlocksSlot(status string) bool {
	switch NormalizeStatus(status) {
	case BookingStatusCancelled, BookingStatusRejected, BookingStatusExpired:
		return false
	}
	return true
}
