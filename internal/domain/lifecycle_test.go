package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_AcceptPending(t *testing.T) {
	tr, err := Apply(BookingStatusPending, ActionAccept, ActorCompanion)

	require.NoError(t, err)
	assert.Equal(t, BookingStatusAccepted, tr.Status)
	assert.True(t, tr.ChatEnabled)
	assert.Equal(t, PaymentActionNone, tr.PaymentAction)
}

func TestApply_RejectPendingRefunds(t *testing.T) {
	tr, err := Apply(BookingStatusPending, ActionReject, ActorCompanion)

	require.NoError(t, err)
	assert.Equal(t, BookingStatusRejected, tr.Status)
	assert.False(t, tr.ChatEnabled)
	assert.Equal(t, PaymentActionRefund, tr.PaymentAction)
}

func TestApply_ExpireIsSystemOnly(t *testing.T) {
	tr, err := Apply(BookingStatusPending, ActionExpire, ActorSystem)
	require.NoError(t, err)
	assert.Equal(t, BookingStatusExpired, tr.Status)
	assert.Equal(t, PaymentActionRefund, tr.PaymentAction)

	_, err = Apply(BookingStatusPending, ActionExpire, ActorCompanion)
	assert.ErrorIs(t, err, ErrActorNotAllowed)

	_, err = Apply(BookingStatusPending, ActionExpire, ActorClient)
	assert.ErrorIs(t, err, ErrActorNotAllowed)
}

func TestApply_CancelAcceptedByEitherParty(t *testing.T) {
	for _, actor := range []string{ActorClient, ActorCompanion} {
		tr, err := Apply(BookingStatusAccepted, ActionCancel, actor)
		require.NoError(t, err, actor)
		assert.Equal(t, BookingStatusCancelled, tr.Status)
		assert.Equal(t, PaymentActionRefund, tr.PaymentAction)
	}

	_, err := Apply(BookingStatusAccepted, ActionCancel, ActorSystem)
	assert.ErrorIs(t, err, ErrActorNotAllowed)
}

func TestApply_CompleteSplitsPayment(t *testing.T) {
	tr, err := Apply(BookingStatusAccepted, ActionComplete, ActorCompanion)

	require.NoError(t, err)
	assert.Equal(t, BookingStatusCompleted, tr.Status)
	assert.False(t, tr.ChatEnabled)
	assert.Equal(t, PaymentActionSplit, tr.PaymentAction)
}

func TestApply_CompleteByClientForbidden(t *testing.T) {
	_, err := Apply(BookingStatusAccepted, ActionComplete, ActorClient)
	assert.ErrorIs(t, err, ErrActorNotAllowed)
}

func TestApply_AcceptTwiceFails(t *testing.T) {
	_, err := Apply(BookingStatusAccepted, ActionAccept, ActorCompanion)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApply_TerminalStatesAreClosed(t *testing.T) {
	terminals := []string{BookingStatusCompleted, BookingStatusRejected, BookingStatusExpired, BookingStatusCancelled}
	actions := []string{ActionAccept, ActionReject, ActionExpire, ActionCancel, ActionComplete}
	actors := []string{ActorClient, ActorCompanion, ActorSystem}

	for _, s := range terminals {
		assert.True(t, IsTerminal(s), s)
		for _, a := range actions {
			for _, actor := range actors {
				_, err := Apply(s, a, actor)
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s + %s by %s", s, a, actor)
			}
		}
	}
}

func TestApply_UnknownActionFails(t *testing.T) {
	_, err := Apply(BookingStatusPending, "TELEPORT", ActorSystem)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNormalizeStatus_ConfirmedMeansAccepted(t *testing.T) {
	assert.Equal(t, BookingStatusAccepted, NormalizeStatus("CONFIRMED"))
	assert.Equal(t, BookingStatusPending, NormalizeStatus(BookingStatusPending))

	// Legacy CONFIRMED rows behave exactly like ACCEPTED everywhere.
	tr, err := Apply("CONFIRMED", ActionComplete, ActorCompanion)
	require.NoError(t, err)
	assert.Equal(t, BookingStatusCompleted, tr.Status)
	assert.True(t, ChatAvailable("CONFIRMED"))
	assert.True(t, BlocksSlot("CONFIRMED"))
	assert.False(t, IsTerminal("CONFIRMED"))
}

func TestChatAvailable_OnlyWhileAccepted(t *testing.T) {
	assert.True(t, ChatAvailable(BookingStatusAccepted))

	for _, s := range []string{BookingStatusPending, BookingStatusCompleted, BookingStatusRejected, BookingStatusExpired, BookingStatusCancelled} {
		assert.False(t, ChatAvailable(s), s)
	}
}

func TestBlocksSlot(t *testing.T) {
	assert.True(t, BlocksSlot(BookingStatusPending))
	assert.True(t, BlocksSlot(BookingStatusAccepted))
	assert.True(t, BlocksSlot(BookingStatusCompleted))

	assert.False(t, BlocksSlot(BookingStatusCancelled))
	assert.False(t, BlocksSlot(BookingStatusRejected))
	assert.False(t, BlocksSlot(BookingStatusExpired))
}
