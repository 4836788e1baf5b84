package db_test

import (
	"context"
	"testing"

	"stepperslife/db"
	"stepperslife/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSVPRepo_Create_UnlimitedCapacity(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)

	repo := db.NewRSVPRepo(dbConn, logger)

	for i := 0; i < 5; i++ {
		rsvp, err := repo.Create(ctx, uuid.NewString(), event.EventID, "dancer@example.com")
		require.NoError(t, err)
		assert.Equal(t, entity.RSVPStatusConfirmed, rsvp.Status)
	}
}

func TestRSVPRepo_Create_WaitlistsAtCapacity(t *testing.T) {
	ctx := context.Background()
	maxRSVPs := 2
	event := createEvent(t, &maxRSVPs, true)

	repo := db.NewRSVPRepo(dbConn, logger)

	first, err := repo.Create(ctx, uuid.NewString(), event.EventID, "first@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusConfirmed, first.Status)

	second, err := repo.Create(ctx, uuid.NewString(), event.EventID, "second@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusConfirmed, second.Status)

	third, err := repo.Create(ctx, uuid.NewString(), event.EventID, "third@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusWaitlist, third.Status)
}

func TestRSVPRepo_Create_EventFullWithoutWaitlist(t *testing.T) {
	ctx := context.Background()
	maxRSVPs := 1
	event := createEvent(t, &maxRSVPs, false)

	repo := db.NewRSVPRepo(dbConn, logger)

	_, err := repo.Create(ctx, uuid.NewString(), event.EventID, "first@example.com")
	require.NoError(t, err)

	_, err = repo.Create(ctx, uuid.NewString(), event.EventID, "second@example.com")
	assert.ErrorIs(t, err, db.ErrEventFull)
}

func TestRSVPRepo_Cancel_PromotesEarliestWaitlisted(t *testing.T) {
	ctx := context.Background()
	maxRSVPs := 1
	event := createEvent(t, &maxRSVPs, true)

	repo := db.NewRSVPRepo(dbConn, logger)

	confirmed, err := repo.Create(ctx, uuid.NewString(), event.EventID, "confirmed@example.com")
	require.NoError(t, err)

	firstWaitlisted, err := repo.Create(ctx, uuid.NewString(), event.EventID, "patient@example.com")
	require.NoError(t, err)
	require.Equal(t, entity.RSVPStatusWaitlist, firstWaitlisted.Status)

	secondWaitlisted, err := repo.Create(ctx, uuid.NewString(), event.EventID, "latecomer@example.com")
	require.NoError(t, err)
	require.Equal(t, entity.RSVPStatusWaitlist, secondWaitlisted.Status)

	promotedID, err := repo.Cancel(ctx, confirmed.RSVPID)
	require.NoError(t, err)
	assert.Equal(t, firstWaitlisted.RSVPID, promotedID)

	promoted, err := repo.Get(ctx, firstWaitlisted.RSVPID)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusConfirmed, promoted.Status)

	stillWaiting, err := repo.Get(ctx, secondWaitlisted.RSVPID)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusWaitlist, stillWaiting.Status)

	cancelled, err := repo.Get(ctx, confirmed.RSVPID)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusCancelled, cancelled.Status)
}

func TestRSVPRepo_Cancel_WaitlistedDoesNotPromote(t *testing.T) {
	ctx := context.Background()
	maxRSVPs := 1
	event := createEvent(t, &maxRSVPs, true)

	repo := db.NewRSVPRepo(dbConn, logger)

	_, err := repo.Create(ctx, uuid.NewString(), event.EventID, "confirmed@example.com")
	require.NoError(t, err)

	waitlisted, err := repo.Create(ctx, uuid.NewString(), event.EventID, "patient@example.com")
	require.NoError(t, err)

	promotedID, err := repo.Cancel(ctx, waitlisted.RSVPID)
	require.NoError(t, err)
	assert.Empty(t, promotedID)
}

func TestRSVPRepo_Cancel_Idempotent(t *testing.T) {
	ctx := context.Background()
	maxRSVPs := 1
	event := createEvent(t, &maxRSVPs, true)

	repo := db.NewRSVPRepo(dbConn, logger)

	confirmed, err := repo.Create(ctx, uuid.NewString(), event.EventID, "confirmed@example.com")
	require.NoError(t, err)

	waitlisted, err := repo.Create(ctx, uuid.NewString(), event.EventID, "patient@example.com")
	require.NoError(t, err)

	promotedID, err := repo.Cancel(ctx, confirmed.RSVPID)
	require.NoError(t, err)
	require.Equal(t, waitlisted.RSVPID, promotedID)

	// a repeated cancellation must not free another slot
	promotedID, err = repo.Cancel(ctx, confirmed.RSVPID)
	require.NoError(t, err)
	assert.Empty(t, promotedID)
}

func TestRSVPRepo_Cancel_FreedSlotCanBeReused(t *testing.T) {
	ctx := context.Background()
	maxRSVPs := 1
	event := createEvent(t, &maxRSVPs, true)

	repo := db.NewRSVPRepo(dbConn, logger)

	confirmed, err := repo.Create(ctx, uuid.NewString(), event.EventID, "confirmed@example.com")
	require.NoError(t, err)

	_, err = repo.Cancel(ctx, confirmed.RSVPID)
	require.NoError(t, err)

	// nobody was waitlisted, so the slot opens up for the next RSVP
	next, err := repo.Create(ctx, uuid.NewString(), event.EventID, "next@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusConfirmed, next.Status)
}

func TestRSVPRepo_Cancel_NotFound(t *testing.T) {
	_, err := db.NewRSVPRepo(dbConn, logger).Cancel(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, db.ErrRSVPNotFound)
}

func TestRSVPRepo_CheckIn(t *testing.T) {
	ctx := context.Background()
	event := createEvent(t, nil, false)

	repo := db.NewRSVPRepo(dbConn, logger)

	rsvp, err := repo.Create(ctx, uuid.NewString(), event.EventID, "dancer@example.com")
	require.NoError(t, err)

	checkedIn, err := repo.CheckIn(ctx, rsvp.RSVPID, "door-staff-1", uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusCheckedIn, checkedIn.Status)
	require.NotNil(t, checkedIn.CheckedInAt)
	require.NotNil(t, checkedIn.CheckedInBy)
	assert.Equal(t, "door-staff-1", *checkedIn.CheckedInBy)

	_, err = repo.CheckIn(ctx, rsvp.RSVPID, "door-staff-2", uuid.NewString())
	assert.ErrorIs(t, err, db.ErrAlreadyCheckedIn)

	// the original check-in record survives the rejected retry
	got, err := repo.Get(ctx, rsvp.RSVPID)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusCheckedIn, got.Status)
	require.NotNil(t, got.CheckedInBy)
	assert.Equal(t, "door-staff-1", *got.CheckedInBy)
}

func TestRSVPRepo_CheckIn_WaitlistedRejected(t *testing.T) {
	ctx := context.Background()
	maxRSVPs := 1
	event := createEvent(t, &maxRSVPs, true)

	repo := db.NewRSVPRepo(dbConn, logger)

	_, err := repo.Create(ctx, uuid.NewString(), event.EventID, "confirmed@example.com")
	require.NoError(t, err)

	waitlisted, err := repo.Create(ctx, uuid.NewString(), event.EventID, "patient@example.com")
	require.NoError(t, err)
	require.Equal(t, entity.RSVPStatusWaitlist, waitlisted.Status)

	_, err = repo.CheckIn(ctx, waitlisted.RSVPID, "door-staff-1", uuid.NewString())
	assert.ErrorIs(t, err, db.ErrRSVPNotConfirmed)
}

func TestRSVPRepo_CheckIn_NotFound(t *testing.T) {
	_, err := db.NewRSVPRepo(dbConn, logger).CheckIn(context.Background(), uuid.NewString(), "door-staff-1", uuid.NewString())
	assert.ErrorIs(t, err, db.ErrRSVPNotFound)
}

func TestRSVPRepo_CheckedInStillOccupiesSlot(t *testing.T) {
	ctx := context.Background()
	maxRSVPs := 1
	event := createEvent(t, &maxRSVPs, true)

	repo := db.NewRSVPRepo(dbConn, logger)

	rsvp, err := repo.Create(ctx, uuid.NewString(), event.EventID, "attendee@example.com")
	require.NoError(t, err)

	_, err = repo.CheckIn(ctx, rsvp.RSVPID, "door-staff-1", uuid.NewString())
	require.NoError(t, err)

	next, err := repo.Create(ctx, uuid.NewString(), event.EventID, "late@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusWaitlist, next.Status)

	// cancelling the checked-in attendee frees the slot and promotes
	promotedID, err := repo.Cancel(ctx, rsvp.RSVPID)
	require.NoError(t, err)
	assert.Equal(t, next.RSVPID, promotedID)
}
