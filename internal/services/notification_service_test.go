package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/repository"
)

func TestNotificationLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db), newTestLogger())
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	user := seedUser(t, db, "tenant@example.com")

	first, err := svc.Send(ctx, owner.ID, user.ID, "Rent due", "Your rent is due on the 1st.")
	require.NoError(t, err)
	_, err = svc.Send(ctx, owner.ID, user.ID, "Inspection", "Annual inspection next week.")
	require.NoError(t, err)

	unread, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, svc.MarkRead(ctx, user.ID, first.ID))

	unread, err = svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	forUser, err := svc.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, forUser, 2)

	forOwner, err := svc.ListForOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, forOwner, 2)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db), newTestLogger())
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@example.com")
	user := seedUser(t, db, "tenant@example.com")
	stranger := seedUser(t, db, "stranger@example.com")

	n, err := svc.Send(ctx, owner.ID, user.ID, "Rent due", "")
	require.NoError(t, err)

	require.ErrorIs(t, svc.MarkRead(ctx, stranger.ID, n.ID), ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, user.ID, n.ID))
}
