//go:build test && !integration

package memdb

import (
	"context"
	"testing"
	"time"

	"github.com/eduplatform/notifier/internal/domain/notification"
	"github.com/stretchr/testify/require"
)

func TestNotificationMemDBStore(t *testing.T) {
	store, err := NewNotificationMemDBStore()
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now()

	first, err := store.Save(ctx, notification.Record{
		RecipientID: 10,
		Subject:     "Nuevo material en el curso",
		Body:        "Material \"Intro\" disponible",
		Status:      notification.StatusUnread,
		CreatedAt:   now,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)

	second, err := store.Save(ctx, notification.Record{
		RecipientID: 10,
		Subject:     "Tarea calificada",
		Body:        "Tu tarea fue calificada: 9/10",
		Status:      notification.StatusUnread,
		CreatedAt:   now,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), second.ID)

	_, err = store.Save(ctx, notification.Record{
		RecipientID: 11,
		Subject:     "Nuevo curso disponible",
		Body:        "Se ha creado el curso \"Go\"",
		Status:      notification.StatusUnread,
		CreatedAt:   now,
	})
	require.NoError(t, err)

	records, err := store.ListByRecipient(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	unread, err := store.ListUnread(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	err = store.MarkRead(ctx, first.ID)
	require.NoError(t, err)

	unread, err = store.ListUnread(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.Equal(t, second.ID, unread[0].ID)

	err = store.MarkRead(ctx, 999)
	require.ErrorIs(t, err, notification.ErrRecordNotFound)

	err = store.MarkAllRead(ctx, 10)
	require.NoError(t, err)

	unread, err = store.ListUnread(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unread, 0)

	// other recipients untouched
	unread, err = store.ListUnread(ctx, 11)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	err = store.Truncate()
	require.NoError(t, err)

	records, err = store.ListByRecipient(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 0)
}
