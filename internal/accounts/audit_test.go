package accounts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/routerops/radman/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditAppendStampsEntry(t *testing.T) {
	_, audit, _ := newTestService(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	entry, err := audit.Append(ctx, domain.RadiusActivityLog{
		Username: "u1",
		Action:   domain.ActionLogin,
		// A caller-supplied timestamp is discarded.
		CreatedAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.True(t, entry.CreatedAt.After(before), "timestamp must be stamped server-side")
}

func TestAuditAppendRejectsUnknownAction(t *testing.T) {
	_, audit, _ := newTestService(t)

	_, err := audit.Append(context.Background(), domain.RadiusActivityLog{
		Username: "u1",
		Action:   "password_peek",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "password_peek")
}

func TestAuditQueryFilters(t *testing.T) {
	_, audit, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := audit.Append(ctx, domain.RadiusActivityLog{
			Username: fmt.Sprintf("user%d", i%2),
			Action:   domain.ActionSessionStart,
		})
		require.NoError(t, err)
	}
	_, err := audit.Append(ctx, domain.RadiusActivityLog{
		Username: "user0",
		Action:   domain.ActionLogout,
	})
	require.NoError(t, err)

	entries, err := audit.Query(ctx, ActivityLogFilter{Username: "user0"})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, "user0", e.Username)
	}

	entries, err = audit.Query(ctx, ActivityLogFilter{Action: domain.ActionLogout})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user0", entries[0].Username)

	entries, err = audit.Query(ctx, ActivityLogFilter{
		Username: "user0",
		Action:   domain.ActionSessionStart,
	})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAuditQueryNewestFirst(t *testing.T) {
	_, audit, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := audit.Append(ctx, domain.RadiusActivityLog{
			Username: "u1",
			Action:   domain.ActionLogin,
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := audit.Query(ctx, ActivityLogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt),
			"entries must be ordered newest first")
	}
}

func TestAuditQueryTimeWindow(t *testing.T) {
	_, audit, _ := newTestService(t)
	ctx := context.Background()

	_, err := audit.Append(ctx, domain.RadiusActivityLog{
		Username: "u1",
		Action:   domain.ActionLogin,
	})
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	entries, err := audit.Query(ctx, ActivityLogFilter{Start: &future})
	require.NoError(t, err)
	assert.Empty(t, entries)

	past := time.Now().Add(-time.Hour)
	entries, err = audit.Query(ctx, ActivityLogFilter{Start: &past, End: &future})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAuditQueryLimitClamped(t *testing.T) {
	_, audit, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := audit.Append(ctx, domain.RadiusActivityLog{
			Username: "u1",
			Action:   domain.ActionLogin,
		})
		require.NoError(t, err)
	}

	// Zero limit falls back to the default, which covers all four.
	entries, err := audit.Query(ctx, ActivityLogFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	entries, err = audit.Query(ctx, ActivityLogFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = audit.Query(ctx, ActivityLogFilter{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
