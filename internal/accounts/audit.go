package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/routerops/radman/internal/domain"
	"github.com/routerops/radman/pkg/common"
	"github.com/routerops/radman/pkg/metrics"
	"go.uber.org/zap"
)

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

// AuditWriter appends immutable activity records and serves filtered
// reads over them. Entries are never updated or individually deleted.
type AuditWriter struct {
	logs ActivityLogRepository
}

func NewAuditWriter(logs ActivityLogRepository) *AuditWriter {
	return &AuditWriter{logs: logs}
}

// Append inserts one activity record. The creation timestamp is always
// stamped server-side; a caller-supplied value is discarded.
func (w *AuditWriter) Append(ctx context.Context, entry domain.RadiusActivityLog) (*domain.RadiusActivityLog, error) {
	if !domain.ValidActivityAction(entry.Action) {
		metrics.ActivityLogWrites.WithLabelValues("rejected").Inc()
		return nil, &domain.ValidationError{Message: fmt.Sprintf("Invalid activity action %s", entry.Action)}
	}
	entry.ID = common.UUIDint64()
	entry.CreatedAt = time.Now()
	if err := w.logs.Create(ctx, &entry); err != nil {
		metrics.ActivityLogWrites.WithLabelValues("error").Inc()
		zap.L().Error("activity log append failed",
			zap.String("action", entry.Action),
			zap.String("username", entry.Username),
			zap.Error(err))
		return nil, err
	}
	metrics.ActivityLogWrites.WithLabelValues("ok").Inc()
	return &entry, nil
}

// Query returns entries matching the filter, newest first. The limit
// defaults to 100; pagination is plain offset-based with no snapshot
// guarantee across concurrent inserts.
func (w *AuditWriter) Query(ctx context.Context, filter ActivityLogFilter) ([]domain.RadiusActivityLog, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultQueryLimit
	}
	if filter.Limit > maxQueryLimit {
		filter.Limit = maxQueryLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return w.logs.Query(ctx, filter)
}
