package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/routerops/radman/internal/accounts"
	"github.com/routerops/radman/internal/domain"
	"github.com/spf13/cast"
)

// AuditHandler exposes activity log queries and CSV export.
type AuditHandler struct {
	audit *accounts.AuditWriter
}

func NewAuditHandler(audit *accounts.AuditWriter) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) Register(g *echo.Group) {
	g.GET("/activity-logs", h.query)
	g.GET("/activity-logs/export", h.exportCsv)
}

func parseLogFilter(c echo.Context) (accounts.ActivityLogFilter, error) {
	filter := accounts.ActivityLogFilter{
		Username: strings.TrimSpace(c.QueryParam("username")),
		Action:   strings.TrimSpace(c.QueryParam("action")),
		Limit:    cast.ToInt(c.QueryParam("limit")),
		Offset:   cast.ToInt(c.QueryParam("offset")),
	}
	if raw := strings.TrimSpace(c.QueryParam("start")); raw != "" {
		start, err := dateparse.ParseAny(raw)
		if err != nil {
			return filter, &domain.ValidationError{Message: "Invalid start timestamp"}
		}
		filter.Start = &start
	}
	if raw := strings.TrimSpace(c.QueryParam("end")); raw != "" {
		end, err := dateparse.ParseAny(raw)
		if err != nil {
			return filter, &domain.ValidationError{Message: "Invalid end timestamp"}
		}
		filter.End = &end
	}
	return filter, nil
}

func (h *AuditHandler) query(c echo.Context) error {
	filter, err := parseLogFilter(c)
	if err != nil {
		return failDomain(c, err)
	}
	rows, err := h.audit.Query(c.Request().Context(), filter)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, rows)
}

type activityCsvRow struct {
	ID          int64  `csv:"id"`
	Username    string `csv:"username"`
	Action      string `csv:"action"`
	Ipaddr      string `csv:"ipaddr"`
	MacAddr     string `csv:"mac_addr"`
	BytesIn     string `csv:"bytes_in"`
	BytesOut    string `csv:"bytes_out"`
	SessionTime string `csv:"session_time"`
	CreatedAt   string `csv:"created_at"`
}

func (h *AuditHandler) exportCsv(c echo.Context) error {
	filter, err := parseLogFilter(c)
	if err != nil {
		return failDomain(c, err)
	}
	entries, err := h.audit.Query(c.Request().Context(), filter)
	if err != nil {
		return failDomain(c, err)
	}

	rows := make([]activityCsvRow, 0, len(entries))
	for _, e := range entries {
		row := activityCsvRow{
			ID:        e.ID,
			Username:  e.Username,
			Action:    e.Action,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
		if e.Ipaddr != nil {
			row.Ipaddr = *e.Ipaddr
		}
		if e.MacAddr != nil {
			row.MacAddr = *e.MacAddr
		}
		if e.BytesIn != nil {
			row.BytesIn = e.BytesIn.String()
		}
		if e.BytesOut != nil {
			row.BytesOut = e.BytesOut.String()
		}
		if e.SessionTime != nil {
			row.SessionTime = *e.SessionTime
		}
		rows = append(rows, row)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="activity-logs.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(&rows, c.Response())
}
