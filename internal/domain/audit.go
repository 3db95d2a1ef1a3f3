package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity log actions. The set is fixed; the audit writer rejects
// anything else before it reaches storage.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionSessionStart   = "session_start"
	ActionSessionEnd     = "session_end"
	ActionAccountCreated = "account_created"
	ActionAccountUpdated = "account_updated"
	ActionAccountSuspend = "account_suspended"
)

// RadiusActivityLog immutable audit record of an account lifecycle or
// session event. UserId is a weak reference: it may dangle after the
// account is removed, which is why the username is denormalized here.
// Rows are append-only and always retrieved most-recent-first.
type RadiusActivityLog struct {
	ID          int64            `json:"id,string"`
	UserId      *int64           `gorm:"index" json:"user_id,string"`
	Username    string           `gorm:"index" json:"username"` // snapshot at event time
	Action      string           `gorm:"index" json:"action"`
	Ipaddr      *string          `json:"ipaddr"`
	MacAddr     *string          `json:"mac_addr"`
	BytesIn     *decimal.Decimal `gorm:"type:numeric(30,0)" json:"bytes_in"`
	BytesOut    *decimal.Decimal `gorm:"type:numeric(30,0)" json:"bytes_out"`
	SessionTime *string          `json:"session_time"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`
}

// TableName Specify table name
func (RadiusActivityLog) TableName() string {
	return "radius_activity_log"
}

// ValidActivityAction reports whether a is a known activity action.
func ValidActivityAction(a string) bool {
	switch a {
	case ActionLogin, ActionLogout, ActionSessionStart, ActionSessionEnd,
		ActionAccountCreated, ActionAccountUpdated, ActionAccountSuspend:
		return true
	}
	return false
}
