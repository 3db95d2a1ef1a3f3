package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscriber account status values.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusExpired   = "expired"
)

// RadiusProfile bandwidth profile assignable to subscriber accounts.
// Names are not required to be unique. A profile cannot be deleted
// while any RadiusUser still references it; the guard lives in the
// account service, not in a storage-level constraint.
type RadiusProfile struct {
	ID             int64            `json:"id,string" form:"id"`
	Name           string           `gorm:"index" json:"name" form:"name"`
	UpRate         int              `json:"up_rate" form:"up_rate"`     // Kbps, never null
	DownRate       int              `json:"down_rate" form:"down_rate"` // Kbps, never null
	SessionTimeout *int             `json:"session_timeout"`            // seconds
	IdleTimeout    *int             `json:"idle_timeout"`               // seconds
	QuotaMb        *int64           `json:"quota_mb"`                   // monthly quota in MB
	Price          *decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
	Remark         *string          `json:"remark"`
	CreatedAt      time.Time        `json:"created_at"`
}

// TableName Specify table name
func (RadiusProfile) TableName() string {
	return "radius_profile"
}

// RadiusUser subscriber account. The username is globally unique, backed
// by a unique index so a race past the availability pre-check still fails
// at insert time. Password always holds the hashed secret once persisted.
type RadiusUser struct {
	ID        int64      `json:"id,string" form:"id"`
	Username  string     `gorm:"uniqueIndex" json:"username" form:"username"`
	Password  string     `json:"password"`
	ProfileId int64      `gorm:"index" json:"profile_id,string" form:"profile_id"`
	Realname  *string    `json:"realname"`
	Email     *string    `json:"email"`
	Mobile    *string    `json:"mobile"`
	Address   *string    `json:"address"`
	Status    string     `gorm:"index" json:"status"` // active/suspended/expired
	ExpireAt  *time.Time `json:"expire_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName Specify table name
func (RadiusUser) TableName() string {
	return "radius_user"
}

// ValidUserStatus reports whether s is a known subscriber status.
func ValidUserStatus(s string) bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusExpired:
		return true
	}
	return false
}
