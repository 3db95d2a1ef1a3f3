package domain

import "time"

// Device status values. A device always registers as offline; only a
// status refresh or an administrative update may change the value.
const (
	DeviceStatusOnline  = "online"
	DeviceStatusOffline = "offline"
	DeviceStatusError   = "error"
)

// DefaultApiPort is the RouterOS API port used when a device is
// registered without an explicit port.
const DefaultApiPort = 8728

// NetDevice managed router record, typically a gateway-type device
type NetDevice struct {
	ID        int64     `json:"id,string" form:"id"`         // Primary key ID
	Name      string    `json:"name" form:"name"`            // Device name
	Ipaddr    string    `json:"ipaddr" form:"ipaddr"`        // Device network address
	Username  string    `json:"username" form:"username"`    // Device API login username
	Password  string    `json:"password" form:"password"`    // Device API login password
	ApiPort   int       `json:"api_port" form:"api_port"`    // Device API Port
	Status    string    `gorm:"index" json:"status"`         // Device status (online/offline/error)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (NetDevice) TableName() string {
	return "net_device"
}

// ValidDeviceStatus reports whether s is a known device status.
func ValidDeviceStatus(s string) bool {
	switch s {
	case DeviceStatusOnline, DeviceStatusOffline, DeviceStatusError:
		return true
	}
	return false
}
