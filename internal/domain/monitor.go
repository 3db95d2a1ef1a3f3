package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Online session status values reported by the device poller.
const (
	SessionStatusActive   = "active"
	SessionStatusIdle     = "idle"
	SessionStatusDisabled = "disabled"
)

// DeviceSystemMetric stores a point-in-time resource reading for a device.
// Rows are append-only and queried most-recent-first per device.
// CPU and memory values are kept as exact decimals so they survive
// string-based storage encodings without float drift.
type DeviceSystemMetric struct {
	ID          int64           `gorm:"primaryKey" json:"id,string"`
	DeviceId    int64           `gorm:"index" json:"device_id,string"`
	CpuPercent  decimal.Decimal `gorm:"type:numeric(5,2)" json:"cpu_percent"`  // 0-100, two decimals
	MemUsed     decimal.Decimal `gorm:"type:numeric(20,2)" json:"mem_used"`    // MB
	MemTotal    decimal.Decimal `gorm:"type:numeric(20,2)" json:"mem_total"`   // MB
	Uptime      string          `json:"uptime"`                                // free-form duration string
	CollectedAt time.Time       `gorm:"index" json:"collected_at"`
}

// TableName Specify table name
func (DeviceSystemMetric) TableName() string {
	return "device_system_metric"
}

// DeviceInterfaceMetric stores interface counter snapshots for a device.
// Counters are decimal to stay overflow-safe on long-lived interfaces.
type DeviceInterfaceMetric struct {
	ID          int64           `gorm:"primaryKey" json:"id,string"`
	DeviceId    int64           `gorm:"index" json:"device_id,string"`
	IfName      string          `json:"if_name"`
	RxBytes     decimal.Decimal `gorm:"type:numeric(30,0)" json:"rx_bytes"`
	TxBytes     decimal.Decimal `gorm:"type:numeric(30,0)" json:"tx_bytes"`
	RxPackets   decimal.Decimal `gorm:"type:numeric(30,0)" json:"rx_packets"`
	TxPackets   decimal.Decimal `gorm:"type:numeric(30,0)" json:"tx_packets"`
	CollectedAt time.Time       `gorm:"index" json:"collected_at"`
}

// TableName Specify table name
func (DeviceInterfaceMetric) TableName() string {
	return "device_interface_metric"
}

// DeviceOnlineUser represents a live connection seen on a device. The
// username is a free-text snapshot from the device and is deliberately
// not foreign-keyed to radius_user. Rows are overwritten by polling.
type DeviceOnlineUser struct {
	ID          int64           `gorm:"primaryKey" json:"id,string"`
	DeviceId    int64           `gorm:"index" json:"device_id,string"`
	Username    string          `json:"username"`
	Ipaddr      string          `json:"ipaddr"`
	MacAddr     string          `json:"mac_addr"`
	SessionTime string          `json:"session_time"`
	BytesIn     decimal.Decimal `gorm:"type:numeric(30,0)" json:"bytes_in"`
	BytesOut    decimal.Decimal `gorm:"type:numeric(30,0)" json:"bytes_out"`
	Status      string          `json:"status"` // active/idle/disabled
	LastSeenAt  time.Time       `json:"last_seen_at"`
}

// TableName Specify table name
func (DeviceOnlineUser) TableName() string {
	return "device_online_user"
}
