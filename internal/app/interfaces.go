package app

import (
	"github.com/robfig/cron/v3"
	"github.com/routerops/radman/config"
	"github.com/routerops/radman/internal/accounts"
	"github.com/routerops/radman/internal/devices"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ServiceProvider provides the domain services
type ServiceProvider interface {
	Registry() *devices.Registry
	Accounts() *accounts.AccountService
	Audit() *accounts.AuditWriter
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	ServiceProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
