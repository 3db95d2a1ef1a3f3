package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/routerops/radman/internal/domain"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	interval := a.appConfig.Poller.Interval
	if interval <= 0 {
		interval = 300
	}

	var err error
	_, err = a.sched.AddFunc(fmt.Sprintf("@every %ds", interval), func() {
		a.poller.PollAll(context.Background())
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	// Refresh device reachability more often than the full sweep.
	_, err = a.sched.AddFunc("@every 60s", func() {
		a.SchedDeviceStatusTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("created_at < ?", time.Now().
				Add(-time.Hour*24*365)).Delete(&domain.RadiusActivityLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedDeviceStatusTask probes every device and persists the mapped
// status, one device at a time.
func (a *Application) SchedDeviceStatusTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx := context.Background()
	rows, err := a.registry.List(ctx)
	if err != nil {
		zap.L().Error("device status sweep: list failed", zap.Error(err))
		return
	}
	for _, device := range rows {
		if _, err := a.registry.RefreshStatus(ctx, device.ID); err != nil {
			zap.L().Error("device status refresh failed",
				zap.Int64("device_id", device.ID), zap.Error(err))
		}
	}
}
