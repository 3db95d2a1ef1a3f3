package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/routerops/radman/config"
	"github.com/routerops/radman/internal/adminapi"
	"github.com/routerops/radman/internal/app"
	"go.uber.org/zap"
)

var (
	showHelp = flag.Bool("h", false, "show help")
	initDb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	confFile = flag.String("c", "/etc/radman.yaml", "config file path")
)

func main() {
	flag.Parse()
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*confFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	server := adminapi.NewServer(cfg, application.DB(),
		application.Registry(), application.Accounts(), application.Audit())

	go func() {
		if err := server.Start(); err != nil {
			zap.L().Error("admin api stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.L().Error("shutdown error", zap.Error(err))
	}
}
