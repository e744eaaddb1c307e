// File: cmd/service/main.go
// @title        Task Tracker API
// @version      1.0
// @description  多租戶的專案與 issue 追蹤 API
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	_ "tasktracker/docs" // 引入 swag 產出的 docs
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.WithError(err).Error("service stopped")
		exitFunc(1)
	}
}
