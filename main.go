package main

import (
	"bitwise74/files-manager/app"
	"bitwise74/files-manager/config"
	"context"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	if err := app.MakeLogger(v.GetString("app.log_level"), v.GetString("app.log_format")); err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := app.New(ctx)
	cancel()
	if err != nil {
		zap.L().Fatal("Failed to initialize", zap.Error(err))
	}

	if err := a.Start(v.GetString("app.mode")); err != nil {
		zap.L().Fatal("Failed to start", zap.Error(err))
	}

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"files-manager": func(ctx context.Context) error {
				zap.L().Info("Shutting down")
				return a.Stop(ctx)
			},
		},
	)

	os.Exit(<-wait)
}
