package main

import (
	"context"
	"os"
	"os/signal"

	"eventsphere/api"
	"eventsphere/config"
	"eventsphere/db"
	"eventsphere/message"
	"eventsphere/migrations"
	"eventsphere/service"
	observability "eventsphere/trace"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	tp := observability.ConfigureTraceProvider(cfg.JaegerEndpoint)
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("could not shut down tracer provider")
		}
	}()

	conn, err := db.NewDBConn(cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	conn.MigrateSchema()

	if cfg.CapacityRepair {
		if err := migrations.RepairCapacity(ctx, conn); err != nil {
			panic(err)
		}
	}

	redisClient := message.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	notificationsClient := api.NewNotificationsClient(cfg.NotificationAPIAddr)

	svc := service.New(cfg, redisClient, notificationsClient, conn)

	if err := svc.Run(ctx); err != nil {
		panic(err)
	}
}
