package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"stepperslife/clients"
	"stepperslife/config"
	"stepperslife/db"
	"stepperslife/service"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	log.Init(logrus.InfoLevel)
	logger := watermill.NewStdLogger(false, false)

	if err := run(logger); err != nil {
		logger.Error("failed to run", err, nil)
	}
}

func run(logger watermill.LoggerAdapter) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	gatewayClient := clients.New(cfg.GatewayAddr)

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer func() {
		if err := rdb.Conn().Close(); err != nil {
			logger.Error("failed to close redis connection", err, nil)
		}
	}()

	dbConn, err := sqlx.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close db connection", err, nil)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := db.InitialiseDB(ctx, dbConn); err != nil {
		return fmt.Errorf("initialising db: %w", err)
	}

	svc, err := service.New(
		logger,
		rdb,
		dbConn,
		clients.NewReceiptsClient(gatewayClient),
		clients.NewPaymentsClient(gatewayClient),
		clients.NewPassesClient(gatewayClient),
		clients.NewNotificationsClient(gatewayClient),
		clients.NewSpreadsheetsClient(gatewayClient),
		cfg.HTTPAddr,
	)
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}

	return svc.Run(ctx)
}
