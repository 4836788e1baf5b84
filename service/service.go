package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stepperslife/command"
	"stepperslife/db"
	"stepperslife/http"
	"stepperslife/message"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ReceiptsClient issues receipts for confirmed orders and voids them on
// refund.
type ReceiptsClient interface {
	message.ReceiptsClient
	command.ReceiptsClient
}

type Service struct {
	forwarder  *message.Forwarder
	msgRouter  *message.Router
	httpRouter *echo.Echo
	httpAddr   string
}

func New(
	logger watermill.LoggerAdapter,
	redisClient *redis.Client,
	dbConn *sqlx.DB,
	receiptsClient ReceiptsClient,
	paymentsClient command.PaymentsClient,
	passGenerator message.PassGenerator,
	notificationSender message.NotificationSender,
	spreadsheetAppender message.SpreadsheetAppender,
	httpAddr string,
) (*Service, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: redisClient,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}
	decoratedPublisher := log.CorrelationPublisherDecorator{Publisher: publisher}

	commandBus, err := command.NewBus(decoratedPublisher, logger)
	if err != nil {
		return nil, fmt.Errorf("creating command bus: %w", err)
	}

	eventRepo := db.NewEventRepo(dbConn)
	ticketTypeRepo := db.NewTicketTypeRepo(dbConn)
	reservationRepo := db.NewReservationRepo(dbConn, logger)
	promoCodeRepo := db.NewPromoCodeRepo(dbConn)
	rsvpRepo := db.NewRSVPRepo(dbConn, logger)
	orderRepo := db.NewOrderRepo(dbConn, logger)
	ticketRepo := db.NewTicketRepo(dbConn, logger)
	revenueRepo := db.NewRevenueRepo(dbConn)

	forwarder, err := message.NewForwarder(dbConn, redisClient, logger)
	if err != nil {
		return nil, fmt.Errorf("creating forwarder: %w", err)
	}

	msgRouter, err := message.NewRouter(message.RouterDeps{
		Logger:              logger,
		RedisClient:         redisClient,
		ReceiptsClient:      receiptsClient,
		PassGenerator:       passGenerator,
		NotificationSender:  notificationSender,
		SpreadsheetAppender: spreadsheetAppender,
		RevenueRecorder:     revenueRepo,
		CommandHandler:      command.NewHandler(paymentsClient, receiptsClient, orderRepo),
	})
	if err != nil {
		return nil, fmt.Errorf("creating message router: %w", err)
	}

	httpRouter := http.NewRouter(http.HandlerDeps{
		CommandBus:     commandBus,
		EventRepo:      eventRepo,
		OrderRepo:      orderRepo,
		PromoCodeRepo:  promoCodeRepo,
		Reserver:       reservationRepo,
		RevenueRepo:    revenueRepo,
		RSVPRepo:       rsvpRepo,
		TicketRepo:     ticketRepo,
		TicketTypeRepo: ticketTypeRepo,
	})

	return &Service{
		forwarder:  forwarder,
		msgRouter:  msgRouter,
		httpRouter: httpRouter,
		httpAddr:   httpAddr,
	}, nil
}

func (s Service) Run(ctx context.Context) error {
	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.forwarder.Run(runCtx); err != nil {
			return fmt.Errorf("running outbox forwarder: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		if err := s.msgRouter.Run(runCtx); err != nil {
			return fmt.Errorf("running messaging router: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		// Wait for message router
		<-s.msgRouter.Running()

		logrus.Info("Starting HTTP server...")
		err := s.httpRouter.Start(s.httpAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logrus.Info("Shutting down HTTP server...")
		if err := s.httpRouter.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("waiting for shutdown: %w", err)
	}
	logrus.Info("Shutdown complete.")

	return nil
}
