package message

import (
	"fmt"

	"stepperslife/command"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	Logger              watermill.LoggerAdapter
	RedisClient         *redis.Client
	ReceiptsClient      ReceiptsClient
	PassGenerator       PassGenerator
	NotificationSender  NotificationSender
	SpreadsheetAppender SpreadsheetAppender
	RevenueRecorder     RevenueRecorder
	CommandHandler      command.Handler
}

type Router struct {
	*message.Router
}

func NewRouter(deps RouterDeps) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	addMiddlewares(router, deps.Logger)

	eventProcessorConfig := cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        deps.RedisClient,
				ConsumerGroup: "svc-stepperslife." + params.HandlerName,
			}, deps.Logger)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return params.EventName, nil
		},
		Marshaler: cqrs.JSONMarshaler{
			GenerateName: cqrs.StructName,
		},
		Logger: deps.Logger,
	}

	ep, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		return nil, fmt.Errorf("creating event processor: %w", err)
	}

	handler := NewHandler(
		deps.ReceiptsClient,
		deps.PassGenerator,
		deps.NotificationSender,
		deps.SpreadsheetAppender,
		deps.RevenueRecorder,
	)

	eventHandlers := []cqrs.EventHandler{
		cqrs.NewEventHandler("track-reservation", handler.TrackReservation),
		cqrs.NewEventHandler("issue-receipt", handler.IssueReceipt),
		cqrs.NewEventHandler("generate-passes", handler.GeneratePasses),
		cqrs.NewEventHandler("record-revenue", handler.RecordRevenue),
		cqrs.NewEventHandler("record-refund", handler.RecordRefund),
		cqrs.NewEventHandler("notify-promoted-rsvp", handler.NotifyPromoted),
		cqrs.NewEventHandler("track-attendance", handler.TrackAttendance),
		cqrs.NewEventHandler("track-rsvp-attendance", handler.TrackRSVPAttendance),
	}

	if err := ep.AddHandlers(eventHandlers...); err != nil {
		return nil, fmt.Errorf("adding event handlers: %w", err)
	}

	cp, err := cqrs.NewCommandProcessorWithConfig(router, command.NewProcessorConfig(deps.Logger, deps.RedisClient))
	if err != nil {
		return nil, fmt.Errorf("creating command processor: %w", err)
	}

	if err := cp.AddHandlers(cqrs.NewCommandHandler("refund-order", deps.CommandHandler.RefundOrder)); err != nil {
		return nil, fmt.Errorf("adding command handlers: %w", err)
	}

	return &Router{router}, nil
}
