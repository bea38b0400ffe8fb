package service

import (
	"context"
	"errors"
	"net/http"

	"eventsphere/booking"
	"eventsphere/config"
	"eventsphere/db"
	eventsphereHttp "eventsphere/http"
	"eventsphere/idempotency"
	"eventsphere/message"
	"eventsphere/message/command"
	"eventsphere/message/event"
	"eventsphere/message/outbox"
	"eventsphere/pkg/clock"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
	addr            string
}

func New(
	cfg config.Config,
	redisClient *redis.Client,
	notificationsService event.NotificationsService,
	conn db.DB,
) Service {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher := message.NewRedisPublisher(redisClient, watermillLogger)

	eventBus := event.NewBus(redisPublisher)
	commandBus := command.NewCommandBus(redisPublisher)

	eventRepo := db.NewEventRepository(&conn)
	bookingRepo := db.NewBookingRepository(&conn)
	ledger := db.NewCapacityLedger(&conn)

	idemStore := idempotency.NewRedisStore(
		redisClient,
		cfg.IdempotencyInFlightTTL,
		cfg.IdempotencyTTL,
		clock.NewSystem(),
	)

	coordinator := booking.NewCoordinator(
		eventRepo,
		bookingRepo,
		ledger,
		idemStore,
		commandBus,
		eventBus,
		clock.NewSystem(),
		booking.Config{
			MaxTicketsPerRequest: cfg.MaxTicketsPerRequest,
			InFlightWait:         cfg.IdempotencyInFlightWait,
			KeyBucket:            cfg.IdempotencyKeyBucket,
		},
	)

	eventsHandler := event.NewHandler(notificationsService)
	commandsHandler := command.NewHandler(ledger)

	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)
	commandProcessorConfig := command.NewCommandProcessorConfig(redisClient, watermillLogger)

	pgSubscriber := outbox.SubscribeForPGMessages(conn.Conn, watermillLogger)
	watermillRouter := message.NewWatermillRouter(
		pgSubscriber,
		redisPublisher,
		eventProcessorConfig,
		eventsHandler,
		commandProcessorConfig,
		commandsHandler,
		watermillLogger,
	)

	echoRouter := eventsphereHttp.NewHttpRouter(
		coordinator,
		eventRepo,
		bookingRepo,
		cfg.JWTSecret,
	)

	return Service{
		watermillRouter: watermillRouter,
		echoRouter:      echoRouter,
		addr:            ":" + cfg.Port,
	}
}

func (s Service) Run(ctx context.Context) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// we don't want to start HTTP server before Watermill router (so service won't be healthy before it's ready)
		<-s.watermillRouter.Running()

		err := s.echoRouter.Start(s.addr)
		if errors.Is(err, http.ErrServerClosed) {
			// Shutdown below closed the server, not a failure.
			return nil
		}
		return err
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}
