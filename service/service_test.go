package service

import (
	"context"
	"testing"
	"time"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStopsCleanlyOnShutdown(t *testing.T) {
	router, err := watermillMessage.NewRouter(watermillMessage.RouterConfig{}, watermill.NopLogger{})
	require.NoError(t, err)

	// A router without handlers never observes ctx cancellation (watermill
	// parks on handlerAdded), so register a no-op handler as production does.
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	router.AddNoPublisherHandler(
		"noop",
		"noop",
		pubSub,
		func(msg *watermillMessage.Message) error { return nil },
	)

	svc := Service{
		watermillRouter: router,
		echoRouter:      libHttp.NewEcho(),
		addr:            "127.0.0.1:0",
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- svc.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return svc.echoRouter.ListenerAddr() != nil
	}, 10*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("service did not stop after context cancellation")
	}
}
