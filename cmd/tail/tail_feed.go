package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Arten331/observability/logger"
	"github.com/eduplatform/notifier/pkg/feedclient"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Operator tool: follows one user's live notification feed and prints every
// delivery. Reconnects until interrupted.
func main() {
	var (
		host   string
		port   int
		userID int64
	)

	flag.StringVar(&host, "host", "localhost", "")
	flag.IntVar(&port, "port", 8080, "")
	flag.Int64Var(&userID, "user", 0, "")
	flag.Parse()

	logger.MustSetupGlobal(
		logger.WithConfiguration(logger.CoreOptions{
			OutputPath: "stderr",
			Level:      logger.KeyLevelDebug,
			Encoding:   logger.EncodingConsole,
		}),
	)

	if userID <= 0 {
		logger.L().Error("user id required")

		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	client := feedclient.NewClient(feedclient.Options{
		Host: host,
		Port: port,
	})

	rlReconnect := ratelimit.New(1) // per second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		rlReconnect.Take()

		err := tail(ctx, client, userID)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.L().Warn("feed connection lost, reconnecting", zap.Error(err))
		}
	}
}

func tail(ctx context.Context, client *feedclient.Client, userID int64) error {
	msgCh, errCh := client.Stream(ctx, userID)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-msgCh:
			fmt.Printf("[%s] #%d -> %d: %s: %s\n",
				msg.EventType, msg.NotificationID, msg.RecipientID, msg.Subject, msg.Body)
		case err := <-errCh:
			return err
		}
	}
}
