package main

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	pkgApp "github.com/mateusmacedo/go-eventaggregator/pkg/application"
	watermillAdapter "github.com/mateusmacedo/go-eventaggregator/pkg/infrastructure/watermill/adapter"
)

func logForwarded(ctx context.Context, logger pkgApp.AppLogger, messages <-chan *message.Message) {
	for msg := range messages {
		logger.Info(ctx, "forwarded event received", pkgApp.Fields{
			"message_id": msg.UUID,
			"event_name": msg.Metadata.Get(watermillAdapter.MetadataEventName),
			"payload":    string(msg.Payload),
		})
		msg.Ack()
	}
}
