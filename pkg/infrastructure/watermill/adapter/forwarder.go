package adapter

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mateusmacedo/go-eventaggregator/pkg/application"
	"github.com/mateusmacedo/go-eventaggregator/pkg/domain"
)

const (
	MetadataEventName = "event_name"
	MetadataRequestID = "request_id"
)

// Forwarder é um subscriber que repassa eventos nomeados para um
// message.Publisher. O tópico é o prefixo seguido do nome do evento.
type Forwarder struct {
	publisher   message.Publisher
	topicPrefix string
	logger      application.AppLogger
}

var _ application.NamedSubscriber = (*Forwarder)(nil)

func NewForwarder(publisher message.Publisher, topicPrefix string, logger application.AppLogger) *Forwarder {
	if logger == nil {
		logger = application.NopLogger{}
	}
	return &Forwarder{
		publisher:   publisher,
		topicPrefix: topicPrefix,
		logger:      logger,
	}
}

func (f *Forwarder) SubscriberName() string {
	return "watermill-forwarder"
}

func (f *Forwarder) Capabilities() []application.Capability {
	return []application.Capability{
		application.HandlesFunc(f.forward),
	}
}

// Topic retorna o tópico usado para um nome de evento.
func (f *Forwarder) Topic(eventName string) string {
	return f.topicPrefix + eventName
}

func (f *Forwarder) forward(ctx context.Context, event domain.Named) error {
	payload, err := application.MarshalPayload(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventName, event.EventName())
	if requestID, ok := application.RequestIDFromContext(ctx); ok {
		msg.Metadata.Set(MetadataRequestID, requestID)
	}

	topic := f.Topic(event.EventName())
	if err := f.publisher.Publish(topic, msg); err != nil {
		return err
	}

	application.LogDebug(ctx, f.logger, "event forwarded", application.Fields{
		"event_name": event.EventName(),
		"topic":      topic,
		"message_id": msg.UUID,
	})
	return nil
}
