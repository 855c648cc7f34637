package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/mateusmacedo/go-eventaggregator/pkg/application"
	"github.com/mateusmacedo/go-eventaggregator/pkg/domain"
)

type registration struct {
	id   application.SubscriptionID
	name string
	caps []application.Capability
}

// EventAggregator é um barramento síncrono em memória que roteia eventos pelo
// tipo dinâmico. Manipuladores são chamados na ordem de registro; a falha de um
// manipulador não impede os seguintes e todas as falhas são devolvidas juntas
// ao final do Publish.
type EventAggregator struct {
	mu       sync.RWMutex
	registry []registration // copy-on-write, nunca alterado no lugar
	logger   application.AppLogger
}

var _ application.EventBus = (*EventAggregator)(nil)

// NewEventAggregator cria o agregador registrando os subscribers na ordem dada.
func NewEventAggregator(logger application.AppLogger, subscribers ...application.Subscriber) (*EventAggregator, error) {
	if logger == nil {
		logger = application.NopLogger{}
	}
	agg := &EventAggregator{logger: logger}
	for _, sub := range subscribers {
		if _, err := agg.Subscribe(sub); err != nil {
			return nil, err
		}
	}
	return agg, nil
}

// Subscribe registra um subscriber e suas capacidades. Registros inválidos
// falham aqui e nunca durante o Publish.
func (a *EventAggregator) Subscribe(sub application.Subscriber) (application.SubscriptionID, error) {
	reg, err := newRegistration(sub)
	if err != nil {
		return application.SubscriptionID{}, err
	}

	a.mu.Lock()
	registry := make([]registration, len(a.registry), len(a.registry)+1)
	copy(registry, a.registry)
	a.registry = append(registry, reg)
	a.mu.Unlock()

	types := make([]string, len(reg.caps))
	for i, c := range reg.caps {
		types[i] = c.EventType()
	}
	a.logger.Debug(context.Background(), "registered event subscriber", application.Fields{
		"subscriber":      reg.name,
		"subscription_id": reg.id.String(),
		"event_types":     types,
	})
	return reg.id, nil
}

// Unsubscribe remove um registro. Retorna false se o id não existir.
func (a *EventAggregator) Unsubscribe(id application.SubscriptionID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, reg := range a.registry {
		if reg.id != id {
			continue
		}
		registry := make([]registration, 0, len(a.registry)-1)
		registry = append(registry, a.registry[:i]...)
		a.registry = append(registry, a.registry[i+1:]...)
		return true
	}
	return false
}

// Len retorna o número de subscribers registrados.
func (a *EventAggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.registry)
}

// Publish entrega o evento a todo manipulador cujo tipo declarado é o tipo do
// evento ou uma interface que ele implementa. Cada par (subscriber, capacidade)
// que casa é invocado uma vez. Publish só retorna depois de todos rodarem.
func (a *EventAggregator) Publish(ctx context.Context, event any) error {
	if event == nil {
		return application.ErrNilEvent
	}

	a.mu.RLock()
	registry := a.registry
	a.mu.RUnlock()

	eventName := eventLabel(event)
	var (
		errs    error
		invoked int
	)
	for _, reg := range registry {
		for _, c := range reg.caps {
			matched, err := invoke(ctx, c, event)
			if !matched {
				continue
			}
			invoked++
			if err == nil {
				continue
			}
			application.LogError(ctx, a.logger, "event handler failed", err, application.Fields{
				"event_name": eventName,
				"subscriber": reg.name,
				"capability": c.EventType(),
			})
			errs = multierr.Append(errs, &application.HandlerError{
				Subscriber: reg.name,
				EventType:  eventName,
				Capability: c.EventType(),
				Err:        err,
			})
		}
	}

	if invoked == 0 {
		a.logger.Debug(ctx, "no handler registered for event", application.Fields{
			"event_name": eventName,
		})
		return nil
	}

	a.logger.Debug(ctx, "event published", application.Fields{
		"event_name":    eventName,
		"handler_count": invoked,
		"failed_count":  len(multierr.Errors(errs)),
	})
	return errs
}

// PublishAll publica os eventos em sequência e combina as falhas.
func (a *EventAggregator) PublishAll(ctx context.Context, events ...any) error {
	var errs error
	for _, event := range events {
		errs = multierr.Append(errs, a.Publish(ctx, event))
	}
	return errs
}

func invoke(ctx context.Context, c application.Capability, event any) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			matched = true
			err = &application.PanicError{Value: r}
		}
	}()
	return c.Invoke(ctx, event)
}

func newRegistration(sub application.Subscriber) (registration, error) {
	if sub == nil {
		return registration{}, application.ErrNilSubscriber
	}
	name := subscriberLabel(sub)
	caps := sub.Capabilities()
	if len(caps) == 0 {
		return registration{}, fmt.Errorf("%s: %w", name, application.ErrNoCapabilities)
	}
	for i, c := range caps {
		if !c.Valid() {
			return registration{}, fmt.Errorf("%s: capability %d: %w", name, i, application.ErrInvalidCapability)
		}
	}
	return registration{
		id:   NewSubscriptionID(),
		name: name,
		caps: append([]application.Capability(nil), caps...),
	}, nil
}

func eventLabel(event any) string {
	if named, ok := event.(domain.Named); ok {
		return named.EventName()
	}
	return fmt.Sprintf("%T", event)
}

func subscriberLabel(sub application.Subscriber) string {
	if named, ok := sub.(application.NamedSubscriber); ok && named.SubscriberName() != "" {
		return named.SubscriberName()
	}
	return fmt.Sprintf("%T", sub)
}
