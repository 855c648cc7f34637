package application

import (
	"context"
	"reflect"

	"github.com/google/uuid"
)

// EventHandler processa eventos do tipo E.
type EventHandler[E any] interface {
	Handle(ctx context.Context, event E) error
}

// EventHandlerFunc adapta uma função para EventHandler.
type EventHandlerFunc[E any] func(ctx context.Context, event E) error

func (f EventHandlerFunc[E]) Handle(ctx context.Context, event E) error {
	return f(ctx, event)
}

// Capability liga um tipo de evento a um manipulador. O casamento é feito por
// asserção de tipo: um evento casa quando seu tipo dinâmico é E ou implementa E.
type Capability struct {
	eventType string
	invoke    func(ctx context.Context, event any) (bool, error)
}

// Handles declara que h processa eventos do tipo E.
func Handles[E any](h EventHandler[E]) Capability {
	if h == nil {
		return Capability{}
	}
	return Capability{
		eventType: reflect.TypeFor[E]().String(),
		invoke: func(ctx context.Context, event any) (bool, error) {
			e, ok := event.(E)
			if !ok {
				return false, nil
			}
			return true, h.Handle(ctx, e)
		},
	}
}

// HandlesFunc é Handles para uma função simples.
func HandlesFunc[E any](fn func(ctx context.Context, event E) error) Capability {
	if fn == nil {
		return Capability{}
	}
	return Handles[E](EventHandlerFunc[E](fn))
}

// EventType retorna o tipo declarado, ex. "int" ou "domain.RootFolderEvent".
func (c Capability) EventType() string {
	return c.eventType
}

// Valid indica se c foi criada por Handles com um manipulador não nulo.
func (c Capability) Valid() bool {
	return c.invoke != nil
}

// Invoke chama o manipulador quando o evento casa com o tipo declarado. O
// primeiro retorno indica se houve casamento.
func (c Capability) Invoke(ctx context.Context, event any) (bool, error) {
	return c.invoke(ctx, event)
}

// Subscriber expõe as capacidades de um manipulador. Um mesmo subscriber pode
// declarar vários tipos de evento.
type Subscriber interface {
	Capabilities() []Capability
}

// NamedSubscriber é implementado por subscribers que se identificam nos logs.
type NamedSubscriber interface {
	Subscriber
	SubscriberName() string
}

type subscriber struct {
	name string
	caps []Capability
}

func (s *subscriber) Capabilities() []Capability {
	return s.caps
}

func (s *subscriber) SubscriberName() string {
	return s.name
}

// Subscribe monta um Subscriber nomeado a partir de uma lista de capacidades.
func Subscribe(name string, caps ...Capability) NamedSubscriber {
	return &subscriber{name: name, caps: caps}
}

// SubscriptionID identifica um registro no barramento.
type SubscriptionID = uuid.UUID

// EventPublisher publica eventos para os manipuladores registrados.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// EventBus define a interface para o barramento de eventos.
type EventBus interface {
	EventPublisher
	Subscribe(sub Subscriber) (SubscriptionID, error)
	Unsubscribe(id SubscriptionID) bool
}
