package infrastructure

import (
	"context"

	"go.uber.org/multierr"

	"github.com/mateusmacedo/go-eventaggregator/pkg/application"
)

// Builder monta um EventAggregator registrando adaptadores tipados um a um.
// Erros de registro são acumulados e devolvidos por Build.
type Builder struct {
	logger      application.AppLogger
	subscribers []application.Subscriber
}

func NewBuilder(logger application.AppLogger) *Builder {
	return &Builder{logger: logger}
}

// Subscribe adiciona um subscriber já montado.
func (b *Builder) Subscribe(sub application.Subscriber) *Builder {
	b.subscribers = append(b.subscribers, sub)
	return b
}

// Handle adiciona um subscriber nomeado com as capacidades informadas.
func (b *Builder) Handle(name string, caps ...application.Capability) *Builder {
	return b.Subscribe(application.Subscribe(name, caps...))
}

// On registra fn como subscriber de uma única capacidade para eventos do tipo E.
func On[E any](b *Builder, name string, fn func(ctx context.Context, event E) error) *Builder {
	return b.Handle(name, application.HandlesFunc(fn))
}

// Build valida todos os registros e cria o agregador.
func (b *Builder) Build() (*EventAggregator, error) {
	agg, err := NewEventAggregator(b.logger)
	if err != nil {
		return nil, err
	}
	var errs error
	for _, sub := range b.subscribers {
		if _, err := agg.Subscribe(sub); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return agg, nil
}
