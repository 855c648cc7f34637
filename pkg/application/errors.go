package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNilEvent é devolvido por Publish quando o evento não tem tipo.
	ErrNilEvent = errors.New("event is nil")
	// ErrNilSubscriber é devolvido ao registrar um subscriber nulo.
	ErrNilSubscriber = errors.New("subscriber is nil")
	// ErrNoCapabilities é devolvido quando o subscriber não declara tipos de evento.
	ErrNoCapabilities = errors.New("subscriber declares no capabilities")
	// ErrInvalidCapability é devolvido para Capability zerada ou criada com manipulador nulo.
	ErrInvalidCapability = errors.New("invalid capability")
)

// HandlerError descreve a falha de um manipulador durante um Publish.
type HandlerError struct {
	Subscriber string
	EventType  string
	Capability string
	Err        error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s failed for %s (as %s): %v", e.Subscriber, e.EventType, e.Capability, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError guarda o valor recuperado de um manipulador que entrou em pânico.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// Unwrap retorna o valor recuperado quando ele mesmo é um error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
