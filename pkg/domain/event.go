package domain

// Event representa um fato ocorrido no sistema. Qualquer valor não nulo é um evento.
type Event = any

// Named é implementado por eventos que possuem um nome estável para logs.
type Named interface {
	EventName() string
}
