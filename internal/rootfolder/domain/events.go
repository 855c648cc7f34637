package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RootFolderAddedName   = "RootFolderAdded"
	RootFolderRemovedName = "RootFolderRemoved"
)

// RootFolderEvent é implementado por todos os eventos de diretório raiz.
type RootFolderEvent interface {
	EventName() string
	RootFolderPath() string
}

// BaseEvent carrega os campos comuns aos eventos do slice.
type BaseEvent struct {
	ID         uuid.UUID `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.New(), OccurredAt: time.Now().UTC()}
}

// RootFolderAdded é publicado depois que um diretório raiz é gravado.
type RootFolderAdded struct {
	BaseEvent
	RootFolderID int    `json:"rootFolderId"`
	Path         string `json:"path"`
	FreeSpace    uint64 `json:"freeSpace"`
}

func NewRootFolderAdded(folder RootFolder) RootFolderAdded {
	return RootFolderAdded{
		BaseEvent:    NewBaseEvent(),
		RootFolderID: folder.ID,
		Path:         folder.Path,
		FreeSpace:    folder.FreeSpace,
	}
}

func (e RootFolderAdded) EventName() string      { return RootFolderAddedName }
func (e RootFolderAdded) RootFolderPath() string { return e.Path }

// RootFolderRemoved é publicado depois que um diretório raiz é removido.
type RootFolderRemoved struct {
	BaseEvent
	RootFolderID int    `json:"rootFolderId"`
	Path         string `json:"path"`
}

func NewRootFolderRemoved(folder RootFolder) RootFolderRemoved {
	return RootFolderRemoved{
		BaseEvent:    NewBaseEvent(),
		RootFolderID: folder.ID,
		Path:         folder.Path,
	}
}

func (e RootFolderRemoved) EventName() string      { return RootFolderRemovedName }
func (e RootFolderRemoved) RootFolderPath() string { return e.Path }
