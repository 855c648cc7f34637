package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidPath        = errors.New("invalid path")
	ErrFolderNotFound     = errors.New("can't add root directory that doesn't exist")
	ErrFolderExists       = errors.New("root directory already exists")
	ErrDownloadFolder     = errors.New("downloaded episodes folder cannot be used")
	ErrRootFolderNotFound = errors.New("root folder not found")
)

// RootFolder é um diretório raiz da biblioteca.
type RootFolder struct {
	ID              int              `json:"id" gorm:"primaryKey;autoIncrement"`
	Path            string           `json:"path" gorm:"uniqueIndex;not null"`
	FreeSpace       uint64           `json:"freeSpace" gorm:"-"`
	UnmappedFolders []UnmappedFolder `json:"unmappedFolders" gorm:"-"`
}

// UnmappedFolder é um subdiretório da raiz que não pertence a nenhuma série.
type UnmappedFolder struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type RootFolderRepository interface {
	All(ctx context.Context) ([]RootFolder, error)
	Get(ctx context.Context, id int) (RootFolder, error)
	Insert(ctx context.Context, folder *RootFolder) error
	Delete(ctx context.Context, id int) error
}

// DiskProvider consulta o sistema de arquivos.
type DiskProvider interface {
	FolderExists(path string) bool
	AvailableSpace(path string) (uint64, error)
	Directories(path string) ([]string, error)
}

// SeriesPathProvider lista os caminhos das séries já mapeadas.
type SeriesPathProvider interface {
	SeriesPaths(ctx context.Context) ([]string, error)
}
