package infrastructure

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/domain"
)

// OSDiskProvider consulta o sistema de arquivos local.
type OSDiskProvider struct{}

var _ domain.DiskProvider = OSDiskProvider{}

func (OSDiskProvider) FolderExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OSDiskProvider) AvailableSpace(path string) (uint64, error) {
	return availableSpace(path)
}

// Directories lista os subdiretórios imediatos de path, com caminho completo.
func (OSDiskProvider) Directories(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(path, e.Name()))
		}
	}
	return dirs, nil
}

// StaticSeriesPaths serve uma lista fixa de caminhos de séries, vinda da configuração.
type StaticSeriesPaths []string

func (s StaticSeriesPaths) SeriesPaths(context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}
