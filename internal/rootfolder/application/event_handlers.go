package application

import (
	"context"
	"sort"
	"sync"

	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/domain"
	pkgApp "github.com/mateusmacedo/go-eventaggregator/pkg/application"
)

type auditSubscriber struct {
	logger pkgApp.AppLogger
}

// NewAuditSubscriber registra em log cada diretório raiz adicionado ou removido.
func NewAuditSubscriber(logger pkgApp.AppLogger) pkgApp.NamedSubscriber {
	return &auditSubscriber{logger: logger}
}

func (s *auditSubscriber) SubscriberName() string {
	return "rootfolder-audit"
}

func (s *auditSubscriber) Capabilities() []pkgApp.Capability {
	return []pkgApp.Capability{
		pkgApp.HandlesFunc(s.added),
		pkgApp.HandlesFunc(s.removed),
	}
}

func (s *auditSubscriber) added(ctx context.Context, event domain.RootFolderAdded) error {
	pkgApp.LogInfo(ctx, s.logger, "root folder added", pkgApp.Fields{
		"event_id":       event.ID.String(),
		"root_folder_id": event.RootFolderID,
		"path":           event.Path,
		"free_space":     event.FreeSpace,
	})
	return nil
}

func (s *auditSubscriber) removed(ctx context.Context, event domain.RootFolderRemoved) error {
	pkgApp.LogInfo(ctx, s.logger, "root folder removed", pkgApp.Fields{
		"event_id":       event.ID.String(),
		"root_folder_id": event.RootFolderID,
		"path":           event.Path,
	})
	return nil
}

// RootFolderIndex mantém em memória os caminhos das raízes conhecidas. É
// alimentado por qualquer RootFolderEvent.
type RootFolderIndex struct {
	mu    sync.RWMutex
	paths map[string]struct{}
}

var _ pkgApp.NamedSubscriber = (*RootFolderIndex)(nil)

func NewRootFolderIndex(folders ...domain.RootFolder) *RootFolderIndex {
	idx := &RootFolderIndex{paths: make(map[string]struct{}, len(folders))}
	for _, f := range folders {
		idx.paths[domain.CleanPath(f.Path)] = struct{}{}
	}
	return idx
}

func (i *RootFolderIndex) SubscriberName() string {
	return "rootfolder-index"
}

func (i *RootFolderIndex) Capabilities() []pkgApp.Capability {
	return []pkgApp.Capability{pkgApp.HandlesFunc(i.apply)}
}

func (i *RootFolderIndex) apply(_ context.Context, event domain.RootFolderEvent) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	path := domain.CleanPath(event.RootFolderPath())
	switch event.(type) {
	case domain.RootFolderAdded:
		i.paths[path] = struct{}{}
	case domain.RootFolderRemoved:
		delete(i.paths, path)
	}
	return nil
}

func (i *RootFolderIndex) Contains(path string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.paths[domain.CleanPath(path)]
	return ok
}

func (i *RootFolderIndex) Paths() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	paths := make([]string, 0, len(i.paths))
	for p := range i.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
