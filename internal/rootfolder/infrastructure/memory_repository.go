package infrastructure

import (
	"context"
	"sort"
	"sync"

	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/domain"
	"github.com/mateusmacedo/go-eventaggregator/pkg/application"
)

type InMemoryRootFolderRepository struct {
	mu     sync.RWMutex
	data   map[int]domain.RootFolder
	nextID int
	logger application.AppLogger
}

var _ domain.RootFolderRepository = (*InMemoryRootFolderRepository)(nil)

func NewInMemoryRootFolderRepository(logger application.AppLogger) *InMemoryRootFolderRepository {
	return &InMemoryRootFolderRepository{
		data:   make(map[int]domain.RootFolder),
		logger: logger,
	}
}

func (r *InMemoryRootFolderRepository) All(_ context.Context) ([]domain.RootFolder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	folders := make([]domain.RootFolder, 0, len(r.data))
	for _, f := range r.data {
		folders = append(folders, f)
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].ID < folders[j].ID })
	return folders, nil
}

func (r *InMemoryRootFolderRepository) Get(_ context.Context, id int) (domain.RootFolder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	folder, exists := r.data[id]
	if !exists {
		return domain.RootFolder{}, domain.ErrRootFolderNotFound
	}
	return folder, nil
}

func (r *InMemoryRootFolderRepository) Insert(ctx context.Context, folder *domain.RootFolder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	folder.ID = r.nextID
	r.data[folder.ID] = domain.RootFolder{ID: folder.ID, Path: folder.Path}

	application.LogInfo(ctx, r.logger, "root folder saved", application.Fields{
		"id":   folder.ID,
		"path": folder.Path,
	})
	return nil
}

func (r *InMemoryRootFolderRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return domain.ErrRootFolderNotFound
	}
	delete(r.data, id)

	application.LogInfo(ctx, r.logger, "root folder deleted", application.Fields{"id": id})
	return nil
}
