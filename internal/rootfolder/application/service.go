package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/domain"
	pkgApp "github.com/mateusmacedo/go-eventaggregator/pkg/application"
)

var specialFolders = map[string]struct{}{
	"$recycle.bin":              {},
	"system volume information": {},
	"recycler":                  {},
	"lost+found":                {},
	".appledb":                  {},
	".appledesktop":             {},
	".appledouble":              {},
	"@eadir":                    {},
}

// Settings são as opções da biblioteca que afetam a validação.
type Settings struct {
	DownloadedEpisodesFolder string
}

type RootFolderService struct {
	repository domain.RootFolderRepository
	disk       domain.DiskProvider
	series     domain.SeriesPathProvider
	publisher  pkgApp.EventPublisher
	settings   Settings
	logger     pkgApp.AppLogger
}

func NewRootFolderService(
	repository domain.RootFolderRepository,
	disk domain.DiskProvider,
	series domain.SeriesPathProvider,
	publisher pkgApp.EventPublisher,
	settings Settings,
	logger pkgApp.AppLogger,
) *RootFolderService {
	return &RootFolderService{
		repository: repository,
		disk:       disk,
		series:     series,
		publisher:  publisher,
		settings:   settings,
		logger:     logger,
	}
}

func (s *RootFolderService) All(ctx context.Context) ([]domain.RootFolder, error) {
	return s.repository.All(ctx)
}

// AllWithUnmappedFolders preenche espaço livre e pastas não mapeadas das raízes
// que existem em disco.
func (s *RootFolderService) AllWithUnmappedFolders(ctx context.Context) ([]domain.RootFolder, error) {
	folders, err := s.repository.All(ctx)
	if err != nil {
		return nil, err
	}

	for i := range folders {
		if !domain.IsPathValid(folders[i].Path) || !s.disk.FolderExists(folders[i].Path) {
			continue
		}
		if err := s.fill(ctx, &folders[i]); err != nil {
			return nil, err
		}
	}
	return folders, nil
}

func (s *RootFolderService) Add(ctx context.Context, folder domain.RootFolder) (domain.RootFolder, error) {
	all, err := s.All(ctx)
	if err != nil {
		return domain.RootFolder{}, err
	}

	if !domain.IsPathValid(folder.Path) {
		return domain.RootFolder{}, domain.ErrInvalidPath
	}
	if !s.disk.FolderExists(folder.Path) {
		return domain.RootFolder{}, domain.ErrFolderNotFound
	}
	for _, existing := range all {
		if domain.PathEquals(existing.Path, folder.Path) {
			return domain.RootFolder{}, domain.ErrFolderExists
		}
	}
	if strings.TrimSpace(s.settings.DownloadedEpisodesFolder) != "" &&
		domain.PathEquals(s.settings.DownloadedEpisodesFolder, folder.Path) {
		return domain.RootFolder{}, domain.ErrDownloadFolder
	}

	folder.ID = 0
	folder.Path = domain.CleanPath(folder.Path)
	if err := s.repository.Insert(ctx, &folder); err != nil {
		pkgApp.LogError(ctx, s.logger, "failed to insert root folder", err, pkgApp.Fields{"path": folder.Path})
		return domain.RootFolder{}, err
	}

	// a pasta já foi gravada: falha ao ler o disco não desfaz o Add
	if err := s.fill(ctx, &folder); err != nil {
		pkgApp.LogWarn(ctx, s.logger, "failed to read root folder details", err, pkgApp.Fields{"path": folder.Path})
	}

	s.publish(ctx, domain.NewRootFolderAdded(folder))
	return folder, nil
}

func (s *RootFolderService) Remove(ctx context.Context, id int) error {
	folder, err := s.repository.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repository.Delete(ctx, id); err != nil {
		pkgApp.LogError(ctx, s.logger, "failed to delete root folder", err, pkgApp.Fields{"id": id})
		return err
	}

	s.publish(ctx, domain.NewRootFolderRemoved(folder))
	return nil
}

func (s *RootFolderService) Get(ctx context.Context, id int) (domain.RootFolder, error) {
	folder, err := s.repository.Get(ctx, id)
	if err != nil {
		return domain.RootFolder{}, err
	}
	if err := s.fill(ctx, &folder); err != nil {
		return domain.RootFolder{}, err
	}
	return folder, nil
}

func (s *RootFolderService) fill(ctx context.Context, folder *domain.RootFolder) error {
	space, err := s.disk.AvailableSpace(folder.Path)
	if err != nil {
		return fmt.Errorf("available space for %s: %w", folder.Path, err)
	}
	unmapped, err := s.unmappedFolders(ctx, folder.Path)
	if err != nil {
		return err
	}
	folder.FreeSpace = space
	folder.UnmappedFolders = unmapped
	return nil
}

func (s *RootFolderService) unmappedFolders(ctx context.Context, path string) ([]domain.UnmappedFolder, error) {
	pkgApp.LogDebug(ctx, s.logger, "generating list of unmapped folders", pkgApp.Fields{"path": path})
	if strings.TrimSpace(path) == "" {
		return nil, domain.ErrInvalidPath
	}

	results := []domain.UnmappedFolder{}
	if !s.disk.FolderExists(path) {
		pkgApp.LogDebug(ctx, s.logger, "path supplied does not exist", pkgApp.Fields{"path": path})
		return results, nil
	}

	seriesPaths, err := s.series.SeriesPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("series paths: %w", err)
	}
	directories, err := s.disk.Directories(path)
	if err != nil {
		return nil, fmt.Errorf("list directories of %s: %w", path, err)
	}

	for _, dir := range directories {
		if mapped(dir, seriesPaths) {
			continue
		}
		name := filepath.Base(dir)
		if _, special := specialFolders[strings.ToLower(name)]; special {
			continue
		}
		results = append(results, domain.UnmappedFolder{Name: name, Path: dir})
	}

	pkgApp.LogDebug(ctx, s.logger, "unmapped folders detected", pkgApp.Fields{"path": path, "count": len(results)})
	return results, nil
}

func mapped(dir string, seriesPaths []string) bool {
	for _, p := range seriesPaths {
		if domain.PathEquals(dir, p) {
			return true
		}
	}
	return false
}

// publish registra as falhas dos manipuladores sem devolvê-las; a alteração
// já está gravada quando o evento sai.
func (s *RootFolderService) publish(ctx context.Context, event domain.RootFolderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		pkgApp.LogWarn(ctx, s.logger, "root folder event handlers failed", err, pkgApp.Fields{
			"event_name": event.EventName(),
			"path":       event.RootFolderPath(),
		})
	}
}
