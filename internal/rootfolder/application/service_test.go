package application_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/application"
	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/domain"
	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/infrastructure"
	pkgApp "github.com/mateusmacedo/go-eventaggregator/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-eventaggregator/pkg/infrastructure"
	zapAdapter "github.com/mateusmacedo/go-eventaggregator/pkg/infrastructure/zaplogger/adapter"
)

type seriesPaths struct {
	paths []string
}

func (s *seriesPaths) SeriesPaths(context.Context) ([]string, error) {
	return s.paths, nil
}

type fixture struct {
	service  *application.RootFolderService
	series   *seriesPaths
	bus      *pkgInfra.EventAggregator
	index    *application.RootFolderIndex
	logs     *observer.ObservedLogs
	events   *[]domain.RootFolderEvent
	root     string
	download string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zapAdapter.NewZapAppLoggerFromZap(zap.New(core))

	bus, err := pkgInfra.NewEventAggregator(logger)
	require.NoError(t, err)

	var events []domain.RootFolderEvent
	_, err = bus.Subscribe(pkgApp.Subscribe("recorder", pkgApp.HandlesFunc(func(_ context.Context, e domain.RootFolderEvent) error {
		events = append(events, e)
		return nil
	})))
	require.NoError(t, err)

	index := application.NewRootFolderIndex()
	_, err = bus.Subscribe(index)
	require.NoError(t, err)
	_, err = bus.Subscribe(application.NewAuditSubscriber(logger))
	require.NoError(t, err)

	base := t.TempDir()
	download := filepath.Join(base, "downloads")
	require.NoError(t, os.Mkdir(download, 0o755))

	series := &seriesPaths{}
	service := application.NewRootFolderService(
		infrastructure.NewInMemoryRootFolderRepository(logger),
		infrastructure.OSDiskProvider{},
		series,
		bus,
		application.Settings{DownloadedEpisodesFolder: download},
		logger,
	)

	return fixture{
		service:  service,
		series:   series,
		bus:      bus,
		index:    index,
		logs:     logs,
		events:   &events,
		root:     base,
		download: download,
	}
}

func mkdirs(t *testing.T, root string, names ...string) string {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, n), 0o755))
	}
	return root
}

func TestAdd_PublishesAndFillsUnmappedFolders(t *testing.T) {
	f := newFixture(t)
	tv := mkdirs(t, filepath.Join(f.root, "tv"), "Firefly", "Lost", "lost+found", "$RECYCLE.BIN", "@eaDir")
	require.NoError(t, os.WriteFile(filepath.Join(tv, "notes.txt"), []byte("x"), 0o644))

	f.series.paths = []string{filepath.Join(tv, "Lost") + "/"}

	folder, err := f.service.Add(context.Background(), domain.RootFolder{Path: tv + string(filepath.Separator)})
	require.NoError(t, err)

	assert.Equal(t, 1, folder.ID)
	assert.Equal(t, tv, folder.Path)
	assert.Equal(t, []domain.UnmappedFolder{{Name: "Firefly", Path: filepath.Join(tv, "Firefly")}}, folder.UnmappedFolders)

	require.Len(t, *f.events, 1)
	added, ok := (*f.events)[0].(domain.RootFolderAdded)
	require.True(t, ok)
	assert.Equal(t, tv, added.Path)
	assert.Equal(t, folder.ID, added.RootFolderID)

	assert.True(t, f.index.Contains(tv))
	assert.Equal(t, 1, f.logs.FilterMessage("root folder added").Len())
}

func TestAdd_Validation(t *testing.T) {
	f := newFixture(t)
	existing := mkdirs(t, filepath.Join(f.root, "existing"))
	_, err := f.service.Add(context.Background(), domain.RootFolder{Path: existing})
	require.NoError(t, err)
	*f.events = nil

	tests := []struct {
		name string
		path string
		want error
	}{
		{"empty", "", domain.ErrInvalidPath},
		{"blank", "   ", domain.ErrInvalidPath},
		{"relative", "relative/tv", domain.ErrInvalidPath},
		{"missing", filepath.Join(f.root, "missing"), domain.ErrFolderNotFound},
		{"duplicate", existing + "/", domain.ErrFolderExists},
		{"download folder", f.download, domain.ErrDownloadFolder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Add(context.Background(), domain.RootFolder{Path: tt.path})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, *f.events)
	all, err := f.service.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	tv := mkdirs(t, filepath.Join(f.root, "tv"))
	folder, err := f.service.Add(context.Background(), domain.RootFolder{Path: tv})
	require.NoError(t, err)

	require.NoError(t, f.service.Remove(context.Background(), folder.ID))

	require.Len(t, *f.events, 2)
	removed, ok := (*f.events)[1].(domain.RootFolderRemoved)
	require.True(t, ok)
	assert.Equal(t, tv, removed.Path)
	assert.False(t, f.index.Contains(tv))

	err = f.service.Remove(context.Background(), folder.ID)
	assert.ErrorIs(t, err, domain.ErrRootFolderNotFound)
	assert.Len(t, *f.events, 2)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	tv := mkdirs(t, filepath.Join(f.root, "tv"), "B", "A")
	folder, err := f.service.Add(context.Background(), domain.RootFolder{Path: tv})
	require.NoError(t, err)

	got, err := f.service.Get(context.Background(), folder.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(got.UnmappedFolders))
	for _, u := range got.UnmappedFolders {
		names = append(names, u.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"A", "B"}, names)

	_, err = f.service.Get(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrRootFolderNotFound)
}

func TestAllWithUnmappedFolders_SkipsMissingFolders(t *testing.T) {
	f := newFixture(t)
	present := mkdirs(t, filepath.Join(f.root, "present"), "Show")
	gone := mkdirs(t, filepath.Join(f.root, "gone"), "Other")

	_, err := f.service.Add(context.Background(), domain.RootFolder{Path: present})
	require.NoError(t, err)
	_, err = f.service.Add(context.Background(), domain.RootFolder{Path: gone})
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(gone))

	folders, err := f.service.AllWithUnmappedFolders(context.Background())
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Len(t, folders[0].UnmappedFolders, 1)
	assert.Nil(t, folders[1].UnmappedFolders)
	assert.Zero(t, folders[1].FreeSpace)
}

func TestAdd_HandlerFailureDoesNotFailAdd(t *testing.T) {
	f := newFixture(t)
	_, err := f.bus.Subscribe(pkgApp.Subscribe("broken", pkgApp.HandlesFunc(func(context.Context, domain.RootFolderAdded) error {
		return errors.New("index unavailable")
	})))
	require.NoError(t, err)

	tv := mkdirs(t, filepath.Join(f.root, "tv"))
	_, err = f.service.Add(context.Background(), domain.RootFolder{Path: tv})
	require.NoError(t, err)

	assert.Len(t, *f.events, 1)
	assert.Equal(t, 1, f.logs.FilterMessage("root folder event handlers failed").Len())
}

type failingSpaceDisk struct {
	infrastructure.OSDiskProvider
}

func (failingSpaceDisk) AvailableSpace(string) (uint64, error) {
	return 0, errors.New("statfs failed")
}

func TestAdd_DiskReadFailureKeepsStoreAndIndexInSync(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zapAdapter.NewZapAppLoggerFromZap(zap.New(core))

	index := application.NewRootFolderIndex()
	bus, err := pkgInfra.NewEventAggregator(logger, index)
	require.NoError(t, err)

	repository := infrastructure.NewInMemoryRootFolderRepository(logger)
	service := application.NewRootFolderService(repository, failingSpaceDisk{}, &seriesPaths{}, bus, application.Settings{}, logger)

	tv := mkdirs(t, filepath.Join(t.TempDir(), "tv"))
	folder, err := service.Add(context.Background(), domain.RootFolder{Path: tv})
	require.NoError(t, err)
	assert.Equal(t, 1, folder.ID)
	assert.Zero(t, folder.FreeSpace)

	stored, err := repository.All(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, index.Contains(tv))
	assert.Equal(t, 1, logs.FilterMessage("failed to read root folder details").Len())

	_, err = service.Add(context.Background(), domain.RootFolder{Path: tv})
	assert.ErrorIs(t, err, domain.ErrFolderExists)
}
