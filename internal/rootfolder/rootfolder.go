package rootfolder

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/application"
	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/domain"
	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/infrastructure"
	pkgApp "github.com/mateusmacedo/go-eventaggregator/pkg/application"
)

type RootFolderSlice struct {
	Service     *application.RootFolderService
	Index       *application.RootFolderIndex
	httpHandler *infrastructure.RootFolderHTTPHandler
}

// NewRootFolderSlice monta o serviço e registra os subscribers do slice no barramento.
func NewRootFolderSlice(
	ctx context.Context,
	eventBus pkgApp.EventBus,
	repository domain.RootFolderRepository,
	disk domain.DiskProvider,
	series domain.SeriesPathProvider,
	settings application.Settings,
	logger pkgApp.AppLogger,
) (*RootFolderSlice, error) {
	existing, err := repository.All(ctx)
	if err != nil {
		return nil, err
	}

	index := application.NewRootFolderIndex(existing...)
	if _, err := eventBus.Subscribe(application.NewAuditSubscriber(logger)); err != nil {
		return nil, err
	}
	if _, err := eventBus.Subscribe(index); err != nil {
		return nil, err
	}

	service := application.NewRootFolderService(repository, disk, series, eventBus, settings, logger)

	return &RootFolderSlice{
		Service:     service,
		Index:       index,
		httpHandler: infrastructure.NewRootFolderHTTPHandler(service),
	}, nil
}

func (s *RootFolderSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
