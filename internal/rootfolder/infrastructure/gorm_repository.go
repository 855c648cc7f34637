package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/domain"
	"github.com/mateusmacedo/go-eventaggregator/pkg/application"
)

type gormRootFolderRepository struct {
	db     *gorm.DB
	logger application.AppLogger
}

func NewGormRootFolderRepository(db *gorm.DB, logger application.AppLogger) (domain.RootFolderRepository, error) {
	if err := db.AutoMigrate(&domain.RootFolder{}); err != nil {
		return nil, err
	}

	return &gormRootFolderRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormRootFolderRepository) All(ctx context.Context) ([]domain.RootFolder, error) {
	var folders []domain.RootFolder
	if err := r.db.WithContext(ctx).Order("id").Find(&folders).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to list root folders", err, nil)
		return nil, err
	}
	return folders, nil
}

func (r *gormRootFolderRepository) Get(ctx context.Context, id int) (domain.RootFolder, error) {
	var folder domain.RootFolder
	err := r.db.WithContext(ctx).First(&folder, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RootFolder{}, domain.ErrRootFolderNotFound
	}
	if err != nil {
		application.LogError(ctx, r.logger, "failed to find root folder", err, application.Fields{"id": id})
		return domain.RootFolder{}, err
	}
	return folder, nil
}

func (r *gormRootFolderRepository) Insert(ctx context.Context, folder *domain.RootFolder) error {
	if err := r.db.WithContext(ctx).Create(folder).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to save root folder", err, application.Fields{
			"path": folder.Path,
		})
		return err
	}

	application.LogInfo(ctx, r.logger, "root folder saved", application.Fields{
		"id":   folder.ID,
		"path": folder.Path,
	})
	return nil
}

func (r *gormRootFolderRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&domain.RootFolder{}, id)
	if result.Error != nil {
		application.LogError(ctx, r.logger, "failed to delete root folder", result.Error, application.Fields{"id": id})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRootFolderNotFound
	}

	application.LogInfo(ctx, r.logger, "root folder deleted", application.Fields{"id": id})
	return nil
}
