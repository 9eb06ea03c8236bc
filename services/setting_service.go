package services

import (
	"context"
	"errors"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
)

type SettingService struct {
	settings repositories.SettingRepository
}

func NewSettingService(settings repositories.SettingRepository) *SettingService {
	return &SettingService{settings: settings}
}

func (s *SettingService) List(ctx context.Context) ([]*models.Setting, error) {
	return s.settings.List(ctx)
}

func (s *SettingService) Get(ctx context.Context, key string) (*models.Setting, error) {
	setting, err := s.settings.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) Update(ctx context.Context, key, value string) (*models.Setting, error) {
	setting, err := s.settings.UpdateValue(ctx, key, value)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return setting, nil
}
