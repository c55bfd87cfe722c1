package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/apperr"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

type Fields struct {
	Title           *string
	Description     *string
	Price           *float64
	Duration        *string
	ImagePath       *string
	BrochurePath    *string
	IsHidden        *bool
	MoreDestination *bool
}

func (f Fields) apply(d *models.Destination) error {
	if f.Title != nil {
		d.Title = strings.TrimSpace(*f.Title)
	}
	if f.Description != nil {
		d.Description = *f.Description
	}
	if f.Price != nil {
		d.Price = *f.Price
	}
	if f.Duration != nil {
		d.Duration = strings.TrimSpace(*f.Duration)
	}
	if f.ImagePath != nil {
		d.ImagePath = *f.ImagePath
	}
	if f.BrochurePath != nil {
		d.BrochurePath = *f.BrochurePath
	}
	if f.IsHidden != nil {
		d.IsHidden = *f.IsHidden
	}
	if f.MoreDestination != nil {
		d.MoreDestination = *f.MoreDestination
	}

	if d.Title == "" {
		return apperr.Validation("title", "is required")
	}
	if d.Duration == "" {
		return apperr.Validation("duration", "is required")
	}
	if d.Price < 0 {
		return apperr.Validation("price", "must not be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, f Fields) (*models.Destination, error) {
	var d models.Destination
	if f.Price == nil {
		return nil, apperr.Validation("price", "is required")
	}
	if err := f.apply(&d); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, s.storage("create destination", err)
	}
	return &d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Destination, error) {
	var d models.Destination
	err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Destination not found")
	}
	if err != nil {
		return nil, s.storage("load destination", err)
	}
	return &d, nil
}

// ListVisible is the public listing; hidden destinations are left out.
func (s *Service) ListVisible(ctx context.Context) ([]models.Destination, error) {
	return s.list(s.db.WithContext(ctx).Where("is_hidden = ?", false))
}

func (s *Service) ListAll(ctx context.Context) ([]models.Destination, error) {
	return s.list(s.db.WithContext(ctx))
}

func (s *Service) list(q *gorm.DB) ([]models.Destination, error) {
	out := []models.Destination{}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, s.storage("list destinations", err)
	}
	return out, nil
}

// Update applies the non-nil fields; absent fields keep their stored value.
func (s *Service) Update(ctx context.Context, id string, f Fields) (*models.Destination, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.apply(d); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(d).Error; err != nil {
		return nil, s.storage("update destination", err)
	}
	return d, nil
}

// Delete refuses while bookings or reviews still reference the destination.
func (s *Service) Delete(ctx context.Context, id string) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	for _, ref := range []struct {
		model any
		what  string
	}{
		{&models.Booking{}, "bookings"},
		{&models.Review{}, "reviews"},
	} {
		var n int64
		if err := db.Model(ref.model).Where("destination_id = ?", d.ID).Count(&n).Error; err != nil {
			return s.storage("count "+ref.what, err)
		}
		if n > 0 {
			return apperr.Conflict("Destination has " + ref.what + "; hide it instead")
		}
	}

	if err := db.Delete(&models.Destination{}, "id = ?", d.ID).Error; err != nil {
		return s.storage("delete destination", err)
	}
	return nil
}

func (s *Service) storage(op string, err error) error {
	s.log.Error("catalog storage failure", zap.String("op", op), zap.Error(err))
	return apperr.Storage(op, err)
}
