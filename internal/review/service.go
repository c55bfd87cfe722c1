// Package review implements destination reviews, limited to one per user and
// destination.
package review

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/apperr"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/database"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/events"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/metrics"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MaxCommentLength = 500

type Service struct {
	db        *gorm.DB
	publisher events.Publisher
	log       *zap.Logger
}

func NewService(db *gorm.DB, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, publisher: publisher, log: log}
}

type CreateParams struct {
	DestinationID string
	Rating        *float64
	Categories
	Comment string
}

var errDuplicate = apperr.Conflict("You have already reviewed this destination")

func (s *Service) Create(ctx context.Context, userID string, p CreateParams) (*models.Review, error) {
	if strings.TrimSpace(p.DestinationID) == "" {
		return nil, apperr.Validation("destinationId", "is required")
	}
	comment := strings.TrimSpace(p.Comment)
	if comment == "" {
		return nil, apperr.Validation("comment", "is required")
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return nil, apperr.Validation("comment", "must be at most 500 characters")
	}
	rating, err := Rating(p.Rating, p.Categories)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var dest models.Destination
	if err := db.First(&dest, "id = ?", p.DestinationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Destination not found")
		}
		return nil, s.storage("load destination", err)
	}

	var author models.User
	if err := db.First(&author, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, s.storage("load author", err)
	}

	var existing int64
	if err := db.Model(&models.Review{}).
		Where("destination_id = ? AND user_id = ?", dest.ID, author.ID).
		Count(&existing).Error; err != nil {
		return nil, s.storage("check existing review", err)
	}
	if existing > 0 {
		return nil, errDuplicate
	}

	name := strings.TrimSpace(author.Name)
	if name == "" {
		name = "Anonymous"
	}
	r := models.Review{
		DestinationID:  dest.ID,
		UserID:         author.ID,
		Name:           name,
		Rating:         rating,
		Comment:        comment,
		Food:           p.Food,
		Lodging:        p.Lodging,
		Transportation: p.Transportation,
		Hotels:         p.Hotels,
	}
	if err := db.Create(&r).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, errDuplicate
		}
		return nil, s.storage("create review", err)
	}
	r.Author = &models.Author{ID: author.ID, Name: author.Name, ProfileImage: author.ProfileImage}

	metrics.ReviewsCreated.Inc()
	ev := events.Event{
		Type:             events.ReviewCreated,
		OccurredAt:       time.Now().UTC(),
		UserID:           author.ID,
		DestinationID:    dest.ID,
		DestinationTitle: dest.Title,
		ReviewID:         r.ID,
		ReviewerName:     r.Name,
		Rating:           r.Rating,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("publish event failed", zap.String("type", string(ev.Type)), zap.Error(err))
	}
	return &r, nil
}

// List returns the reviews of a destination, newest first. Name keeps the snapshot
// taken at submission; Author carries the current profile.
func (s *Service) List(ctx context.Context, destinationID string) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("destination_id = ?", destinationID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, s.storage("list reviews", err)
	}
	return reviews, nil
}

func (s *Service) storage(op string, err error) error {
	s.log.Error("review storage failure", zap.String("op", op), zap.Error(err))
	return apperr.Storage(op, err)
}
