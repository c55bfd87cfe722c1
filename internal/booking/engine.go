// Package booking owns the booking lifecycle: validation, pricing, reference
// generation, cancellation and special-request amendment.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/apperr"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/database"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/events"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/metrics"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaxRefAttempts         = 5
	MaxSpecialRequestsSize = 1000
	travelDateLayout       = "2006-01-02"
)

var errRefsExhausted = errors.New("booking reference attempts exhausted")

type Engine struct {
	db        *gorm.DB
	publisher events.Publisher
	log       *zap.Logger
	newRef    func() (string, error)
}

func NewEngine(db *gorm.DB, publisher events.Publisher, log *zap.Logger) *Engine {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, publisher: publisher, log: log, newRef: NewReference}
}

type CreateParams struct {
	DestinationID   string
	PackageType     models.PackageType
	Travelers       []models.Traveler
	TravelDate      string
	PersonalInfo    models.PersonalInfo
	UPIID           string
	SpecialRequests string
}

func validGender(g string) bool {
	for _, allowed := range models.Genders {
		if g == allowed {
			return true
		}
	}
	return false
}

func (p *CreateParams) validate() error {
	if strings.TrimSpace(p.DestinationID) == "" {
		return apperr.Validation("destinationId", "is required")
	}
	switch p.PackageType {
	case "":
		p.PackageType = models.PackageStandard
	case models.PackageStandard, models.PackageDeluxe, models.PackagePremium:
	default:
		return apperr.Validation("packageType", "must be one of Standard, Deluxe, Premium")
	}
	if len(p.Travelers) == 0 {
		return apperr.Validation("travelers", "at least one traveler is required")
	}
	for i, tr := range p.Travelers {
		field := fmt.Sprintf("travelers[%d]", i)
		if strings.TrimSpace(tr.Name) == "" {
			return apperr.Validation(field+".name", "is required")
		}
		if tr.Age < 0 {
			return apperr.Validation(field+".age", "must not be negative")
		}
		if !validGender(tr.Gender) {
			return apperr.Validation(field+".gender", "must be one of Male, Female, Other")
		}
	}
	if p.TravelDate == "" {
		return apperr.Validation("travelDate", "is required")
	}
	if _, err := time.Parse(travelDateLayout, p.TravelDate); err != nil {
		return apperr.Validation("travelDate", "must be a date in YYYY-MM-DD format")
	}
	info := map[string]string{
		"phone": p.PersonalInfo.Phone,
		"state": p.PersonalInfo.State,
		"city":  p.PersonalInfo.City,
		"email": p.PersonalInfo.Email,
		"pin":   p.PersonalInfo.Pin,
	}
	for _, name := range []string{"phone", "state", "city", "email", "pin"} {
		if strings.TrimSpace(info[name]) == "" {
			return apperr.Validation("personalInfo."+name, "is required")
		}
	}
	if strings.TrimSpace(p.UPIID) == "" {
		return apperr.Validation("upiId", "is required")
	}
	if utf8.RuneCountInString(p.SpecialRequests) > MaxSpecialRequestsSize {
		return apperr.Validation("specialRequests", fmt.Sprintf("must be at most %d characters", MaxSpecialRequestsSize))
	}
	return nil
}

// Create prices and persists a booking for ownerID. A reference collision on insert
// is retried with a fresh reference up to MaxRefAttempts times.
func (e *Engine) Create(ctx context.Context, ownerID string, p CreateParams) (*models.Booking, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var dest models.Destination
	if err := e.db.WithContext(ctx).First(&dest, "id = ?", p.DestinationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Destination not found")
		}
		return nil, e.storage("load destination", err)
	}

	b := models.Booking{
		UserID:          ownerID,
		DestinationID:   dest.ID,
		PackageType:     p.PackageType,
		Travelers:       datatypes.NewJSONSlice(p.Travelers),
		TravelDate:      p.TravelDate,
		PersonalInfo:    p.PersonalInfo,
		UPIID:           strings.TrimSpace(p.UPIID),
		SpecialRequests: p.SpecialRequests,
		TotalPrice:      TotalPrice(dest.Price, len(p.Travelers), p.PackageType),
	}

	if err := e.insertWithFreshRef(ctx, &b); err != nil {
		return nil, err
	}
	b.Destination = &dest

	metrics.BookingsCreated.WithLabelValues(string(b.PackageType)).Inc()
	e.publish(ctx, bookingEvent(events.BookingCreated, &b))
	return &b, nil
}

func (e *Engine) insertWithFreshRef(ctx context.Context, b *models.Booking) error {
	for attempt := 1; attempt <= MaxRefAttempts; attempt++ {
		ref, err := e.newRef()
		if err != nil {
			return e.storage("generate booking reference", err)
		}
		b.ID = ""
		b.BookingRef = ref

		err = e.db.WithContext(ctx).Create(b).Error
		if err == nil {
			return nil
		}
		if !database.IsDuplicateKey(err) {
			return e.storage("create booking", err)
		}
		metrics.BookingRefCollisions.Inc()
		e.log.Warn("booking reference collision", zap.String("booking_ref", ref), zap.Int("attempt", attempt))
	}
	return e.storage("create booking", errRefsExhausted)
}

// ListOwn returns userID's bookings, newest first, with destinations joined.
func (e *Engine) ListOwn(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := e.db.WithContext(ctx).
		Preload("Destination").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, e.storage("list own bookings", err)
	}
	return bookings, nil
}

func (e *Engine) ListAll(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := e.db.WithContext(ctx).
		Preload("Destination").
		Preload("User").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, e.storage("list all bookings", err)
	}
	return bookings, nil
}

// findOwned treats absent and not-owned bookings the same way.
func (e *Engine) findOwned(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	var b models.Booking
	err := e.db.WithContext(ctx).
		Preload("Destination").
		Where("id = ? AND user_id = ?", bookingID, userID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Booking not found")
	}
	if err != nil {
		return nil, e.storage("load booking", err)
	}
	return &b, nil
}

func (e *Engine) Cancel(ctx context.Context, userID, bookingID string) error {
	b, err := e.findOwned(ctx, userID, bookingID)
	if err != nil {
		return err
	}

	res := e.db.WithContext(ctx).Where("id = ? AND user_id = ?", b.ID, userID).Delete(&models.Booking{})
	if res.Error != nil {
		return e.storage("cancel booking", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Booking not found")
	}

	metrics.BookingsCancelled.Inc()
	e.publish(ctx, bookingEvent(events.BookingCancelled, b))
	return nil
}

// AmendSpecialRequests replaces only the special requests of an owned booking.
func (e *Engine) AmendSpecialRequests(ctx context.Context, userID, bookingID, text string) (*models.Booking, error) {
	if utf8.RuneCountInString(text) > MaxSpecialRequestsSize {
		return nil, apperr.Validation("specialRequests", fmt.Sprintf("must be at most %d characters", MaxSpecialRequestsSize))
	}

	b, err := e.findOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	res := e.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND user_id = ?", b.ID, userID).
		Update("special_requests", text)
	if res.Error != nil {
		return nil, e.storage("amend booking", res.Error)
	}
	// Cancelled after the lookup.
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Booking not found")
	}
	b.SpecialRequests = text

	e.publish(ctx, bookingEvent(events.BookingAmended, b))
	return b, nil
}

func (e *Engine) storage(op string, err error) error {
	e.log.Error("booking storage failure", zap.String("op", op), zap.Error(err))
	return apperr.Storage(op, err)
}

func (e *Engine) publish(ctx context.Context, ev events.Event) {
	if err := e.publisher.Publish(ctx, ev); err != nil {
		e.log.Warn("publish event failed", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}

func bookingEvent(t events.Type, b *models.Booking) events.Event {
	ev := events.Event{
		Type:            t,
		OccurredAt:      time.Now().UTC(),
		UserID:          b.UserID,
		DestinationID:   b.DestinationID,
		BookingID:       b.ID,
		BookingRef:      b.BookingRef,
		PackageType:     string(b.PackageType),
		Travelers:       len(b.Travelers),
		TravelDate:      b.TravelDate,
		TotalPrice:      b.TotalPrice,
		SpecialRequests: b.SpecialRequests,
	}
	if b.Destination != nil {
		ev.DestinationTitle = b.Destination.Title
	}
	return ev
}
