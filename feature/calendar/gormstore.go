package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventModel is the persisted calendar event.
type EventModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"size:255"`
	Description string    `gorm:"type:text"`
	StartAt     time.Time `gorm:"index"`
	EndAt       time.Time
	CreatedAt   time.Time
}

// TableName implements the gorm naming hook.
func (EventModel) TableName() string { return "calendar_events" }

// GormCalendar stores events in a relational table.
type GormCalendar struct {
	db *gorm.DB
}

// NewGormCalendar creates a calendar over the given database handle.
func NewGormCalendar(db *gorm.DB) *GormCalendar {
	return &GormCalendar{db: db}
}

// Migrate creates the event table when it does not exist yet.
func (c *GormCalendar) Migrate() error {
	if err := c.db.AutoMigrate(&EventModel{}); err != nil {
		return fmt.Errorf("failed to migrate calendar events table: %w", err)
	}
	return nil
}

func (c *GormCalendar) CreateEvent(ctx context.Context, ev Event) (string, error) {
	model := EventModel{
		ID:          uuid.NewString(),
		Title:       ev.Title,
		Description: ev.Description,
		StartAt:     ev.Start,
		EndAt:       ev.End,
	}
	if err := c.db.WithContext(ctx).Create(&model).Error; err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	return model.ID, nil
}

func (c *GormCalendar) EventByID(ctx context.Context, id string) (*Event, error) {
	var model EventModel
	err := c.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up calendar event %s: %w", id, err)
	}
	return &Event{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Start:       model.StartAt,
		End:         model.EndAt,
	}, nil
}

func (c *GormCalendar) DeleteEvent(ctx context.Context, id string) error {
	if err := c.db.WithContext(ctx).Delete(&EventModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete calendar event %s: %w", id, err)
	}
	return nil
}
