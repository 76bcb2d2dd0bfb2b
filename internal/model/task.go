package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a single to-do record. CreatedAt and UpdatedAt are managed by the
// store: both set on insert, UpdatedAt refreshed on every save.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	DueDate     *time.Time
	Priority    int  `gorm:"not null"`
	Completed   bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns the id. Done in-process rather than by a database
// default so the model behaves the same under every driver.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
