package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage is one accepted contact form submission. The bson keys match the
// documents already stored in the messages collection.
type ContactMessage struct {
	ID        string    `gorm:"type:text;primaryKey" bson:"_id,omitempty" json:"id"`
	Name      string    `gorm:"size:100;not null" bson:"name" json:"name"`
	Email     string    `gorm:"size:255;not null;index" bson:"email" json:"email"`
	Message   string    `gorm:"type:text;not null" bson:"message" json:"message"`
	IP        string    `gorm:"column:ip;not null;index" bson:"ip" json:"ip"`
	UserAgent string    `gorm:"not null" bson:"userAgent" json:"user_agent"`
	CreatedAt time.Time `gorm:"not null" bson:"createdAt" json:"created_at"`
	Read      bool      `gorm:"not null;default:false" bson:"read" json:"read"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
