package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kbukum/modeloptions/owner"
)

// Model carries the identity and timestamps of every table row.
type Model struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate generates a UUID if not already set.
func (m *Model) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Option is one persisted key/value pair of one owner instance. Value holds
// the text form produced by sniff.Format.
type Option struct {
	Model
	OwnerType string `gorm:"size:255;not null;uniqueIndex:idx_model_options_owner_key,priority:1" json:"owner_type"`
	OwnerID   string `gorm:"size:255;not null;uniqueIndex:idx_model_options_owner_key,priority:2" json:"owner_id"`
	Key       string `gorm:"size:255;not null;uniqueIndex:idx_model_options_owner_key,priority:3" json:"key"`
	Value     string `gorm:"size:255;not null" json:"value"`
}

// TableName pins the table name shared with the SQL migrations.
func (Option) TableName() string { return "model_options" }

// Ref returns the owner the option belongs to.
func (o Option) Ref() owner.Ref {
	return owner.Ref{Type: o.OwnerType, ID: o.OwnerID}
}

// String returns the stored text value.
func (o Option) String() string { return o.Value }
