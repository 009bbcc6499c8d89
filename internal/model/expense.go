package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a single spending record owned by exactly one user.
type Expense struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID       `json:"user" gorm:"type:char(36);not null;index:idx_expenses_user_date,priority:1;index:idx_expenses_user_category,priority:1"`
	Title       string          `json:"title" gorm:"size:200;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Date        Date            `json:"date" gorm:"not null;index:idx_expenses_user_date,priority:2"`
	Category    Category        `json:"category" gorm:"type:varchar(20);not null;index:idx_expenses_user_category,priority:2"`
	Description string          `json:"description" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// CategoryTotal is one row of a per-category aggregation: the summed
// amount and record count for a single category.
type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}
