package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendtrack/internal/errors"
	"spendtrack/internal/model"
)

const maxTitleLength = 200

// validate checks every rule on the candidate payload and collects all
// violations before reporting, so the caller sees the complete field map
// in one round trip. On success it returns the normalized record with
// the owning user resolved.
func (s *expenseService) validate(ctx context.Context, in ExpenseInput) (*model.Expense, error) {
	ferr := errors.FieldErrors{}

	var owner *model.User
	userID, err := uuid.Parse(in.UserID)
	if err != nil {
		ferr["user"] = "Invalid user id."
	} else {
		owner, err = s.users.FindByID(ctx, userID)
		if err == gorm.ErrRecordNotFound {
			ferr["user"] = "User does not exist."
		} else if err != nil {
			return nil, err
		}
	}

	if in.Title == "" {
		ferr["title"] = "This field is required."
	} else if len(in.Title) > maxTitleLength {
		ferr["title"] = "Ensure this field has no more than 200 characters."
	}

	if !in.Amount.GreaterThan(decimal.Zero) {
		ferr["amount"] = "Amount must be greater than 0."
	} else if in.Amount.Exponent() < -2 {
		ferr["amount"] = "Ensure that there are no more than 2 decimal places."
	}

	var date model.Date
	if in.Date == "" {
		ferr["date"] = "This field is required."
	} else if date, err = model.ParseDate(in.Date); err != nil {
		ferr["date"] = "Invalid date format. Use YYYY-MM-DD."
	} else if date.After(model.Today().Time) {
		ferr["date"] = "Date cannot be in the future."
	}

	category := model.Category(in.Category)
	if !category.Valid() {
		ferr["category"] = "Not a valid category."
	}

	if len(ferr) > 0 {
		return nil, ferr
	}

	expense := &model.Expense{
		UserID:      userID,
		User:        *owner,
		Title:       in.Title,
		Amount:      in.Amount,
		Date:        date,
		Category:    category,
		Description: in.Description,
	}
	return expense, nil
}
