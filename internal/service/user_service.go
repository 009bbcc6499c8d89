package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendtrack/internal/cache"
	"spendtrack/internal/errors"
	"spendtrack/internal/filter"
	"spendtrack/internal/model"
	"spendtrack/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserInput is a candidate user payload. Field syntax (presence, email
// shape) is checked at the transport edge; this layer enforces the
// cross-record rules.
type UserInput struct {
	Username string
	Email    string
}

// Statistics is the per-user expense summary.
type Statistics struct {
	TotalExpenses     decimal.Decimal       `json:"total_expenses"`
	CategoryBreakdown []model.CategoryTotal `json:"category_breakdown"`
}

// UserService exposes user operations.
type UserService interface {
	Create(ctx context.Context, in UserInput) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, in UserInput) (*model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, f filter.Users) ([]model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Statistics(ctx context.Context, id uuid.UUID) (*Statistics, error)
}

type userService struct {
	users    repository.UserRepository
	expenses repository.ExpenseRepository
	cache    *cache.Client
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, expenses repository.ExpenseRepository, cache *cache.Client) UserService {
	return &userService{users: users, expenses: expenses, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

// Create validates and stores a new user. Uniqueness is enforced by the
// store's unique indexes; the pre-checks below only attribute the failure
// to a field, and a duplicate-key error from a racing create is
// classified the same way after the fact.
func (s *userService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	if ferr := s.checkUnique(ctx, in, uuid.Nil); len(ferr) > 0 {
		return nil, ferr
	}

	user := &model.User{Username: in.Username, Email: in.Email}
	if err := s.users.Create(ctx, user); err != nil {
		if ferr := s.classifyDuplicate(ctx, err, in, uuid.Nil); ferr != nil {
			return nil, ferr
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, in UserInput) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ferr := s.checkUnique(ctx, in, id); len(ferr) > 0 {
		return nil, ferr
	}

	renamed := user.Username != in.Username
	user.Username = in.Username
	user.Email = in.Email
	if err := s.users.Update(ctx, user); err != nil {
		if ferr := s.classifyDuplicate(ctx, err, in, id); ferr != nil {
			return nil, ferr
		}
		return nil, err
	}
	s.cache.Delete(ctx, s.cacheKey(id))
	if renamed {
		// cached expense records embed the owner's username
		s.purgeExpenseCache(ctx, id)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) List(ctx context.Context, f filter.Users) ([]model.User, error) {
	return s.users.List(ctx, f)
}

// Delete removes the user and, through the cascade, every owned expense.
// Owned ids are collected up front so their cache entries can be purged
// once the cascade has run; otherwise a cached expense would keep serving
// a record the store no longer holds.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	owned, err := s.expenses.IDsByUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, s.cacheKey(id))
	for _, expenseID := range owned {
		s.cache.Delete(ctx, expenseCacheKey(expenseID))
	}
	return nil
}

// purgeExpenseCache drops every cached expense record owned by the user.
// Best effort: a listing failure leaves entries to expire by TTL.
func (s *userService) purgeExpenseCache(ctx context.Context, id uuid.UUID) {
	owned, err := s.expenses.IDsByUser(ctx, id)
	if err != nil {
		return
	}
	for _, expenseID := range owned {
		s.cache.Delete(ctx, expenseCacheKey(expenseID))
	}
}

// Statistics sums all of the user's expenses and breaks them down by
// category, largest total first. A user with no expenses gets a zero
// total and an empty breakdown.
func (s *userService) Statistics(ctx context.Context, id uuid.UUID) (*Statistics, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	total, err := s.expenses.SumAmount(ctx, id, repository.DateWindow{})
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	breakdown, err := s.expenses.CategoryTotals(ctx, id, repository.DateWindow{})
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	if breakdown == nil {
		breakdown = []model.CategoryTotal{}
	}

	return &Statistics{TotalExpenses: total, CategoryBreakdown: breakdown}, nil
}

// checkUnique collects uniqueness violations for username and email,
// skipping the record identified by exclude (the record being updated).
func (s *userService) checkUnique(ctx context.Context, in UserInput, exclude uuid.UUID) errors.FieldErrors {
	ferr := errors.FieldErrors{}
	if existing, err := s.users.FindByUsername(ctx, in.Username); err == nil && existing.ID != exclude {
		ferr["username"] = "A user with that username already exists."
	}
	if existing, err := s.users.FindByEmail(ctx, in.Email); err == nil && existing.ID != exclude {
		ferr["email"] = "This email is already in use."
	}
	return ferr
}

// classifyDuplicate turns a store duplicate-key error into field errors.
// Returns nil when err is not a uniqueness violation.
func (s *userService) classifyDuplicate(ctx context.Context, err error, in UserInput, exclude uuid.UUID) error {
	if err != gorm.ErrDuplicatedKey {
		return nil
	}
	if ferr := s.checkUnique(ctx, in, exclude); len(ferr) > 0 {
		return ferr
	}
	// The conflicting row is gone again; report both candidates.
	return errors.FieldErrors{
		"username": "A user with that username or email already exists.",
		"email":    "A user with that username or email already exists.",
	}
}
