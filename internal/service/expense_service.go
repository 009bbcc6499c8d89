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

const expenseCacheTTL = 5 * time.Minute

// ExpenseInput is a candidate expense payload as received from the
// client, before any rule has been checked.
type ExpenseInput struct {
	UserID      string
	Title       string
	Amount      decimal.Decimal
	Date        string
	Category    string
	Description string
}

// CategorySummary is the per-category breakdown of one calendar month.
type CategorySummary struct {
	Month      string                `json:"month"`
	Total      decimal.Decimal       `json:"total"`
	Categories []model.CategoryTotal `json:"categories"`
}

// ExpenseService exposes expense operations.
type ExpenseService interface {
	Create(ctx context.Context, in ExpenseInput) (*model.Expense, error)
	Update(ctx context.Context, id uuid.UUID, in ExpenseInput) (*model.Expense, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, f filter.Expenses) ([]model.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DateRange(ctx context.Context, userID uuid.UUID, start, end *model.Date) ([]model.Expense, error)
	CategorySummary(ctx context.Context, userID uuid.UUID, month time.Time) (*CategorySummary, error)
}

type expenseService struct {
	expenses repository.ExpenseRepository
	users    repository.UserRepository
	cache    *cache.Client
}

// NewExpenseService builds an ExpenseService.
func NewExpenseService(expenses repository.ExpenseRepository, users repository.UserRepository, cache *cache.Client) ExpenseService {
	return &expenseService{expenses: expenses, users: users, cache: cache}
}

// expenseCacheKey is shared with the user service, which purges owned
// expense entries when a user is deleted or renamed.
func expenseCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("expense:%s", id)
}

// expenseCacheEntry carries the owner's username alongside the record,
// which the Expense JSON form drops.
type expenseCacheEntry struct {
	Expense  model.Expense `json:"expense"`
	Username string        `json:"username"`
}

func (s *expenseService) Create(ctx context.Context, in ExpenseInput) (*model.Expense, error) {
	expense, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) Update(ctx context.Context, id uuid.UUID, in ExpenseInput) (*model.Expense, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	validated, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	existing.UserID = validated.UserID
	existing.User = validated.User
	existing.Title = validated.Title
	existing.Amount = validated.Amount
	existing.Date = validated.Date
	existing.Category = validated.Category
	existing.Description = validated.Description
	if err := s.expenses.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, expenseCacheKey(id))
	return existing, nil
}

func (s *expenseService) Get(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var cached expenseCacheEntry
	if s.cache.GetJSON(ctx, expenseCacheKey(id), &cached) {
		expense := cached.Expense
		expense.User = model.User{ID: expense.UserID, Username: cached.Username}
		return &expense, nil
	}

	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrExpenseNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, expenseCacheKey(id), expenseCacheEntry{
		Expense:  *expense,
		Username: expense.User.Username,
	}, expenseCacheTTL)
	return expense, nil
}

func (s *expenseService) List(ctx context.Context, f filter.Expenses) ([]model.Expense, error) {
	return s.expenses.List(ctx, f)
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, expenseCacheKey(id))
	return nil
}

// DateRange lists a user's expenses with date inside the inclusive
// [start, end] window. Either bound may be nil. An inverted window
// simply matches nothing.
func (s *expenseService) DateRange(ctx context.Context, userID uuid.UUID, start, end *model.Date) ([]model.Expense, error) {
	f := filter.Expenses{
		UserID:    &userID,
		StartDate: start,
		EndDate:   end,
	}
	return s.expenses.List(ctx, f)
}

// CategorySummary totals a user's expenses for one calendar month,
// grouped by category. A month with no expenses yields a zero total and
// an empty category list.
func (s *expenseService) CategorySummary(ctx context.Context, userID uuid.UUID, month time.Time) (*CategorySummary, error) {
	from := model.NewDate(month.Year(), month.Month(), 1)
	window := repository.DateWindow{
		From:  from,
		Until: model.Date{Time: from.AddDate(0, 1, 0)},
	}

	total, err := s.expenses.SumAmount(ctx, userID, window)
	if err != nil {
		return nil, fmt.Errorf("sum month: %w", err)
	}
	categories, err := s.expenses.CategoryTotals(ctx, userID, window)
	if err != nil {
		return nil, fmt.Errorf("month breakdown: %w", err)
	}
	if categories == nil {
		categories = []model.CategoryTotal{}
	}

	return &CategorySummary{
		Month:      fmt.Sprintf("%04d-%02d", month.Year(), int(month.Month())),
		Total:      total,
		Categories: categories,
	}, nil
}
