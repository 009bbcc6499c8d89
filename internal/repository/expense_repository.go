package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendtrack/internal/filter"
	"spendtrack/internal/model"
)

// ExpenseRepository defines expense persistence and aggregation operations.
// Aggregations run in SQL over the decimal column, never through floats.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, f filter.Expenses) ([]model.Expense, error)
	IDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	SumAmount(ctx context.Context, userID uuid.UUID, window DateWindow) (decimal.Decimal, error)
	CategoryTotals(ctx context.Context, userID uuid.UUID, window DateWindow) ([]model.CategoryTotal, error)
}

// DateWindow restricts an aggregation to from <= date < until.
// Zero bounds impose no constraint.
type DateWindow struct {
	From  model.Date
	Until model.Date
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository builds a GORM-backed repository.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Expense{}).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, f filter.Expenses) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).
		Preload("User").
		Scopes(f.Scope()).
		Order(f.OrderBy()).
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

// IDsByUser lists the ids of every expense the user owns.
func (r *expenseRepository) IDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *expenseRepository) windowed(ctx context.Context, userID uuid.UUID, window DateWindow) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Expense{}).Where("user_id = ?", userID)
	if !window.From.IsZero() {
		q = q.Where("date >= ?", window.From)
	}
	if !window.Until.IsZero() {
		q = q.Where("date < ?", window.Until)
	}
	return q
}

// SumAmount totals a user's expenses within the window. An empty set
// sums to zero.
func (r *expenseRepository) SumAmount(ctx context.Context, userID uuid.UUID, window DateWindow) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.windowed(ctx, userID, window).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// CategoryTotals groups a user's expenses by category within the window,
// ordered by descending total. Equal totals fall back to category code so
// the ordering stays deterministic.
func (r *expenseRepository) CategoryTotals(ctx context.Context, userID uuid.UUID, window DateWindow) ([]model.CategoryTotal, error) {
	var totals []model.CategoryTotal
	err := r.windowed(ctx, userID, window).
		Select("category, SUM(amount) AS total, COUNT(*) AS count").
		Group("category").
		Order("total DESC, category ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
