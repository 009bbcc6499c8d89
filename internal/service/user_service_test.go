package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"spendtrack/internal/errors"
	"spendtrack/internal/model"
	"spendtrack/internal/repository"
)

func TestUserService_Create(t *testing.T) {
	tests := []struct {
		name       string
		input      UserInput
		setupMock  func(*MockUserRepository)
		wantFields []string
	}{
		{
			name:  "successful creation",
			input: UserInput{Username: "alice", Email: "alice@example.com"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "duplicate email rejected even with new username",
			input: UserInput{Username: "fresh", Email: "taken@example.com"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "fresh").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByEmail", mock.Anything, "taken@example.com").
					Return(&model.User{ID: uuid.New(), Email: "taken@example.com"}, nil)
			},
			wantFields: []string{"email"},
		},
		{
			name:  "duplicate username rejected",
			input: UserInput{Username: "taken", Email: "fresh@example.com"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "taken").
					Return(&model.User{ID: uuid.New(), Username: "taken"}, nil)
				m.On("FindByEmail", mock.Anything, "fresh@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			wantFields: []string{"username"},
		},
		{
			name:  "both duplicates reported together",
			input: UserInput{Username: "taken", Email: "taken@example.com"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "taken").
					Return(&model.User{ID: uuid.New(), Username: "taken"}, nil)
				m.On("FindByEmail", mock.Anything, "taken@example.com").
					Return(&model.User{ID: uuid.New(), Email: "taken@example.com"}, nil)
			},
			wantFields: []string{"username", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			expenseRepo := new(MockExpenseRepository)
			tt.setupMock(userRepo)

			svc := NewUserService(userRepo, expenseRepo, nil)
			user, err := svc.Create(context.Background(), tt.input)

			if len(tt.wantFields) > 0 {
				assert.Nil(t, user)
				var ferr errors.FieldErrors
				assert.ErrorAs(t, err, &ferr)
				assert.Len(t, ferr, len(tt.wantFields))
				for _, field := range tt.wantFields {
					assert.Contains(t, ferr, field)
				}
				userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.input.Username, user.Username)
				assert.Equal(t, tt.input.Email, user.Email)
			}
			userRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Create_RacingDuplicate(t *testing.T) {
	// The store's unique index is the real enforcement: a create that
	// passed the pre-checks can still collide and must come back as a
	// field error, not an internal fault.
	userRepo := new(MockUserRepository)
	expenseRepo := new(MockExpenseRepository)

	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound).Once()
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound).Once()
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(&model.User{ID: uuid.New(), Email: "alice@example.com"}, nil).Once()

	svc := NewUserService(userRepo, expenseRepo, nil)
	user, err := svc.Create(context.Background(), UserInput{Username: "alice", Email: "alice@example.com"})

	assert.Nil(t, user)
	var ferr errors.FieldErrors
	assert.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr, "email")
}

func TestUserService_Statistics(t *testing.T) {
	userID := uuid.New()
	user := &model.User{ID: userID, Username: "alice", Email: "alice@example.com"}

	tests := []struct {
		name      string
		setupMock func(*MockUserRepository, *MockExpenseRepository)
		wantTotal string
		wantLen   int
		wantErr   error
	}{
		{
			name: "breakdown sorted by descending total",
			setupMock: func(users *MockUserRepository, expenses *MockExpenseRepository) {
				users.On("FindByID", mock.Anything, userID).Return(user, nil)
				expenses.On("SumAmount", mock.Anything, userID, repository.DateWindow{}).
					Return(decimal.RequireFromString("105.50"), nil)
				expenses.On("CategoryTotals", mock.Anything, userID, repository.DateWindow{}).
					Return([]model.CategoryTotal{
						{Category: model.CategoryRent, Total: decimal.RequireFromString("80.00"), Count: 1},
						{Category: model.CategoryFood, Total: decimal.RequireFromString("25.50"), Count: 2},
					}, nil)
			},
			wantTotal: "105.5",
			wantLen:   2,
		},
		{
			name: "no expenses yields zero total",
			setupMock: func(users *MockUserRepository, expenses *MockExpenseRepository) {
				users.On("FindByID", mock.Anything, userID).Return(user, nil)
				expenses.On("SumAmount", mock.Anything, userID, repository.DateWindow{}).
					Return(decimal.Zero, nil)
				expenses.On("CategoryTotals", mock.Anything, userID, repository.DateWindow{}).
					Return(nil, nil)
			},
			wantTotal: "0",
			wantLen:   0,
		},
		{
			name: "unknown user",
			setupMock: func(users *MockUserRepository, expenses *MockExpenseRepository) {
				users.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: errors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			expenseRepo := new(MockExpenseRepository)
			tt.setupMock(userRepo, expenseRepo)

			svc := NewUserService(userRepo, expenseRepo, nil)
			stats, err := svc.Statistics(context.Background(), userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, stats)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, stats.TotalExpenses.String())
			assert.NotNil(t, stats.CategoryBreakdown)
			assert.Len(t, stats.CategoryBreakdown, tt.wantLen)
			expenseRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Delete_Cascades(t *testing.T) {
	userID := uuid.New()
	user := &model.User{ID: userID, Username: "alice"}

	// Owned expense ids are collected before the cascade runs so their
	// cache entries can be purged; a surviving entry would keep serving
	// a record the store no longer holds.
	userRepo := new(MockUserRepository)
	expenseRepo := new(MockExpenseRepository)
	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	expenseRepo.On("IDsByUser", mock.Anything, userID).Return([]uuid.UUID{uuid.New(), uuid.New()}, nil)
	userRepo.On("Delete", mock.Anything, userID).Return(nil)

	svc := NewUserService(userRepo, expenseRepo, nil)
	err := svc.Delete(context.Background(), userID)

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
	expenseRepo.AssertExpectations(t)
}

func TestUserService_Update_InvalidatesOwnedExpenses(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		input      UserInput
		wantsPurge bool
	}{
		{
			name:       "rename purges cached expense records",
			input:      UserInput{Username: "alice2", Email: "alice@example.com"},
			wantsPurge: true,
		},
		{
			name:       "email-only change leaves them alone",
			input:      UserInput{Username: "alice", Email: "new@example.com"},
			wantsPurge: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &model.User{ID: userID, Username: "alice", Email: "alice@example.com"}
			userRepo := new(MockUserRepository)
			expenseRepo := new(MockExpenseRepository)
			userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
			userRepo.On("FindByUsername", mock.Anything, tt.input.Username).Return(user, nil)
			userRepo.On("FindByEmail", mock.Anything, tt.input.Email).Return(user, nil)
			userRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			if tt.wantsPurge {
				expenseRepo.On("IDsByUser", mock.Anything, userID).Return([]uuid.UUID{uuid.New()}, nil)
			}

			svc := NewUserService(userRepo, expenseRepo, nil)
			updated, err := svc.Update(context.Background(), userID, tt.input)

			assert.NoError(t, err)
			assert.Equal(t, tt.input.Username, updated.Username)
			if tt.wantsPurge {
				expenseRepo.AssertExpectations(t)
			} else {
				expenseRepo.AssertNotCalled(t, "IDsByUser", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	expenseRepo := new(MockExpenseRepository)
	id := uuid.New()
	userRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(userRepo, expenseRepo, nil)
	user, err := svc.Get(context.Background(), id)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}
