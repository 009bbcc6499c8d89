package main

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendtrack/internal/config"
	"spendtrack/internal/db"
	"spendtrack/internal/model"
	"spendtrack/internal/repository"
)

// seedUser is one demo user with a handful of expenses spread over the
// last weeks, enough to exercise the statistics and summary endpoints.
type seedUser struct {
	username string
	email    string
	expenses []seedExpense
}

type seedExpense struct {
	title    string
	amount   string
	daysAgo  int
	category model.Category
}

var demoUsers = []seedUser{
	{
		username: "alice",
		email:    "alice@example.com",
		expenses: []seedExpense{
			{"Weekly groceries", "82.45", 2, model.CategoryFood},
			{"Monthly rent", "950.00", 5, model.CategoryRent},
			{"Train ticket", "23.90", 5, model.CategoryTransport},
			{"Cinema night", "15.50", 9, model.CategoryEntertainment},
			{"Electricity bill", "64.20", 12, model.CategoryUtilities},
		},
	},
	{
		username: "bob",
		email:    "bob@example.com",
		expenses: []seedExpense{
			{"Lunch with clients", "47.80", 1, model.CategoryFood},
			{"Flight to Berlin", "189.99", 8, model.CategoryTravel},
			{"Textbooks", "120.00", 15, model.CategoryEducation},
			{"Dentist", "75.00", 20, model.CategoryHealthcare},
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Expense{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	users := repository.NewUserRepository(gormDB)
	expenses := repository.NewExpenseRepository(gormDB)
	ctx := context.Background()

	createdUsers, createdExpenses, err := seed(ctx, users, expenses)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Users created: %d", createdUsers)
	log.Printf("  - Expenses created: %d", createdExpenses)
}

// seed inserts the demo data, skipping users that already exist so the
// script stays safe to re-run.
func seed(ctx context.Context, users repository.UserRepository, expenses repository.ExpenseRepository) (int, int, error) {
	createdUsers, createdExpenses := 0, 0
	today := model.Today()

	for _, su := range demoUsers {
		existing, err := users.FindByUsername(ctx, su.username)
		if err != nil && err != gorm.ErrRecordNotFound {
			return createdUsers, createdExpenses, fmt.Errorf("check user %s: %w", su.username, err)
		}
		if existing != nil {
			log.Printf("User %s already exists, skipping", su.username)
			continue
		}

		user := &model.User{Username: su.username, Email: su.email}
		if err := users.Create(ctx, user); err != nil {
			return createdUsers, createdExpenses, fmt.Errorf("create user %s: %w", su.username, err)
		}
		createdUsers++

		for _, se := range su.expenses {
			amount, err := decimal.NewFromString(se.amount)
			if err != nil {
				return createdUsers, createdExpenses, fmt.Errorf("bad amount %s: %w", se.amount, err)
			}
			expense := &model.Expense{
				UserID:   user.ID,
				Title:    se.title,
				Amount:   amount,
				Date:     model.Date{Time: today.AddDate(0, 0, -se.daysAgo)},
				Category: se.category,
			}
			if err := expenses.Create(ctx, expense); err != nil {
				return createdUsers, createdExpenses, fmt.Errorf("create expense %q: %w", se.title, err)
			}
			createdExpenses++
		}
	}

	return createdUsers, createdExpenses, nil
}
