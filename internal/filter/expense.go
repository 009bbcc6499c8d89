// Package filter translates query parameters into conjunctive predicate
// sets applied to collections as GORM scopes. Unrecognized parameters are
// ignored; malformed values of recognized parameters are rejected.
package filter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendtrack/internal/model"
)

// expenseOrderings whitelists client-selectable sort keys for expenses.
var expenseOrderings = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"category":   "category",
	"created_at": "created_at",
}

// Expenses is a conjunctive predicate set over the expense collection.
// Nil fields impose no constraint.
type Expenses struct {
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	StartDate *model.Date
	EndDate   *model.Date
	Category  *model.Category
	UserID    *uuid.UUID
	Search    string
	ordering  string
}

// ExpensesFromQuery parses the recognized expense query parameters.
// A malformed value of a recognized parameter is a client error.
func ExpensesFromQuery(q url.Values) (Expenses, error) {
	var f Expenses

	if v := q.Get("min_amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, fmt.Errorf("invalid min_amount %q", v)
		}
		f.MinAmount = &d
	}
	if v := q.Get("max_amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, fmt.Errorf("invalid max_amount %q", v)
		}
		f.MaxAmount = &d
	}
	if v := q.Get("start_date"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("invalid start_date %q, use YYYY-MM-DD", v)
		}
		f.StartDate = &d
	}
	if v := q.Get("end_date"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("invalid end_date %q, use YYYY-MM-DD", v)
		}
		f.EndDate = &d
	}
	if v := q.Get("category"); v != "" {
		c := model.Category(v)
		if !c.Valid() {
			return f, fmt.Errorf("invalid category %q", v)
		}
		f.Category = &c
	}
	if v := q.Get("user"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, fmt.Errorf("invalid user %q", v)
		}
		f.UserID = &id
	}
	f.Search = q.Get("search")
	f.ordering = orderClause(q.Get("ordering"), expenseOrderings, "date DESC, created_at DESC")
	return f, nil
}

// OrderBy returns the SQL ORDER BY clause selected by the client.
func (f Expenses) OrderBy() string {
	if f.ordering == "" {
		return "date DESC, created_at DESC"
	}
	return f.ordering
}

// Scope applies every set predicate conjunctively.
func (f Expenses) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.MinAmount != nil {
			db = db.Where("amount >= ?", *f.MinAmount)
		}
		if f.MaxAmount != nil {
			db = db.Where("amount <= ?", *f.MaxAmount)
		}
		if f.StartDate != nil {
			db = db.Where("date >= ?", *f.StartDate)
		}
		if f.EndDate != nil {
			db = db.Where("date <= ?", *f.EndDate)
		}
		if f.Category != nil {
			db = db.Where("category = ?", *f.Category)
		}
		if f.UserID != nil {
			db = db.Where("user_id = ?", *f.UserID)
		}
		if f.Search != "" {
			like := "%" + f.Search + "%"
			db = db.Where("title LIKE ? OR description LIKE ?", like, like)
		}
		return db
	}
}

// orderClause resolves an ordering parameter ("-date", "amount", ...)
// against a whitelist. Unknown keys fall back to the default, matching
// how the listing endpoints ignore unsupported sort requests.
func orderClause(param string, allowed map[string]string, def string) string {
	if param == "" {
		return def
	}
	direction := "ASC"
	key := param
	if strings.HasPrefix(param, "-") {
		direction = "DESC"
		key = param[1:]
	}
	col, ok := allowed[key]
	if !ok {
		return def
	}
	return col + " " + direction
}
