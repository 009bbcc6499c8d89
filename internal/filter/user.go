package filter

import (
	"net/url"

	"gorm.io/gorm"
)

var userOrderings = map[string]string{
	"username":   "username",
	"email":      "email",
	"created_at": "created_at",
}

// Users is the predicate set for the user collection: free-text search
// over username/email plus client-selectable ordering.
type Users struct {
	Search   string
	ordering string
}

// UsersFromQuery parses the recognized user query parameters.
func UsersFromQuery(q url.Values) Users {
	return Users{
		Search:   q.Get("search"),
		ordering: orderClause(q.Get("ordering"), userOrderings, "username ASC"),
	}
}

// OrderBy returns the SQL ORDER BY clause selected by the client.
func (f Users) OrderBy() string {
	if f.ordering == "" {
		return "username ASC"
	}
	return f.ordering
}

// Scope applies the search predicate.
func (f Users) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			like := "%" + f.Search + "%"
			db = db.Where("username LIKE ? OR email LIKE ?", like, like)
		}
		return db
	}
}
