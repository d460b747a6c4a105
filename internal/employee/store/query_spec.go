package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"employee-api/internal/employee/models"
)

// Scope is a reusable predicate fragment. Scopes compose with gorm's
// DB.Scopes and are applied in order.
type Scope func(*gorm.DB) *gorm.DB

// HasEmail matches email ignoring case. Both sides are folded with the
// database's LOWER so every mechanism agrees on what "ignoring case" means.
func HasEmail(email string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Expr{SQL: "LOWER(email) = LOWER(?)", Vars: []any{email}})
	}
}

// NameContains matches first or last name containing name, ignoring case.
func NameContains(name string) Scope {
	pattern := containsPattern(name)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Or(
			clause.Expr{SQL: `LOWER(first_name) LIKE LOWER(?) ESCAPE '\'`, Vars: []any{pattern}},
			clause.Expr{SQL: `LOWER(last_name) LIKE LOWER(?) ESCAPE '\'`, Vars: []any{pattern}},
		))
	}
}

// OrderByID keeps result order stable across dialects.
func OrderByID() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}
}

// SpecQuery expresses searches by composing scopes. Its name predicate is a
// substring match, unlike the exact match of the other mechanisms.
type SpecQuery struct {
	db *gorm.DB
}

// NewSpecQuery constructs the composable-predicate mechanism.
func NewSpecQuery(db *gorm.DB) *SpecQuery {
	return &SpecQuery{db: db}
}

// FindAll returns every employee matching all scopes.
func (q *SpecQuery) FindAll(ctx context.Context, scopes ...Scope) ([]*models.Employee, error) {
	fns := make([]func(*gorm.DB) *gorm.DB, len(scopes))
	for i, s := range scopes {
		fns[i] = s
	}
	var rows []*models.Employee
	if err := q.db.WithContext(ctx).Scopes(fns...).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("spec query: %w", err)
	}
	return rows, nil
}

// FindOne returns the single employee matching all scopes.
func (q *SpecQuery) FindOne(ctx context.Context, scopes ...Scope) (*models.Employee, error) {
	rows, err := q.FindAll(ctx, append(scopes, limit(2))...)
	if err != nil {
		return nil, err
	}
	return single(rows)
}

func (q *SpecQuery) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return q.FindOne(ctx, HasEmail(email))
}

func (q *SpecQuery) FindByName(ctx context.Context, name string) ([]*models.Employee, error) {
	return q.FindAll(ctx, NameContains(name), OrderByID())
}

func limit(n int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(n)
	}
}
