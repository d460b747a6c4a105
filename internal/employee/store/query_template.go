package store

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"employee-api/internal/employee/models"
)

// Query templates. Named parameters are bound by GORM, which rewrites them
// into the dialect's placeholders.
const (
	templateByEmail = `SELECT * FROM employees WHERE LOWER(email) = LOWER(@email) LIMIT 2`
	templateByName  = `SELECT * FROM employees WHERE LOWER(first_name) = LOWER(@name) OR LOWER(last_name) = LOWER(@name) ORDER BY id`
)

// TemplateQuery expresses searches as query strings with named parameters.
type TemplateQuery struct {
	db *gorm.DB
}

// NewTemplateQuery constructs the templated-query mechanism.
func NewTemplateQuery(db *gorm.DB) *TemplateQuery {
	return &TemplateQuery{db: db}
}

func (q *TemplateQuery) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var rows []*models.Employee
	if err := q.db.WithContext(ctx).Raw(templateByEmail, sql.Named("email", email)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("template query by email: %w", err)
	}
	return single(rows)
}

func (q *TemplateQuery) FindByName(ctx context.Context, name string) ([]*models.Employee, error) {
	var rows []*models.Employee
	if err := q.db.WithContext(ctx).Raw(templateByName, sql.Named("name", name)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("template query by name: %w", err)
	}
	return rows, nil
}
