package store

import (
	"context"
	"database/sql"
	"fmt"

	"employee-api/internal/employee/models"
)

// Native statements use PostgreSQL positional parameters, which SQLite also
// accepts.
const (
	nativeColumns = `id, first_name, last_name, email, phone, address`
	nativeByEmail = `SELECT ` + nativeColumns + ` FROM employees WHERE LOWER(email) = LOWER($1) LIMIT 2`
	nativeByName  = `SELECT ` + nativeColumns + ` FROM employees WHERE LOWER(first_name) = LOWER($1) OR LOWER(last_name) = LOWER($1) ORDER BY id`
)

// NativeQuery runs literal SQL on the underlying pool and scans rows by hand.
type NativeQuery struct {
	db *sql.DB
}

// NewNativeQuery constructs the raw-SQL mechanism.
func NewNativeQuery(db *sql.DB) *NativeQuery {
	return &NativeQuery{db: db}
}

func (q *NativeQuery) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	rows, err := q.query(ctx, nativeByEmail, email)
	if err != nil {
		return nil, fmt.Errorf("native query by email: %w", err)
	}
	return single(rows)
}

func (q *NativeQuery) FindByName(ctx context.Context, name string) ([]*models.Employee, error) {
	rows, err := q.query(ctx, nativeByName, name)
	if err != nil {
		return nil, fmt.Errorf("native query by name: %w", err)
	}
	return rows, nil
}

func (q *NativeQuery) query(ctx context.Context, query string, args ...any) ([]*models.Employee, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.Address); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
