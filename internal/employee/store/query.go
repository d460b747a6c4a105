package store

import (
	"context"
	"strings"

	"employee-api/internal/employee/models"
	"employee-api/pkg/platform/sentinel"
)

// QueryExecutor runs the two search predicates with one query mechanism.
// Implementations must agree on results for exact-match inputs.
type QueryExecutor interface {
	// FindByEmail matches email case-insensitively. It returns
	// sentinel.ErrNotFound for no match and sentinel.ErrNotUnique when more
	// than one row matches.
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	// FindByName matches first or last name, ignoring case.
	FindByName(ctx context.Context, name string) ([]*models.Employee, error)
}

// single enforces the zero-or-one contract of email lookups. Callers fetch at
// most two rows so a duplicate can be detected without reading the table.
func single(rows []*models.Employee) (*models.Employee, error) {
	switch len(rows) {
	case 0:
		return nil, sentinel.ErrNotFound
	case 1:
		return rows[0], nil
	default:
		return nil, sentinel.ErrNotUnique
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with wildcard
// characters in s taken literally. Case is folded by the database.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
