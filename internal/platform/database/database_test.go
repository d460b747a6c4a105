package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"employee-api/internal/employee/models"
	"employee-api/internal/platform/config"
	"employee-api/internal/platform/database"
	"employee-api/pkg/testutil"
)

func TestOpenRejectsUnreachableDatabase(t *testing.T) {
	_, err := database.Open(context.Background(), config.Database{
		Driver: config.DriverSQLite,
		URL:    "file:/nonexistent-dir/employees.db?mode=ro",
	})
	assert.Error(t, err)
}

func TestMigrateCreatesUniqueEmailIndex(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	require.NoError(t, db.Health(ctx))
	require.True(t, db.Gorm.Migrator().HasTable(&models.Employee{}))
	require.True(t, db.Gorm.Migrator().HasIndex(&models.Employee{}, "idx_employees_email"))

	require.NoError(t, db.Gorm.Create(&models.Employee{FirstName: "A", Email: "a@x.com"}).Error)
	err := db.Gorm.Create(&models.Employee{FirstName: "B", Email: "a@x.com"}).Error
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm translated", err: gorm.ErrDuplicatedKey, want: true},
		{name: "pgx", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "pgx other code", err: &pgconn.PgError{Code: "23502"}, want: false},
		{name: "lib/pq", err: &pq.Error{Code: "23505"}, want: true},
		{name: "plain", err: errors.New("boom"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, database.IsUniqueViolation(tc.err))
		})
	}
}
