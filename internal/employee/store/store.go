package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"employee-api/internal/employee/models"
	"employee-api/internal/platform/database"
	"employee-api/pkg/platform/sentinel"
	"employee-api/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// Store persists employees through GORM. Methods join the transaction
// carried by ctx when called inside RunInTx.
type Store struct {
	db        *gorm.DB
	txTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTxTimeout bounds transactions whose context has no deadline.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.txTimeout = d
		}
	}
}

// New constructs a GORM-backed employee store.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, txTimeout: defaultTxTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if t, ok := tx.From(ctx); ok {
		return t.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

// RunInTx runs fn in a database transaction. Store calls made with the ctx
// passed to fn participate in it; returning an error rolls back.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}
	if _, nested := tx.From(ctx); nested {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(tx.WithTx(ctx, gtx))
	})
}

// FindByEmail returns the employee whose email matches exactly.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return s.findByEmail(s.conn(ctx), email)
}

// FindByEmailForUpdate is FindByEmail with a row lock on dialects that support it.
func (s *Store) FindByEmailForUpdate(ctx context.Context, email string) (*models.Employee, error) {
	return s.findByEmail(s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), email)
}

func (s *Store) findByEmail(db *gorm.DB, email string) (*models.Employee, error) {
	var e models.Employee
	err := db.Where("email = ?", email).Take(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find employee by email: %w", err)
	}
	return &e, nil
}

// FindByFirstNameIgnoreCase returns employees whose first name equals name, ignoring case.
func (s *Store) FindByFirstNameIgnoreCase(ctx context.Context, name string) ([]*models.Employee, error) {
	var list []*models.Employee
	if err := s.conn(ctx).Where("LOWER(first_name) = LOWER(?)", name).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find employees by first name: %w", err)
	}
	return list, nil
}

// FindByLastNameIgnoreCase returns employees whose last name equals name, ignoring case.
func (s *Store) FindByLastNameIgnoreCase(ctx context.Context, name string) ([]*models.Employee, error) {
	var list []*models.Employee
	if err := s.conn(ctx).Where("LOWER(last_name) = LOWER(?)", name).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find employees by last name: %w", err)
	}
	return list, nil
}

// ExistsByEmail reports whether an employee with exactly this email exists.
func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := s.conn(ctx).Model(&models.Employee{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check employee email: %w", err)
	}
	return n > 0, nil
}

// Create inserts e and populates its ID. A duplicate email yields sentinel.ErrConflict.
func (s *Store) Create(ctx context.Context, e *models.Employee) error {
	if err := s.conn(ctx).Create(e).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Save writes every column of an existing employee.
func (s *Store) Save(ctx context.Context, e *models.Employee) error {
	if err := s.conn(ctx).Save(e).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save employee: %w", err)
	}
	return nil
}

// Delete removes e by primary key. A row that is already gone yields sentinel.ErrNotFound.
func (s *Store) Delete(ctx context.Context, e *models.Employee) error {
	res := s.conn(ctx).Delete(&models.Employee{}, e.ID)
	if res.Error != nil {
		return fmt.Errorf("delete employee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
