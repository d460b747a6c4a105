package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"employee-api/internal/employee/models"
	"employee-api/internal/platform/metrics"
	dErrors "employee-api/pkg/domain-errors"
	"employee-api/pkg/platform/sentinel"
	"employee-api/pkg/requestcontext"
)

// Messages surfaced to clients.
const (
	MsgEmployeeNotFound = "employee not found"
	MsgDuplicateEmail   = "Employee with this email already exists"
)

// Store is the persistence port. Calls made with the ctx handed to RunInTx's
// callback join that transaction.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	FindByEmailForUpdate(ctx context.Context, email string) (*models.Employee, error)
	FindByFirstNameIgnoreCase(ctx context.Context, name string) ([]*models.Employee, error)
	FindByLastNameIgnoreCase(ctx context.Context, name string) ([]*models.Employee, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, e *models.Employee) error
	Save(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, e *models.Employee) error
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// QueryExecutor runs search predicates with a single query mechanism.
type QueryExecutor interface {
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	FindByName(ctx context.Context, name string) ([]*models.Employee, error)
}

var tracer = otel.Tracer("employee-api/internal/employee/service")

// Service orchestrates employee lookups and read-modify-write mutations.
type Service struct {
	store     Store
	executors map[models.Mechanism]QueryExecutor
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithQueryExecutor registers the executor used for a search mechanism.
func WithQueryExecutor(mech models.Mechanism, exec QueryExecutor) Option {
	return func(s *Service) {
		s.executors[mech] = exec
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		executors: make(map[models.Mechanism]QueryExecutor),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByEmail returns the employee with exactly this email.
func (s *Service) FindByEmail(ctx context.Context, email string) (emp *models.Employee, err error) {
	ctx, span := s.start(ctx, "FindByEmail", attribute.String("employee.email", email))
	defer func() { s.finish(ctx, span, "find_by_email", err) }()

	emp, err = s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, translateLookup(err, "failed to find employee")
	}
	return emp, nil
}

// FindByName returns first-name matches followed by last-name matches,
// ignoring case. An employee matching both appears twice.
func (s *Service) FindByName(ctx context.Context, name string) (list []*models.Employee, err error) {
	ctx, span := s.start(ctx, "FindByName", attribute.String("employee.name", name))
	defer func() { s.finish(ctx, span, "find_by_name", err) }()

	byFirst, err := s.store.FindByFirstNameIgnoreCase(ctx, name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find employees by first name")
	}
	byLast, err := s.store.FindByLastNameIgnoreCase(ctx, name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find employees by last name")
	}
	list = append(byFirst, byLast...)
	span.SetAttributes(attribute.Int("employee.matches", len(list)))
	return list, nil
}

// ExistsByEmail reports whether an employee with exactly this email exists.
func (s *Service) ExistsByEmail(ctx context.Context, email string) (exists bool, err error) {
	ctx, span := s.start(ctx, "ExistsByEmail", attribute.String("employee.email", email))
	defer func() { s.finish(ctx, span, "exists_by_email", err) }()

	exists, err = s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check employee email")
	}
	return exists, nil
}

// Create persists e. The existence check and insert share one transaction
// and the unique email index catches any concurrent insert that slips past
// the check; both cases report a conflict.
func (s *Service) Create(ctx context.Context, e *models.Employee) (emp *models.Employee, err error) {
	ctx, span := s.start(ctx, "Create", attribute.String("employee.email", e.Email))
	defer func() { s.finish(ctx, span, "create", err) }()

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		exists, err := s.store.ExistsByEmail(ctx, e.Email)
		if err != nil {
			return err
		}
		if exists {
			return sentinel.ErrConflict
		}
		return s.store.Create(ctx, e)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, MsgDuplicateEmail)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create employee")
	}

	s.metrics.IncrementEmployeesCreated()
	s.logger.InfoContext(ctx, "employee created",
		"request_id", requestcontext.RequestID(ctx),
		"employee_id", e.ID,
	)
	return e, nil
}

// UpdateDetailsByEmail applies the non-nil fields of update to the employee
// with this email in one locked read-modify-write.
func (s *Service) UpdateDetailsByEmail(ctx context.Context, email string, update models.DetailsUpdate) (emp *models.Employee, err error) {
	ctx, span := s.start(ctx, "UpdateDetailsByEmail", attribute.String("employee.email", email))
	defer func() { s.finish(ctx, span, "update_details", err) }()

	return s.mutate(ctx, email, update.Apply)
}

// UpdatePhoneByEmail replaces only the phone of the employee with this email.
func (s *Service) UpdatePhoneByEmail(ctx context.Context, email, phone string) (emp *models.Employee, err error) {
	ctx, span := s.start(ctx, "UpdatePhoneByEmail", attribute.String("employee.email", email))
	defer func() { s.finish(ctx, span, "update_phone", err) }()

	return s.mutate(ctx, email, func(e *models.Employee) {
		e.Phone = &phone
	})
}

func (s *Service) mutate(ctx context.Context, email string, apply func(*models.Employee)) (*models.Employee, error) {
	var updated *models.Employee
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.store.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		apply(e)
		if err := s.store.Save(ctx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, translateLookup(err, "failed to update employee")
	}
	return updated, nil
}

// DeleteByEmail removes the employee with this email.
func (s *Service) DeleteByEmail(ctx context.Context, email string) (err error) {
	ctx, span := s.start(ctx, "DeleteByEmail", attribute.String("employee.email", email))
	defer func() { s.finish(ctx, span, "delete", err) }()

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.store.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		return s.store.Delete(ctx, e)
	})
	if err != nil {
		return translateLookup(err, "failed to delete employee")
	}
	s.metrics.IncrementEmployeesDeleted()
	return nil
}

// SearchByEmail matches email ignoring case using the given mechanism.
func (s *Service) SearchByEmail(ctx context.Context, mech models.Mechanism, email string) (emp *models.Employee, err error) {
	ctx, span := s.start(ctx, "SearchByEmail",
		attribute.String("search.mechanism", mech.String()),
		attribute.String("employee.email", email),
	)
	defer func() { s.finish(ctx, span, "search_email_"+mech.String(), err) }()

	if isBlank(email) {
		return nil, dErrors.New(dErrors.CodeNotFound, MsgEmployeeNotFound)
	}
	exec, err := s.executor(mech)
	if err != nil {
		return nil, err
	}
	emp, err = exec.FindByEmail(ctx, email)
	if err != nil {
		return nil, translateLookup(err, "failed to search employee by email")
	}
	return emp, nil
}

// SearchByName matches first or last name using the given mechanism.
// MechanismSpec matches substrings; the others require equality.
func (s *Service) SearchByName(ctx context.Context, mech models.Mechanism, name string) (list []*models.Employee, err error) {
	ctx, span := s.start(ctx, "SearchByName",
		attribute.String("search.mechanism", mech.String()),
		attribute.String("employee.name", name),
	)
	defer func() { s.finish(ctx, span, "search_name_"+mech.String(), err) }()

	if isBlank(name) {
		return nil, nil
	}
	exec, err := s.executor(mech)
	if err != nil {
		return nil, err
	}
	list, err = exec.FindByName(ctx, name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search employees by name")
	}
	span.SetAttributes(attribute.Int("employee.matches", len(list)))
	return list, nil
}

func (s *Service) executor(mech models.Mechanism) (QueryExecutor, error) {
	exec, ok := s.executors[mech]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown search mechanism")
	}
	return exec, nil
}

func (s *Service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "employee."+name, trace.WithAttributes(attrs...))
}

func (s *Service) finish(ctx context.Context, span trace.Span, operation string, err error) {
	defer span.End()
	if err == nil {
		s.metrics.IncrementOperation(operation, "ok")
		return
	}
	code := dErrors.CodeOf(err)
	s.metrics.IncrementOperation(operation, outcomeOf(code))
	if code == dErrors.CodeInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "employee operation failed",
			"request_id", requestcontext.RequestID(ctx),
			"operation", operation,
			"error", err,
		)
	}
}

func outcomeOf(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return "invalid"
	default:
		return "error"
	}
}

// translateLookup maps store sentinels onto domain errors.
func translateLookup(err error, internalMsg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, MsgEmployeeNotFound)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, MsgDuplicateEmail)
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "employee store timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
