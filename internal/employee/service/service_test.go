package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"employee-api/internal/employee/models"
	"employee-api/internal/employee/service/mocks"
	dErrors "employee-api/pkg/domain-errors"
	"employee-api/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *mocks.MockStore
	spec    *mocks.MockQueryExecutor
	native  *mocks.MockQueryExecutor
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ctx = context.Background()
	s.store = mocks.NewMockStore(ctrl)
	s.spec = mocks.NewMockQueryExecutor(ctrl)
	s.native = mocks.NewMockQueryExecutor(ctrl)
	s.service = New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithQueryExecutor(models.MechanismSpec, s.spec),
		WithQueryExecutor(models.MechanismNative, s.native),
	)
}

// expectTx runs the callback handed to RunInTx and returns its error.
func (s *ServiceSuite) expectTx() {
	s.store.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func strptr(v string) *string { return &v }

func (s *ServiceSuite) TestFindByEmail() {
	s.Run("found", func() {
		want := &models.Employee{ID: 1, FirstName: "Sannee", Email: "sannee@gmail.com"}
		s.store.EXPECT().FindByEmail(gomock.Any(), "sannee@gmail.com").Return(want, nil)

		got, err := s.service.FindByEmail(s.ctx, "sannee@gmail.com")
		s.Require().NoError(err)
		s.Equal(want, got)
	})

	s.Run("missing maps to not found", func() {
		s.store.EXPECT().FindByEmail(gomock.Any(), "x@y.com").Return(nil, sentinel.ErrNotFound)

		_, err := s.service.FindByEmail(s.ctx, "x@y.com")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure is internal", func() {
		s.store.EXPECT().FindByEmail(gomock.Any(), "x@y.com").Return(nil, errors.New("db down"))

		_, err := s.service.FindByEmail(s.ctx, "x@y.com")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorContains(err, "db down")
	})
}

func (s *ServiceSuite) TestFindByNameConcatenatesFirstThenLast() {
	first := &models.Employee{ID: 2, FirstName: "Kumar", Email: "k@x.com"}
	both := &models.Employee{ID: 3, FirstName: "Kumar", LastName: strptr("Kumar"), Email: "kk@x.com"}
	s.store.EXPECT().FindByFirstNameIgnoreCase(gomock.Any(), "kumar").Return([]*models.Employee{first, both}, nil)
	s.store.EXPECT().FindByLastNameIgnoreCase(gomock.Any(), "kumar").Return([]*models.Employee{both}, nil)

	list, err := s.service.FindByName(s.ctx, "kumar")
	s.Require().NoError(err)
	s.Equal([]*models.Employee{first, both, both}, list)
}

func (s *ServiceSuite) TestCreate() {
	s.Run("inserts inside a transaction", func() {
		e := &models.Employee{FirstName: "A", Email: "a@x.com"}
		s.expectTx()
		s.store.EXPECT().ExistsByEmail(gomock.Any(), "a@x.com").Return(false, nil)
		s.store.EXPECT().Create(gomock.Any(), e).DoAndReturn(func(_ context.Context, e *models.Employee) error {
			e.ID = 7
			return nil
		})

		got, err := s.service.Create(s.ctx, e)
		s.Require().NoError(err)
		s.Equal(int64(7), got.ID)
	})

	s.Run("existing email conflicts", func() {
		s.expectTx()
		s.store.EXPECT().ExistsByEmail(gomock.Any(), "a@x.com").Return(true, nil)

		_, err := s.service.Create(s.ctx, &models.Employee{FirstName: "A", Email: "a@x.com"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		de, _ := dErrors.As(err)
		s.Equal(MsgDuplicateEmail, de.Message)
	})

	s.Run("concurrent insert surfaces as conflict", func() {
		s.expectTx()
		s.store.EXPECT().ExistsByEmail(gomock.Any(), "a@x.com").Return(false, nil)
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.Create(s.ctx, &models.Employee{FirstName: "A", Email: "a@x.com"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ServiceSuite) TestUpdateDetailsLeavesNilFieldsAlone() {
	stored := &models.Employee{ID: 1, FirstName: "A", LastName: strptr("Old"), Phone: strptr("111"), Address: strptr("Town"), Email: "a@x.com"}
	s.expectTx()
	s.store.EXPECT().FindByEmailForUpdate(gomock.Any(), "a@x.com").Return(stored, nil)
	s.store.EXPECT().Save(gomock.Any(), stored).Return(nil)

	got, err := s.service.UpdateDetailsByEmail(s.ctx, "a@x.com", models.DetailsUpdate{Phone: strptr("222")})
	s.Require().NoError(err)
	s.Equal("Old", *got.LastName)
	s.Equal("222", *got.Phone)
	s.Equal("Town", *got.Address)
}

func (s *ServiceSuite) TestUpdatePhone() {
	s.Run("replaces only the phone", func() {
		stored := &models.Employee{ID: 1, FirstName: "A", LastName: strptr("L"), Email: "a@x.com"}
		s.expectTx()
		s.store.EXPECT().FindByEmailForUpdate(gomock.Any(), "a@x.com").Return(stored, nil)
		s.store.EXPECT().Save(gomock.Any(), stored).Return(nil)

		got, err := s.service.UpdatePhoneByEmail(s.ctx, "a@x.com", "999")
		s.Require().NoError(err)
		s.Equal("999", *got.Phone)
		s.Equal("L", *got.LastName)
	})

	s.Run("missing employee", func() {
		s.expectTx()
		s.store.EXPECT().FindByEmailForUpdate(gomock.Any(), "x@x.com").Return(nil, sentinel.ErrNotFound)

		_, err := s.service.UpdatePhoneByEmail(s.ctx, "x@x.com", "999")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestDeleteByEmail() {
	s.Run("deletes the locked row", func() {
		stored := &models.Employee{ID: 4, Email: "a@x.com"}
		s.expectTx()
		s.store.EXPECT().FindByEmailForUpdate(gomock.Any(), "a@x.com").Return(stored, nil)
		s.store.EXPECT().Delete(gomock.Any(), stored).Return(nil)

		s.NoError(s.service.DeleteByEmail(s.ctx, "a@x.com"))
	})

	s.Run("missing employee", func() {
		s.expectTx()
		s.store.EXPECT().FindByEmailForUpdate(gomock.Any(), "x@x.com").Return(nil, sentinel.ErrNotFound)

		err := s.service.DeleteByEmail(s.ctx, "x@x.com")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestSearchByEmail() {
	s.Run("dispatches to the mechanism", func() {
		want := &models.Employee{ID: 1, Email: "a@x.com"}
		s.native.EXPECT().FindByEmail(gomock.Any(), "A@X.COM").Return(want, nil)

		got, err := s.service.SearchByEmail(s.ctx, models.MechanismNative, "A@X.COM")
		s.Require().NoError(err)
		s.Equal(want, got)
	})

	s.Run("blank email is not found without querying", func() {
		_, err := s.service.SearchByEmail(s.ctx, models.MechanismSpec, "   ")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unregistered mechanism is not found", func() {
		_, err := s.service.SearchByEmail(s.ctx, models.MechanismTemplate, "a@x.com")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("ambiguous match is internal", func() {
		s.spec.EXPECT().FindByEmail(gomock.Any(), "a@x.com").Return(nil, sentinel.ErrNotUnique)

		_, err := s.service.SearchByEmail(s.ctx, models.MechanismSpec, "a@x.com")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorIs(err, sentinel.ErrNotUnique)
	})
}

func (s *ServiceSuite) TestSearchByName() {
	s.Run("dispatches to the mechanism", func() {
		want := []*models.Employee{{ID: 1, FirstName: "Sannee"}}
		s.spec.EXPECT().FindByName(gomock.Any(), "ann").Return(want, nil)

		got, err := s.service.SearchByName(s.ctx, models.MechanismSpec, "ann")
		s.Require().NoError(err)
		s.Equal(want, got)
	})

	s.Run("blank name is empty without querying", func() {
		got, err := s.service.SearchByName(s.ctx, models.MechanismSpec, "")
		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("executor failure is internal", func() {
		s.native.EXPECT().FindByName(gomock.Any(), "x").Return(nil, errors.New("syntax"))

		_, err := s.service.SearchByName(s.ctx, models.MechanismNative, "x")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
