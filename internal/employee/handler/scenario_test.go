package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-api/internal/employee/models"
	"employee-api/internal/employee/service"
	"employee-api/pkg/testutil"
)

func TestEmployeeLifecycle(t *testing.T) {
	router := newSQLiteRouter(t)

	testutil.Given(t, "a created employee", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/employees/details", map[string]string{
			"firstName": "Sannee",
			"lastName":  "Challa",
			"email":     "sannee@gmail.com",
			"phone":     "9998887776",
		}))
		require.Equal(t, http.StatusCreated, rr.Code)

		testutil.When(t, "only the last name is updated", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/employees/update", map[string]string{
				"email":    "sannee@gmail.com",
				"lastName": "Reddy",
			}))
			require.Equal(t, http.StatusOK, rr.Code)

			testutil.Then(t, "phone and address are unchanged", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/employees/email/sannee@gmail.com"))
				require.Equal(t, http.StatusOK, rr.Code)
				e := testutil.DecodeJSON[models.Employee](t, rr)
				assert.Equal(t, "Reddy", *e.LastName)
				assert.Equal(t, "9998887776", *e.Phone)
				assert.Nil(t, e.Address)
			})

			testutil.And(t, "a second create with the same email is rejected", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/employees/", map[string]string{
					"firstName": "Other",
					"email":     "sannee@gmail.com",
				}))
				testutil.AssertBadRequest(t, rr, service.MsgDuplicateEmail)
			})
		})

		testutil.When(t, "it is deleted", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/employees/email/sannee@gmail.com"))
			require.Equal(t, http.StatusNoContent, rr.Code)

			testutil.Then(t, "every lookup misses", func(t *testing.T) {
				for _, path := range []string{
					"/employees/email/sannee@gmail.com",
					"/employees/name/sannee",
					"/employees/search/spec/email/sannee@gmail.com",
					"/employees/search/native/name/sannee",
				} {
					testutil.AssertNotFound(t, testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, path)))
				}
			})
		})
	})
}
