package handler

import (
	"strings"

	"employee-api/internal/employee/models"
	dErrors "employee-api/pkg/domain-errors"
)

// Validation messages returned with a 400.
const (
	MsgCreateRequired   = "firstName and email are required"
	MsgDetailedRequired = "firstName, email and phone are required"
	MsgUpdateEmail      = "email is required to identify the employee"
	MsgPhoneRequired    = "phone is required"
	MsgEmailRequired    = "email required"
	MsgNameRequired     = "name required"
)

// CreateRequest is the body of the basic create. Phone and address cannot be
// set here; any sent are ignored.
type CreateRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

func (r *CreateRequest) Validate() error {
	if blank(r.FirstName) || blank(r.Email) {
		return dErrors.New(dErrors.CodeBadRequest, MsgCreateRequired)
	}
	return nil
}

// Employee builds the record to insert. Values are kept as sent.
func (r *CreateRequest) Employee() *models.Employee {
	return &models.Employee{
		FirstName: *r.FirstName,
		LastName:  r.LastName,
		Email:     *r.Email,
	}
}

// DetailedCreateRequest is the body of the create that also demands a phone.
// Address is only ever set by an update.
type DetailedCreateRequest struct {
	CreateRequest
	Phone *string `json:"phone"`
}

func (r *DetailedCreateRequest) Validate() error {
	if blank(r.FirstName) || blank(r.Email) || blank(r.Phone) {
		return dErrors.New(dErrors.CodeBadRequest, MsgDetailedRequired)
	}
	return nil
}

func (r *DetailedCreateRequest) Employee() *models.Employee {
	e := r.CreateRequest.Employee()
	e.Phone = r.Phone
	return e
}

// UpdateRequest identifies an employee by email and carries the fields to
// overwrite. Omitted or null fields are left unchanged.
type UpdateRequest struct {
	Email    *string `json:"email"`
	LastName *string `json:"lastName"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

func (r *UpdateRequest) Validate() error {
	if blank(r.Email) {
		return dErrors.New(dErrors.CodeBadRequest, MsgUpdateEmail)
	}
	return nil
}

func (r *UpdateRequest) Details() models.DetailsUpdate {
	return models.DetailsUpdate{
		LastName: r.LastName,
		Phone:    r.Phone,
		Address:  r.Address,
	}
}

// PhoneRequest is the body of the phone-only update.
type PhoneRequest struct {
	Phone *string `json:"phone"`
}

func (r *PhoneRequest) Validate() error {
	if blank(r.Phone) {
		return dErrors.New(dErrors.CodeBadRequest, MsgPhoneRequired)
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || isBlank(*s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
