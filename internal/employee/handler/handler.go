package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"employee-api/internal/employee/models"
	"employee-api/internal/platform/middleware"
	dErrors "employee-api/pkg/domain-errors"
	"employee-api/pkg/platform/httputil"
)

// Service defines the employee operations the handler exposes.
type Service interface {
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	FindByName(ctx context.Context, name string) ([]*models.Employee, error)
	Create(ctx context.Context, e *models.Employee) (*models.Employee, error)
	UpdateDetailsByEmail(ctx context.Context, email string, update models.DetailsUpdate) (*models.Employee, error)
	UpdatePhoneByEmail(ctx context.Context, email, phone string) (*models.Employee, error)
	DeleteByEmail(ctx context.Context, email string) error
	SearchByEmail(ctx context.Context, mech models.Mechanism, email string) (*models.Employee, error)
	SearchByName(ctx context.Context, mech models.Mechanism, name string) ([]*models.Employee, error)
}

// BasePath roots every employee route.
const BasePath = "/employees"

// Handler serves the employee HTTP surface.
type Handler struct {
	employees Service
	logger    *slog.Logger
}

// New creates a new employee Handler.
func New(employees Service, logger *slog.Logger) *Handler {
	return &Handler{
		employees: employees,
		logger:    logger,
	}
}

// Register mounts the employee routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Get("/email/{email}", h.handleGetByEmail)
		r.Get("/name/{name}", h.handleGetByName)
		r.Post("/", h.handleCreate)
		r.Post("/details", h.handleCreateDetailed)
		r.Put("/update", h.handleUpdate)
		r.Patch("/phone/{email}", h.handleUpdatePhone)
		r.Delete("/email/{email}", h.handleDelete)
		r.Get("/search/{mechanism}/email/{email}", h.handleSearchByEmail)
		r.Get("/search/{mechanism}/name/{name}", h.handleSearchByName)
	})
}

func (h *Handler) handleGetByEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e, err := h.employees.FindByEmail(ctx, pathParam(r, "email"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleGetByName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.employees.FindByName(ctx, pathParam(r, "name"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeList(w, r, list)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	h.create(w, r, req.Employee())
}

func (h *Handler) handleCreateDetailed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[DetailedCreateRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	h.create(w, r, req.Employee())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, e *models.Employee) {
	created, err := h.employees.Create(r.Context(), e)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", Location(created.Email))
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	e, err := h.employees.UpdateDetailsByEmail(ctx, *req.Email, req.Details())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleUpdatePhone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[PhoneRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	e, err := h.employees.UpdatePhoneByEmail(ctx, pathParam(r, "email"), *req.Phone)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.employees.DeleteByEmail(r.Context(), pathParam(r, "email")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSearchByEmail(w http.ResponseWriter, r *http.Request) {
	mech, ok := h.mechanism(w, r)
	if !ok {
		return
	}
	email := pathParam(r, "email")
	if isBlank(email) {
		h.respondError(w, r, dErrors.New(dErrors.CodeBadRequest, MsgEmailRequired))
		return
	}
	e, err := h.employees.SearchByEmail(r.Context(), mech, email)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleSearchByName(w http.ResponseWriter, r *http.Request) {
	mech, ok := h.mechanism(w, r)
	if !ok {
		return
	}
	name := pathParam(r, "name")
	if isBlank(name) {
		h.respondError(w, r, dErrors.New(dErrors.CodeBadRequest, MsgNameRequired))
		return
	}
	list, err := h.employees.SearchByName(r.Context(), mech, name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeList(w, r, list)
}

func (h *Handler) mechanism(w http.ResponseWriter, r *http.Request) (models.Mechanism, bool) {
	mech, err := models.ParseMechanism(chi.URLParam(r, "mechanism"))
	if err != nil {
		h.respondError(w, r, dErrors.Wrap(err, dErrors.CodeNotFound, "unknown search mechanism"))
		return "", false
	}
	return mech, true
}

// writeList renders a non-empty result set. An empty set is a 404.
func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, list []*models.Employee) {
	if len(list) == 0 {
		h.respondError(w, r, dErrors.New(dErrors.CodeNotFound, "no employees matched"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// respondError logs failures the client cannot act on and renders err.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if httputil.StatusFor(dErrors.CodeOf(err)) == http.StatusInternalServerError {
		ctx := r.Context()
		h.logger.ErrorContext(ctx, "employee request failed",
			"request_id", middleware.GetRequestID(ctx),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

// Location is the get-by-email path of an employee.
func Location(email string) string {
	return BasePath + "/email/" + url.PathEscape(email)
}

// pathParam returns the decoded value of a route parameter. chi matches on
// the raw path when the request carries escaped characters.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
