// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package account provides the HTTP delivery layer for account administration.

Role and status changes are admin-only; the roster listing and account
deletion are governed by permission codes so the capabilities can be
delegated to non-admin staff.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/api/internal/platform/middleware"
	requestutil "github.com/inkwell-cms/api/internal/platform/request"
	"github.com/inkwell-cms/api/internal/platform/respond"
	"github.com/inkwell-cms/api/internal/platform/validate"
	"github.com/inkwell-cms/api/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements account administration HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with account administration routes.
//
// # Endpoints
//   - GET    /             : Lists the member roster (paginated).
//   - PUT    /{id}/role    : Changes a member's role.
//   - PUT    /{id}/status  : Changes a member's standing.
//   - DELETE /{id}         : Removes a member's account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.With(middleware.RequirePermission("user:list")).Get("/", handler.list)
	router.With(middleware.RequireAdmin).Put("/{id}/role", handler.updateRole)
	router.With(middleware.RequireAdmin).Put("/{id}/status", handler.updateStatus)
	router.With(middleware.RequirePermission("user:delete")).Delete("/{id}", handler.remove)

	return router
}

// # Request Payloads

type updateRoleRequest struct {
	Role string `json:"role"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

/*
List returns one page of the member roster.

GET /api/v1/users?page=1&limit=20

Response:
  - 200: []User with pagination metadata
  - 403: ErrForbidden: Caller lacks user:list
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, meta, err := handler.accountService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

/*
UpdateRole changes a member's role.

PUT /api/v1/users/{id}/role

Request:
  - Body: updateRoleRequest (Role)

Response:
  - 200: User: Updated account
  - 400: ErrValidation: Unknown role or self-targeting
  - 403: ErrForbidden: Caller is not an administrator
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldRole, input.Role)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateRole(request.Context(), identity.ID, userID, input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Role updated", user)
}

/*
UpdateStatus changes a member's account standing.

PUT /api/v1/users/{id}/status

Request:
  - Body: updateStatusRequest (Status)

Response:
  - 200: User: Updated account
  - 400: ErrValidation: Unknown status or self-targeting
  - 403: ErrForbidden: Caller is not an administrator
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldStatus, input.Status)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateStatus(request.Context(), identity.ID, userID, input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Status updated", user)
}

/*
Remove deletes a member's account.

DELETE /api/v1/users/{id}

Response:
  - 200: Success: Account removed
  - 400: ErrValidation: Self-targeting
  - 403: ErrForbidden: Caller lacks user:delete
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.Delete(request.Context(), identity.ID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Account deleted", nil)
}
