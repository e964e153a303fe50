// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package permission provides the HTTP delivery layer for grant administration.

All routes sit behind the authentication gate; the mutating routes are
additionally restricted to administrators or holders of the governing code.
*/
package permission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/api/internal/platform/middleware"
	requestutil "github.com/inkwell-cms/api/internal/platform/request"
	"github.com/inkwell-cms/api/internal/platform/respond"
	"github.com/inkwell-cms/api/internal/platform/validate"
	"github.com/inkwell-cms/api/pkg/convert"
)

// # Definitions & Constructors

// Handler implements permission administration HTTP endpoints.
type Handler struct {
	permissionService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{permissionService: service}
}

// Routes returns a [chi.Router] configured with permission administration routes.
//
// # Endpoints
//   - POST /assign           : Grants one code to a user.
//   - POST /batch-assign     : Grants several codes to a user.
//   - POST /revoke           : Removes a code from a user.
//   - GET  /user-permissions : Lists a user's direct grants (?userId=).
//   - GET  /all              : Lists the permission dictionary.
//   - GET  /all-grouped      : Lists the dictionary grouped by module.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.With(middleware.RequireAdmin).
		Post("/assign", handler.assign)
	router.With(middleware.RequireAdmin).
		Post("/batch-assign", handler.batchAssign)

	// Revocation re-queries the store so a freshly revoked admin-granting
	// permission cannot be used to re-grant itself.
	router.With(middleware.RequirePermissionFresh(handler.permissionService, "permission:revoke")).
		Post("/revoke", handler.revoke)

	// Read paths only require authentication; the dictionary is not secret.
	router.Get("/user-permissions", handler.userPermissions)
	router.Get("/all", handler.listAll)
	router.Get("/all-grouped", handler.listGrouped)

	return router
}

// # Request Payloads

type grantRequest struct {
	UserID int64  `json:"user_id"`
	Code   string `json:"code"`
}

type batchGrantRequest struct {
	UserID int64    `json:"user_id"`
	Codes  []string `json:"codes"`
}

/*
Assign grants a permission code to a user.

POST /api/v1/permissions/assign

Request:
  - Body: grantRequest (UserID, Code)

Response:
  - 200: Success: Code granted (or already held)
  - 400: ErrValidation: Unknown code or malformed input
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) assign(writer http.ResponseWriter, request *http.Request) {
	var input grantRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.PositiveID(FieldUserID, input.UserID).
		Required(FieldCode, input.Code).
		PermissionCode(FieldCode, input.Code)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.permissionService.Assign(request.Context(), input.UserID, input.Code); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Permission assigned", nil)
}

/*
BatchAssign grants several permission codes to a user.

POST /api/v1/permissions/batch-assign

Request:
  - Body: batchGrantRequest (UserID, Codes)

Response:
  - 200: Success: All codes granted
  - 400: ErrValidation: Any unknown code rejects the whole batch
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) batchAssign(writer http.ResponseWriter, request *http.Request) {
	var input batchGrantRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.PositiveID(FieldUserID, input.UserID).
		Custom(FieldCodes, len(input.Codes) == 0, "must contain at least one code")
	for _, code := range input.Codes {
		validator.PermissionCode(FieldCodes, code)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.permissionService.BatchAssign(request.Context(), input.UserID, input.Codes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Permissions assigned", nil)
}

/*
Revoke removes a permission code from a user.

POST /api/v1/permissions/revoke

Request:
  - Body: grantRequest (UserID, Code)

Response:
  - 200: Success: Code revoked
  - 400: ErrValidation: Code was not granted to this user
  - 403: ErrForbidden: Caller lacks permission:revoke (checked live)
*/
func (handler *Handler) revoke(writer http.ResponseWriter, request *http.Request) {
	var input grantRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.PositiveID(FieldUserID, input.UserID).
		Required(FieldCode, input.Code).
		PermissionCode(FieldCode, input.Code)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.permissionService.Revoke(request.Context(), input.UserID, input.Code); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Permission revoked", nil)
}

/*
UserPermissions lists the codes directly granted to a user.

GET /api/v1/permissions/user-permissions?userId={id}

Response:
  - 200: []string: Granted codes
  - 400: ErrValidation: Non-numeric or non-positive userId
*/
func (handler *Handler) userPermissions(writer http.ResponseWriter, request *http.Request) {
	userID := int64(convert.ToInt(request.URL.Query().Get("userId")))

	validator := &validate.Validator{}
	validator.PositiveID(FieldUserID, userID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	codes, err := handler.permissionService.UserPermissions(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "User permissions", codes)
}

/*
ListAll returns the full permission dictionary.

GET /api/v1/permissions/all

Response:
  - 200: []Definition: Dictionary entries
*/
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	definitions, err := handler.permissionService.ListAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Permission dictionary", definitions)
}

/*
ListGrouped returns the permission dictionary grouped by module prefix.

GET /api/v1/permissions/all-grouped

Response:
  - 200: []Group: Module-grouped dictionary
*/
func (handler *Handler) listGrouped(writer http.ResponseWriter, request *http.Request) {
	groups, err := handler.permissionService.ListGrouped(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Permission dictionary by module", groups)
}
