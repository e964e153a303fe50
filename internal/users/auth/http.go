// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle, from account
creation to session teardown.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Extracts bearer tokens and resolved identities from the request.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/api/internal/platform/middleware"
	requestutil "github.com/inkwell-cms/api/internal/platform/request"
	"github.com/inkwell-cms/api/internal/platform/respond"
	"github.com/inkwell-cms/api/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register        : Creates a new account.
//   - POST /login           : Authenticates and returns a JWT.
//   - POST /logout          : Revokes the presented token.
//   - POST /change-password : Rotates the caller's password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database.

Request:
  - Body: registerRequest (Username, Email, Password, optional Role)

Response:
  - 201: Token and created user profile (the client is logged in immediately)
  - 400: ErrInvalidJSON: Bad input, validation failure, or identity conflict
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		Password(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Registration successful", map[string]any{
		FieldToken:     session.Token,
		FieldExpiresIn: session.ExpiresIn,
		FieldUser:      session.User,
	})
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials against the stored hash, enforces account
standing, and returns a signed access token.

Request:
  - Body: loginRequest (UsernameOrEmail, Password)

Response:
  - 200: Session: Access token and User profile
  - 401: ErrUnauthenticated: Invalid credentials
  - 403: ErrAccountRestricted: Banned or inactive account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsernameOrEmail, input.UsernameOrEmail)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		UsernameOrEmail: input.UsernameOrEmail,
		Password:        input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Login successful", map[string]any{
		FieldToken:       session.Token,
		FieldExpiresIn:   session.ExpiresIn,
		FieldUser:        session.User,
		FieldPermissions: session.Permissions,
	})
}

/*
Logout revokes the caller's access token.

POST /api/v1/auth/logout

Description: Places the presented bearer token on the revocation blacklist.
Safe to repeat; logging out twice is not an error.

Response:
  - 200: Success: Session terminated
  - 500: ErrInternal: Revocation storage failure
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	tokenString := requestutil.BearerToken(request)

	if err := handler.authService.Logout(request.Context(), tokenString); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Logged out successfully", nil)
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/auth/change-password

Description: Verifies the current password before applying a new one, then
revokes the presented token so the client must log in again.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: ErrUnauthenticated: Current password incorrect or session invalid
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		Password(FieldNewPassword, input.NewPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		identity.ID,
		input.CurrentPassword,
		input.NewPassword,
		requestutil.BearerToken(request),
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Password changed successfully", nil)
}
