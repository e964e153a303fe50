// Copyright (c) 2026 Inkwell CMS. All rights reserved.

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every response — success or error — follows one envelope shape
// {code, msg, data} so client code has a single parsing path regardless of
// outcome. Errors carry data: null; successes carry code "OK".
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkwell-cms/api/internal/platform/apperr"
	"github.com/inkwell-cms/api/internal/platform/ctxkey"
	"github.com/inkwell-cms/api/pkg/pagination"
)

// CodeOK is the envelope code for every successful response.
const CodeOK = "OK"

// Envelope is the uniform JSON shape for all API responses.
type Envelope struct {
	Code    string              `json:"code"`
	Msg     string              `json:"msg"`
	Data    interface{}         `json:"data"`
	Details []apperr.FieldError `json:"details,omitempty"`
	Meta    *pagination.Meta    `json:"meta,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 response with data wrapped in the standard envelope.
func OK(writer http.ResponseWriter, msg string, data interface{}) {
	JSON(writer, http.StatusOK, Envelope{Code: CodeOK, Msg: msg, Data: data})
}

// Created writes a 201 response with data wrapped in the standard envelope.
func Created(writer http.ResponseWriter, msg string, data interface{}) {
	JSON(writer, http.StatusCreated, Envelope{Code: CodeOK, Msg: msg, Data: data})
}

// Paginated writes a 200 response with list data and a pagination metadata block.
func Paginated(writer http.ResponseWriter, data interface{}, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, Envelope{Code: CodeOK, Msg: "ok", Data: data, Meta: &metadata})
}

// Error converts any Go error into a standardized JSON API error response.
//
// Unrecognized errors are reported as INTERNAL_ERROR with a generic message;
// the real cause is logged server-side and never leaks to the client.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", getRequestIDFromContext(request)),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", getRequestIDFromContext(request)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, Envelope{
		Code:    appError.Code,
		Msg:     appError.Message,
		Data:    nil,
		Details: appError.Details,
	})
}

// getLoggerFromContext extracts the per-request logger.
func getLoggerFromContext(request *http.Request) *slog.Logger {
	if logger, ok := request.Context().Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// getRequestIDFromContext extracts the X-Request-ID for log correlation.
func getRequestIDFromContext(request *http.Request) string {
	if id, ok := request.Context().Value(ctxkey.KeyRequestID).(string); ok {
		return id
	}
	return ""
}
