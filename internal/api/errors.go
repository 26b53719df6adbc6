package api

import (
	"errors"
	"log/slog"
	"memory-backend/internal/auth"
	"memory-backend/internal/chat"
	"memory-backend/internal/database"
	"memory-backend/pkg/api"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindValidation
	KindConflict
	KindUpstreamFailure
	KindPersistenceFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUpstreamFailure:
		return "upstream_failure"
	case KindPersistenceFailure:
		return "persistence_failure"
	default:
		return "internal"
	}
}

func (k ErrorKind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// KindOf classifies err by the sentinel it wraps. Upstream failures are
// checked before persistence failures.
func KindOf(err error) ErrorKind {
	var cerr *codedError
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, database.ErrNotFound):
		return KindNotFound
	case errors.Is(err, database.ErrDuplicate):
		return KindConflict
	case errors.Is(err, chat.ErrUpstream):
		return KindUpstreamFailure
	case errors.Is(err, database.ErrPersistence):
		return KindPersistenceFailure
	case errors.As(err, &cerr):
		return kindOfStatus(cerr.code)
	default:
		return KindInternal
	}
}

func kindOfStatus(code int) ErrorKind {
	switch {
	case code == http.StatusNotFound:
		return KindNotFound
	case code == http.StatusUnauthorized:
		return KindUnauthorized
	case code == http.StatusConflict:
		return KindConflict
	case code == http.StatusBadGateway:
		return KindUpstreamFailure
	case code >= 400 && code < 500:
		return KindValidation
	default:
		return KindInternal
	}
}

func statusOf(err error) int {
	var cerr *codedError
	if errors.As(err, &cerr) {
		return cerr.code
	}
	return KindOf(err).Status()
}

// WriteError maps err to its status code. Server side failures are logged
// and answered with a fixed message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind, status := KindOf(err), statusOf(err)

	var cerr *codedError
	detail := err.Error()
	switch {
	case status == http.StatusBadGateway:
		detail = "upstream model request failed"
	case status >= 500:
		detail = "internal server error"
	case kind == KindUnauthorized:
		w.Header().Set("WWW-Authenticate", "Bearer")
		if !errors.As(err, &cerr) {
			detail = auth.ErrUnauthorized.Error()
		}
	}

	if status >= 500 {
		slog.Error("request failed", "request_id", middleware.GetReqID(r.Context()), "method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	}

	WriteJsonResponse(w, status, api.ErrorResponse{Detail: detail})
}
