package rest

import (
	"net/http"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
)

const errorRoot = "RemoteException"

// statusFor maps the error taxonomy to an HTTP status and exception name.
func statusFor(err error) (int, string) {
	switch {
	case core.ErrMalformed.Has(err):
		return http.StatusBadRequest, "BadRequestException"
	case core.ErrNotFound.Has(err):
		return http.StatusNotFound, "NotFoundException"
	case core.ErrUnauthorized.Has(err):
		return http.StatusUnauthorized, "UnauthorizedException"
	case core.ErrBadRequest.Has(err):
		return http.StatusBadRequest, "BadRequestException"
	default:
		return http.StatusInternalServerError, "InternalServerErrorException"
	}
}

func (a *API) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, exception := statusFor(err)
	if statusCode == http.StatusInternalServerError {
		a.logger.Error("Unexpected error", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	a.respond(w, r, statusCode, errorRoot, ErrorResponse{
		Exception: exception,
		Message:   err.Error(),
		Code:      statusCode,
	})
}
