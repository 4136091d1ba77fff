package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/cosmo-uplink/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the domain error.
func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

type codeMapping struct {
	status int
	code   string
}

// appErrorStatus maps domain error codes to the status and public code sent
// to clients. Unknown codes become 500 with the caller's fallback code.
var appErrorStatus = map[string]codeMapping{
	apperrors.CodeInvalidInput:   {http.StatusBadRequest, "invalid_request"},
	apperrors.CodeNotFound:       {http.StatusNotFound, "not_found"},
	apperrors.CodeReportInFlight: {http.StatusConflict, "report_in_flight"},
	apperrors.CodeNoReport:       {http.StatusConflict, "no_report"},
	apperrors.CodeArchiveError:   {http.StatusBadGateway, "archive_error"},
	apperrors.CodeLogError:       {http.StatusInternalServerError, "log_error"},
}

// fromAppError converts a domain error into an HTTPError.
func fromAppError(err error, fallbackCode string) *HTTPError {
	mapping, ok := appErrorStatus[apperrors.Code(err)]
	if !ok {
		mapping = codeMapping{status: http.StatusInternalServerError, code: fallbackCode}
	}
	return NewHTTPError(mapping.status, mapping.code, errMessage(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func abortWithAppError(c *gin.Context, err error, fallbackCode string) {
	abortWithError(c, fromAppError(err, fallbackCode))
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
