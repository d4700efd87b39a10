package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/hubworks/ledger/internal/models"
	"github.com/rs/zerolog/log"
)

// Errors for requests that cannot be parsed. They are not ledger errors
// and map to the validation kind.
var (
	ErrInvalidBody      = errors.New("the body of your request contains invalid or un-parseable data, it must be a JSON object matching the resource")
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidUUID      = errors.New("the resource ID in the path is not a valid UUID")
)

// ErrorObject is the error of an API response.
type ErrorObject struct {
	Kind    string `json:"kind" example:"validation"`                            // Kind of the error, one of validation, not_found, conflict, invalid_state, immutable_state, integrity, general
	Message string `json:"message" example:"the account code must not be empty"` // Human readable description of the error
}

// HTTPError is used for error responses that contain no data.
type HTTPError struct {
	Error *ErrorObject `json:"error"`
}

// Status returns the HTTP status code for an error.
//
// Errors that are not ledger errors are produced while parsing the
// request and therefore are the client's fault.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrInvalidState),
		errors.Is(err, models.ErrImmutableState):
		return http.StatusConflict
	case errors.Is(err, models.ErrIntegrity), errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// NewError returns the API representation of an error.
// Server side errors are logged with the request ID.
func NewError(c *gin.Context, err error) *ErrorObject {
	kind := models.Kind(err)
	if kind == "general" && !errors.Is(err, models.ErrGeneral) {
		kind = "validation"
	}

	if Status(err) == http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Str("kind", kind).Msgf("%T: %v", err, err.Error())
	}

	return &ErrorObject{
		Kind:    kind,
		Message: err.Error(),
	}
}

// AbortWithError writes an error response without data.
func AbortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(Status(err), HTTPError{Error: NewError(c, err)})
}
