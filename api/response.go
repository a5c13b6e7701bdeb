package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vehicle-dashboard/charts"
	"vehicle-dashboard/services"
)

// SuccessBody is the JSON shape of every successful API response.
type SuccessBody struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Data     any    `json:"data"`
	Metadata any    `json:"metadata,omitempty"`
}

// ErrorBody is the JSON shape of every failed API response.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object.
type ErrorDetail struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	TraceID    string `json:"traceId,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// errBadParam marks a query parameter that could not be parsed.
var errBadParam = errors.New("invalid query parameter")

func success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: gin.H{"trace_id": TraceID(c)},
	})
}

func fail(c *gin.Context, err error) {
	code := statusFor(err)
	c.AbortWithStatusJSON(code, ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    err.Error(),
			StatusCode: code,
			TraceID:    TraceID(c),
		},
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadParam),
		errors.Is(err, services.ErrUnknownColumn),
		errors.Is(err, services.ErrUnknownManufacturer),
		errors.Is(err, services.ErrInvalidSortOrder):
		return http.StatusBadRequest
	case errors.Is(err, charts.ErrNoData):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
