package server

import (
	"errors"
	"net/http"

	"github.com/hikinghacker/resume-improvement-api/internal/extractor"
	"github.com/hikinghacker/resume-improvement-api/internal/gateway"
)

// HTTPStatus maps pipeline and gateway errors onto response codes.
func HTTPStatus(err error) int {
	var (
		confErr      *gateway.ConfigurationError
		clientErr    *gateway.ClientError
		transientErr *gateway.TransientError
		timeoutErr   *gateway.TimeoutError
		refusalErr   *extractor.RefusalError
		failedErr    *extractor.FailedError
	)

	switch {
	case errors.As(err, &confErr):
		return http.StatusInternalServerError
	case errors.As(err, &clientErr):
		return http.StatusBadGateway
	case errors.As(err, &transientErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &refusalErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &failedErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
