// Package handler holds the echo handlers of the lesson API.
package handler

import (
	"net/http"
	"net/url"

	"lessonradar/internal/delivery/api/response"
	"lessonradar/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// bind decodes and validates a request. On failure the error response has
// already been written and ok is false.
func bind(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, response.BindingError(c, "request could not be decoded")
	}

	if err := c.Validate(req); err != nil {
		return false, err
	}

	return true, nil
}

func missingOwner(c echo.Context) error {
	return response.Unauthorized(c, "INVALID_TOKEN", "owner missing from token")
}

// lessonIDParam reads a lesson id path segment. The segment is the id's JSON
// token, so 3 is a numeric id and %223%22 the string id "3".
func lessonIDParam(c echo.Context, name string) (entity.LessonID, bool, error) {
	raw, err := url.PathUnescape(c.Param(name))
	if err != nil || raw == "" {
		return "", false, response.BindingError(c, "lesson id is not a valid path segment")
	}

	return entity.ParseLessonID(raw), true, nil
}
