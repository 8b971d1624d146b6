package util

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Validatable payloads can check their own shape after binding.
type Validatable interface {
	Validate() error
}

// BindAndValidateBody binds the JSON request body into v and runs its
// validation if it implements Validatable.
func BindAndValidateBody(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to bind request body")
	}

	if validatable, ok := v.(Validatable); ok {
		if err := validatable.Validate(); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return nil
}

// ValidateAndReturn validates the response payload (if it implements
// Validatable) and writes it as JSON with the given status code.
func ValidateAndReturn(c echo.Context, code int, v interface{}) error {
	if validatable, ok := v.(Validatable); ok {
		if err := validatable.Validate(); err != nil {
			return errors.Wrap(err, "response payload validation failed")
		}
	}

	return c.JSON(code, v)
}
