package api

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"kiosk-service/internal/auth"
	"kiosk-service/internal/service"
)

// writeError maps service errors onto HTTP status codes.
func writeError(c echo.Context, err error) error {
	var rejection *service.RejectionError
	switch {
	case errors.As(err, &rejection):
		body := map[string]interface{}{"message": rejection.Message}
		if len(rejection.Errors) > 0 {
			body["errors"] = rejection.Errors
		}
		return c.JSON(400, body)
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInsufficient),
		errors.Is(err, service.ErrConflict):
		return c.JSON(400, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(404, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(401, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(403, map[string]string{"error": err.Error()})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	return c.JSON(500, map[string]string{"error": "Internal server error."})
}

func paramID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func invalidID(c echo.Context) error {
	return c.JSON(400, map[string]string{"error": "Invalid ID"})
}

func invalidPayload(c echo.Context) error {
	return c.JSON(400, map[string]string{"error": "Invalid request payload"})
}

// caller builds the acting identity from the token claims.
func caller(c echo.Context) service.Caller {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return service.Caller{}
	}
	return service.Caller{UserID: claims.UserID, SuperUser: claims.IsSuperUser()}
}
