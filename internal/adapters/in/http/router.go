package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"storefront/api"
	"storefront/internal/generated/servers"
	"storefront/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig carries what the router needs besides the Server.
type RouterConfig struct {
	StaffJWTSecret []byte
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

// NewRouter builds the echo instance serving the storefront API together with
// health, metrics and API documentation endpoints.
func NewRouter(server *Server, cfg RouterConfig) (*echo.Echo, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}

	validator, err := RequestValidator(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("create request validator: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(RequestLogger(logger))
	e.Use(RequestMetrics(m))
	e.Use(StaffOnly(cfg.StaffJWTSecret))
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", api.OpenAPI)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.yaml")))

	servers.RegisterHandlers(e, server)

	return e, nil
}

func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
		} else {
			logger.ErrorContext(c.Request().Context(), "unhandled error", "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, servers.Error{Code: code, Message: message})
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}
