package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront/internal/generated/servers"
	"storefront/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// StaffRole is the value of the "role" claim that unlocks staff routes.
const StaffRole = "staff"

const (
	staffPathPrefix = "/api/v1/staff/"
	staffSubjectKey = "staff_subject"
)

// RequestValidator rejects requests that do not match the OpenAPI document.
// Requests to paths the document does not describe pass through untouched.
func RequestValidator(document []byte) (echo.MiddlewareFunc, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	// Host matching is left to the listener.
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				// Unknown paths and methods are answered by echo itself.
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				reason, _, _ := strings.Cut(err.Error(), "\n")
				return c.JSON(http.StatusBadRequest, servers.Error{
					Code:    http.StatusBadRequest,
					Message: "invalid request: " + reason,
				})
			}

			return next(c)
		}
	}, nil
}

// StaffOnly guards staff routes with an HS256 bearer token carrying
// role=staff. An empty secret disables staff routes altogether.
func StaffOnly(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Path(), staffPathPrefix) {
				return next(c)
			}

			if len(secret) == 0 {
				return c.JSON(http.StatusForbidden, servers.Error{
					Code:    http.StatusForbidden,
					Message: "staff access is disabled",
				})
			}

			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c, "missing bearer token")
			}

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				return unauthorized(c, "invalid bearer token")
			}

			if role, _ := claims["role"].(string); role != StaffRole {
				return c.JSON(http.StatusForbidden, servers.Error{
					Code:    http.StatusForbidden,
					Message: "staff role required",
				})
			}

			if sub, ok := claims["sub"].(string); ok {
				c.Set(staffSubjectKey, sub)
			}

			return next(c)
		}
	}
}

// IssueStaffToken signs a staff token for subject valid for ttl from now.
func IssueStaffToken(secret []byte, subject string, now time.Time, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("staff token secret is empty")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": StaffRole,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign staff token: %w", err)
	}

	return signed, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

func unauthorized(c echo.Context, message string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="staff"`)

	return c.JSON(http.StatusUnauthorized, servers.Error{
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}

// RequestMetrics records one observation per request, labelled by route template.
func RequestMetrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, c.Request().Method, status, time.Since(start))

			return err
		}
	}
}

// RequestLogger logs one line per request through slog.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("requestId", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)

			return nil
		},
	})
}
