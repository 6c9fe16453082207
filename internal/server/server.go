// Package server exposes the members state over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/daniloc96/github-members-state/internal/fetch"
	"github.com/daniloc96/github-members-state/internal/interfaces"
	"github.com/daniloc96/github-members-state/internal/log"
	"github.com/daniloc96/github-members-state/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

const (
	// maxActionBody bounds the body accepted by the actions endpoint.
	maxActionBody = "1M"
	// refreshTimeout bounds a refresh once it is detached from the request.
	refreshTimeout = 30 * time.Second
)

// Store is the state container the server reads from and dispatches to.
type Store interface {
	interfaces.StateReader
	interfaces.Dispatcher
}

// Server serves the members state.
type Server struct {
	echo    *echo.Echo
	store   Store
	fetcher interfaces.Fetcher
}

// RefreshResponse is returned by the refresh endpoint.
type RefreshResponse struct {
	Result *models.FetchResult `json:"result"`
	State  models.MembersState `json:"state"`
}

// New builds a server with its routes registered.
func New(store Store, fetcher interfaces.Fetcher) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger())

	s := &Server{echo: e, store: store, fetcher: fetcher}
	e.GET("/healthz", s.health)
	e.GET("/members", s.getMembers)
	e.POST("/members/refresh", s.refresh)
	e.POST("/members/actions", s.dispatch, middleware.BodyLimit(maxActionBody))
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on address until Shutdown is called.
func (s *Server) Start(address string) error {
	log.Component("server").WithField("address", address).Info("serving members state")
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getMembers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.State())
}

// refresh runs the fetch detached from the request: the store is shared, so a
// client hanging up must not land a cancellation error in everyone's state.
func (s *Server) refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), refreshTimeout)
	defer cancel()

	result, err := s.fetcher.Fetch(ctx)
	if errors.Is(err, fetch.ErrFetchInProgress) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RefreshResponse{Result: result, State: s.store.State()})
}

func (s *Server) dispatch(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, "could not read action")
	}
	action, err := models.DecodeAction(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	state := s.store.Dispatch(action)
	log.Component("server").WithField("type", action.Type()).Debug("action dispatched")
	return c.JSON(http.StatusOK, state)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.Component("http").WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Debug("request handled")
			return nil
		},
	})
}
