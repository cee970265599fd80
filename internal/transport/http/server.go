// Package http provides the HTTP server implementation for the chat backend.
package http

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/xiaot623/gogo/chatmem/internal/config"
	"github.com/xiaot623/gogo/chatmem/internal/service"
	v1 "github.com/xiaot623/gogo/chatmem/internal/transport/http/v1"
	"github.com/xiaot623/gogo/chatmem/internal/transport/ws"
)

// NewServer creates and configures the public HTTP server: the JSON chat
// API and the WebSocket chat endpoint.
func NewServer(svc *service.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	level := logLevel(cfg.LogLevel)
	e.Logger.SetLevel(level)

	// Middleware
	if level <= log.INFO {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	wsServer := ws.NewServer(svc, cfg)

	// Register Routes
	v1Handler.RegisterRoutes(e)
	wsServer.RegisterRoutes(e)

	return e
}

// logLevel maps LOG_LEVEL to echo's logger level. Unknown values mean info.
func logLevel(name string) log.Lvl {
	switch strings.ToLower(name) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
