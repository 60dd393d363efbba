package app

import (
	"fmt"
	"strings"

	"nasu-match/internal/config"
	"nasu-match/internal/delivery/http/handler"
	"nasu-match/internal/delivery/http/middleware"
	"nasu-match/internal/delivery/http/routes"
	"nasu-match/internal/logger"
	"nasu-match/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New wires the HTTP surface onto an already built container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	c.Logger = logger.OrNop(c.Logger)
	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	go c.Hub.Run()

	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(log.Named("http"))
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware(log.Named("http"))
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var pinger handler.Pinger
	if c.DB != nil {
		pinger = c.DB
	}

	routes.NewRegistry(
		handler.NewHealthHandler(pinger),
		handler.NewLeadHandler(c.Leads),
		handler.NewMatchHandler(c.Matching),
		ws.NewHandler(c.Hub, c.Logger.Named("ws")),
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
