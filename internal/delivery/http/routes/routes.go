package routes

import (
	"nasu-match/internal/delivery/http/handler"
	"nasu-match/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	health *handler.HealthHandler
	leads  *handler.LeadHandler
	match  *handler.MatchHandler
	ws     *ws.Handler
}

func NewRegistry(health *handler.HealthHandler, leads *handler.LeadHandler, match *handler.MatchHandler, wsHandler *ws.Handler) *Registry {
	return &Registry{health: health, leads: leads, match: match, ws: wsHandler}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerMetrics(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerMetrics(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.ws != nil {
		r.ws.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api").Group("/v1")
	if r.leads != nil {
		r.leads.RegisterRoutes(v1)
	}
	if r.match != nil {
		r.match.RegisterRoutes(v1)
	}
}
