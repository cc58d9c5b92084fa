// Package main provides the crmflow API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/crmflow/crmflow/pkg/cmd"
	"github.com/crmflow/crmflow/pkg/delegates"
	"github.com/crmflow/crmflow/pkg/eventbus"
	"github.com/crmflow/crmflow/pkg/metrics"
	"github.com/crmflow/crmflow/pkg/otelhelper"
	"github.com/crmflow/crmflow/pkg/protocol"
	"github.com/crmflow/crmflow/pkg/registry"
	"github.com/crmflow/crmflow/pkg/store"
	"github.com/crmflow/crmflow/pkg/web"
	"github.com/crmflow/crmflow/pkg/workflow"
)

type API struct {
	logger      *slog.Logger
	entityStore store.EntityStore
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	promReg     *prometheus.Registry
	validate    *validator.Validate
}

func NewAPI(
	ctx context.Context,
	logger *slog.Logger,
	entityStore store.EntityStore,
	eventBus eventbus.EventBus,
) (*API, error) {
	tracer, err := otelhelper.NewTracer(ctx, "crmflow-api")
	if err != nil {
		return nil, err
	}

	bridge := delegates.NewEventBridge(eventBus)
	reg := cmd.NewRegistry(logger, protocol.Dependencies{
		Store:     entityStore,
		Mailer:    bridge,
		Calendar:  bridge,
		Directory: bridge,
		Segments:  bridge,
	})

	return &API{
		logger:      logger,
		entityStore: entityStore,
		registry:    reg,
		eventBus:    eventBus,
		tracer:      tracer,
		promReg:     prometheus.NewRegistry(),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (a *API) App() *fiber.App {
	m := metrics.New(a.promReg)

	service := workflow.NewService(a.entityStore, a.logger)
	pipeline := workflow.NewPipeline(a.registry, a.tracer)
	executor := workflow.NewExecutor(a.entityStore, pipeline, a.eventBus, m, a.tracer, a.logger)
	history := workflow.NewHistory(a.entityStore, a.logger)

	handlers := web.NewAPIHandlers(service, executor, history, a.registry, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("crmflow API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.ListWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Post("/validate", handlers.ValidateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Put("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/execute", handlers.ExecuteWorkflow)
	w.Get("/:id/executions", handlers.ListExecutions)
	w.Get("/:id/analytics", handlers.GetAnalytics)

	app.Get("/actions", handlers.ListActionTypes)

	app.Get("/health", handlers.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.promReg, promhttp.HandlerOpts{})))

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	a.logger.Info("Starting crmflow API", "port", port)

	return app.Listen(":" + strconv.Itoa(port))
}
