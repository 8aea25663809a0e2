package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/promptvault/promptvault/internal/api/handlers"
	"github.com/promptvault/promptvault/internal/api/middleware"
	"github.com/promptvault/promptvault/internal/cache"
	"github.com/promptvault/promptvault/internal/category"
	"github.com/promptvault/promptvault/internal/config"
	"github.com/promptvault/promptvault/internal/history"
	"github.com/promptvault/promptvault/internal/project"
	"github.com/promptvault/promptvault/internal/prompt"
	"github.com/promptvault/promptvault/internal/provider"
	"github.com/promptvault/promptvault/internal/settings"
	"github.com/promptvault/promptvault/internal/store"
	"github.com/promptvault/promptvault/internal/tag"
	"github.com/promptvault/promptvault/internal/transfer"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.CORS.AllowedOrigins))

	throttle := middleware.NewThrottle(rt.cfg.RateLimit.RPS, rt.cfg.RateLimit.Burst)
	r.Use(throttle.Handler)

	// Health endpoints
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	st := store.New(rt.db)
	var c *cache.Cache
	if rt.redis != nil {
		c = cache.NewCache(rt.redis)
	}

	projectSvc := project.NewService(st)
	promptSvc := prompt.NewService(st)
	historySvc := history.NewService(st)
	tagSvc := tag.NewService(st)
	categorySvc := category.NewService(st)
	settingsSvc := settings.NewService(st)
	providerSvc := provider.NewService(st, c, provider.LegacyConfig{
		APIKey:       rt.cfg.LLM.APIKey,
		APIURL:       rt.cfg.LLM.APIURL,
		Model:        rt.cfg.LLM.Model,
		SystemPrompt: rt.cfg.LLM.SystemPrompt,
	})
	transferSvc := transfer.NewService(st)

	projectH := handlers.NewProjectHandler(projectSvc)
	promptH := handlers.NewPromptHandler(promptSvc, historySvc)
	tagH := handlers.NewTagHandler(tagSvc)
	categoryH := handlers.NewCategoryHandler(categorySvc)
	settingsH := handlers.NewSettingsHandler(settingsSvc, providerSvc)
	transferH := handlers.NewTransferHandler(transferSvc)
	llmH := handlers.NewLLMHandler(providerSvc, historySvc)

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectH.List)
			r.Post("/", projectH.Create)
			r.Get("/{id}", projectH.Get)
			r.Put("/{id}", projectH.Update)
			r.Delete("/{id}", projectH.Delete)

			r.Get("/{id}/prompts", promptH.List)
			r.Post("/{id}/prompts", promptH.Create)
			r.Get("/{id}/sdk/prompt", promptH.SDKPrompt)
		})

		r.Route("/prompts", func(r chi.Router) {
			r.Get("/{id}", promptH.Get)
			r.Put("/{id}", promptH.Update)
			r.Delete("/{id}", promptH.Delete)
			r.Get("/{id}/diff/{targetId}", promptH.Diff)
			r.Post("/{id}/rollback", promptH.Rollback)
			r.Get("/{id}/history", promptH.History)
			r.Get("/{id}/test-history", promptH.TestHistory)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tagH.List)
			r.Post("/", tagH.Create)
			r.Get("/{id}", tagH.Get)
			r.Put("/{id}", tagH.Update)
			r.Delete("/{id}", tagH.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryH.List)
			r.Post("/", categoryH.Create)
			r.Get("/{id}", categoryH.Get)
			r.Put("/{id}", categoryH.Update)
			r.Delete("/{id}", categoryH.Delete)
		})

		r.Get("/settings", settingsH.Get)
		r.Post("/settings", settingsH.Update)
		r.Get("/llm-providers", settingsH.ListProviders)
		r.Post("/llm-providers", settingsH.SaveProviders)

		r.Post("/test-prompt", llmH.TestPrompt)
		r.Post("/optimize-prompt", llmH.OptimizePrompt)

		r.Post("/export", transferH.Export)
		r.Post("/import", transferH.Import)
	})

	return r
}
