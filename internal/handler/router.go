package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zhouzirui/wave-chatbot/backend/internal/assets"
	"github.com/zhouzirui/wave-chatbot/backend/internal/handler/chat"
	"github.com/zhouzirui/wave-chatbot/backend/internal/handler/faq"
	"github.com/zhouzirui/wave-chatbot/backend/internal/metrics"
	faqModel "github.com/zhouzirui/wave-chatbot/backend/internal/model/faq"
	faqService "github.com/zhouzirui/wave-chatbot/backend/internal/service/faq"
	"github.com/zhouzirui/wave-chatbot/backend/pkg/utils"
)

// Dependencies 汇总路由所需的服务。
type Dependencies struct {
	Store          faqModel.Store
	Resolver       *faqService.Service
	Metrics        *metrics.Resolver
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	faqHandler := faq.New(deps.Store)
	chatHandler := chat.New(deps.Resolver)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		search := "ready"
		if !deps.Resolver.Ready() {
			search = "unavailable"
		}
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"entries": deps.Store.Len(),
			"search":  search,
		})
	})
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	r.Get(assets.AvatarPath, assets.AvatarHandler)

	r.Route("/api", func(api chi.Router) {
		faqHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	})

	return r
}
