package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shouni/gcp-kit/worker"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/builder"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/server/handlers"
)

// NewRouter は、ミドルウェアとルーティングを統合した http.Handler を構築します。
func NewRouter(cfg *config.Config, h *builder.AppHandlers) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r)
	setupRoutes(r, cfg, h.API, h.Worker)

	return r
}

func setupCommonMiddleware(r *chi.Mux) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
}

func setupRoutes(
	r chi.Router,
	cfg *config.Config,
	apiHandler *handlers.Handler,
	workerHandler *worker.Handler[domain.ProcessTaskPayload],
) {
	r.Get("/healthz", apiHandler.Health)

	// --- 公開 API (投入と照会) ---
	r.Route("/api/v1/process-content", func(r chi.Router) {
		r.Post("/", apiHandler.HandleSubmit)
		r.Get("/", apiHandler.HandleList)
		r.Get("/{jobID}", apiHandler.HandleStatus)
	})

	// --- Cloud Tasks 専用ルート (Worker 用) ---
	// pool モードではプロセス内ワーカーが直接実行するため、この経路は開きません。
	if cfg.DispatchMode == config.DispatchModeCloudTasks {
		r.Group(func(r chi.Router) {
			r.Use(taskAuthMiddleware(cfg.TaskAuthToken))
			r.Post("/tasks/process-content", workerHandler.ProcessTask)
		})
	}
}

// taskAuthMiddleware はワーカー経路を共有トークンで保護します。
// トークンが未設定の場合、経路は常に 401 を返します。
func taskAuthMiddleware(token string) func(http.Handler) http.Handler {
	const prefix = "Bearer "

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token == "" || !strings.HasPrefix(header, prefix) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			got := strings.TrimPrefix(header, prefix)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
