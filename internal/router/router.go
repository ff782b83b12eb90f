package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"lifin-backend/internal/chat"
	"lifin-backend/internal/handlers"
	"lifin-backend/internal/middleware"
	"lifin-backend/internal/proxy"
	"lifin-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	chatProxy *proxy.Handler,
	chatSocket *chat.SocketHandler,
	userHandler *handlers.UserHandler,
	newsHandler *handlers.NewsHandler,
	flipcardHandler *handlers.FlipcardHandler,
	materiHandler *handlers.MateriHandler,
	produkHandler *handlers.ProdukHandler,
	alokasiHandler *handlers.AlokasiHandler,
	wsHub *websocket.Hub,
	frontendURL string,
	proxyRateLimit int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// LLM proxy rate limiter, per IP
	proxyLimiter := middleware.NewRateLimiter(proxyRateLimit, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Mounted for every method: the proxy answers non-POST itself with 405
	// and an Allow header.
	r.Handle("/api/chat-proxy", proxyLimiter.Middleware(chatProxy))

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Berita Routes (public) ────
		r.Route("/berita", func(r chi.Router) {
			r.Get("/", newsHandler.List)
			r.Get("/{id}", newsHandler.Get)
		})

		// ──── Flipcard Routes (public) ────
		r.Route("/flipcards", func(r chi.Router) {
			r.Get("/", flipcardHandler.List)
			r.Get("/random", flipcardHandler.Random)
		})

		// ──── Planner Routes (public) ────
		r.Post("/alokasi", alokasiHandler.Calculate)
		r.Post("/produk", produkHandler.Recommend)

		// ──── Materi Routes ────
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/materi", materiHandler.Overview)
		})

		// ──── User Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateName)
			r.Put("/level", userHandler.UpdateLevel)
			r.Post("/progress", userHandler.CompleteLesson)
			r.Post("/reset-progress", userHandler.ResetProgress)
		})

		// ──── WebSockets ────
		r.Get("/chat/ws", chatSocket.ServeHTTP)
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
