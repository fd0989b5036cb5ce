package rest

import (
	"context"
	"fmt"
	"net/http"

	core_port "realty-notify-system/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - REST API сервер api-service.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewServer собирает роутер и создает сервер.
func NewServer(
	port string,
	subscriptions *SubscriptionsHandler,
	favorites *FavoritesHandler,
	users *UsersHandler,
	baseLogger core_port.LoggerPort,
) *Server {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-Trace-ID"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Регистрация контакта приходит от ботов без пользовательской сессии
		r.Post("/users/contacts", users.RegisterContact)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware)

			r.Post("/users/links", users.LinkAccounts)

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/", subscriptions.ListSubscriptions)
				r.Post("/", subscriptions.AddSubscription)
				r.Post("/pause", subscriptions.PauseAllSubscriptions)
				r.Put("/{subscriptionID}", subscriptions.UpdateSubscription)
				r.Delete("/{subscriptionID}", subscriptions.RemoveSubscription)
				r.Post("/{subscriptionID}/pause", subscriptions.PauseSubscription)
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", favorites.ListFavorites)
				r.Post("/", favorites.AddFavorite)
				r.Delete("/{adID}", favorites.RemoveFavorite)
			})
		})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
