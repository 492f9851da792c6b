package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type Handlers struct {
	Sessions *SessionHandlers
	Records  *RecordHandlers
	Uploads  *UploadHandlers
	Auth     *AuthHandlers
	Calendar *CalendarHandlers
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter wires the public, authenticated and admin route groups.
func NewRouter(handlers Handlers, authMiddleware *AuthMiddleware, allowedOrigins []string, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID", "X-Property-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// public
		r.Group(func(r chi.Router) {
			r.Post("/auth/login", handlers.Auth.Login)
			r.Post("/auth/logout", handlers.Auth.Logout)
			r.Get("/calendar/hijri", handlers.Calendar.Hijri)
			r.Get("/{kind}", handlers.Records.List)
			r.Get("/{kind}/{id}", handlers.Records.Get)
		})

		// admin only
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(authMiddleware.RequireRole(domain.RoleAdmin))

			r.Get("/auth/me", handlers.Auth.Me)
			r.Post("/upload", handlers.Uploads.Upload)

			r.Post("/{kind}", handlers.Records.Create)
			r.Patch("/{kind}/{id}", handlers.Records.Update)
			r.Delete("/{kind}/{id}", handlers.Records.Delete)

			r.Route("/sessions", func(r chi.Router) {
				s := handlers.Sessions
				r.Post("/", s.Create)
				r.Post("/edit/{kind}/{recordID}", s.Edit)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.Get)
					r.Delete("/", s.Cancel)
					r.Patch("/fields", s.SetFields)
					r.Post("/steps/next", s.Next)
					r.Post("/steps/prev", s.Prev)
					r.Post("/main-image", s.UploadMainImage)
					r.Post("/gallery", s.UploadGallery)
					r.Delete("/gallery/{index}", s.RemoveGalleryImage)
					r.Post("/properties", s.AddProperty)
					r.Patch("/properties/{propertyID}", s.UpdateProperty)
					r.Delete("/properties/{propertyID}", s.RemoveProperty)
					r.Post("/properties/{propertyID}/images", s.UploadPropertyImages)
					r.Delete("/properties/{propertyID}/images/{index}", s.RemovePropertyImage)
					r.Post("/submit", s.Submit)
				})
			})
		})
	})

	return r
}

func NewServer(listenPort string, handler http.Handler, baseLogger port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + listenPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(port.Fields{"component": "rest_server"}),
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
