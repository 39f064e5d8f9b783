package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jagaldol/my-fitness-server/internal/config"
	authsvc "github.com/jagaldol/my-fitness-server/internal/services/auth"
	userssvc "github.com/jagaldol/my-fitness-server/internal/services/users"
	workoutsvc "github.com/jagaldol/my-fitness-server/internal/services/workout"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	UserService    *userssvc.Service
	WorkoutService *workoutsvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	userHandler := handlers.NewUserHandler(deps.UserService)
	sessionHandler := handlers.NewSessionHandler(deps.WorkoutService)
	recordHandler := handlers.NewRecordHandler(deps.WorkoutService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Post("/login", authHandler.Login)
	r.Post("/authentication", authHandler.Reissue)
	r.With(authMW).Post("/logout", authHandler.Logout)

	r.Route("/users", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/mine", userHandler.GetMine)
		r.Put("/mine", userHandler.UpdateMine)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", sessionHandler.Create)
		r.Get("/", sessionHandler.List)
		// above /{sessionId} so "dates" is not parsed as an id
		r.Get("/dates", sessionHandler.Dates)
		r.Get("/{sessionId}", sessionHandler.Get)
		r.Put("/{sessionId}", sessionHandler.Update)
		r.Delete("/{sessionId}", sessionHandler.Delete)
		r.Post("/{sessionId}/records", recordHandler.Create)
	})
}
