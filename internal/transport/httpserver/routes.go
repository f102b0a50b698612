package httpserver

import (
	"net/http"
	"time"

	"familycart-go/internal/config"
	"familycart-go/internal/transport/httpserver/handler"
	authmw "familycart-go/internal/transport/httpserver/middleware"
	"familycart-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens authmw.TokenParser, users authmw.UserLoader, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins))

	auth := authmw.NewJWTAuth(tokens, users, log)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.Health)

		r.Route("/user", func(r chi.Router) {
			r.Post("/signup", handlers.SignUp)
			r.Post("/login", handlers.Login)
			r.Get("/verify_otp", handlers.VerifyOTP)
			r.Get("/resend_mail", handlers.ResendMail)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)
				r.Get("/profile", handlers.GetProfile)
				r.Patch("/profile", handlers.UpdateProfile)
			})
		})

		r.Route("/family", func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Post("/join", handlers.JoinFamily)
			r.Get("/list", handlers.ListMemberships)
		})

		r.Route("/grocery", func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/grocery-lists", handlers.ListGroceryLists)
			r.Post("/grocery-lists", handlers.CreateGroceryList)
			r.Get("/grocery-lists/{list_id}", handlers.GetGroceryList)
			r.Patch("/grocery-lists/{list_id}", handlers.UpdateGroceryList)
			r.Delete("/grocery-lists/{list_id}", handlers.DeleteGroceryList)

			r.Get("/grocery-items", handlers.ListGroceryItems)
			r.Post("/grocery-items", handlers.CreateGroceryItem)
			r.Put("/grocery-items/{item_id}", handlers.ReplaceGroceryItem)
			r.Patch("/grocery-items/{item_id}", handlers.PatchGroceryItem)
			r.Delete("/grocery-items/{item_id}", handlers.DeleteGroceryItem)
		})
	})

	return r
}
