package http

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the handlers into the route tree. Everything under
// /api/account requires a valid bearer session, as does logout.
func NewRouter(
	auth *AuthHandler,
	verification *VerificationHandler,
	role *RoleHandler,
	social *SocialHandler,
	account *AccountHandler,
	authenticate *Authenticate,
	logging *Logging,
) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(logging.Handle)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
			r.Get("/google", social.Redirect)
			r.Get("/google/callback", social.Callback)

			r.Group(func(r chi.Router) {
				r.Use(authenticate.Handle)
				r.Post("/logout", auth.Logout)
			})
		})

		r.Route("/verification", func(r chi.Router) {
			r.Post("/email/request", verification.RequestEmail)
			r.Post("/email/confirm", verification.ConfirmEmail)
			r.Post("/phone/request", verification.RequestPhoneCode)
			r.Post("/phone/resend", verification.ResendPhoneCode)
			r.Post("/phone/confirm", verification.ConfirmPhoneCode)
		})

		r.Route("/account", func(r chi.Router) {
			r.Use(authenticate.Handle)
			r.Get("/me", account.GetSelf)
			r.Post("/avatar", account.UploadAvatar)
			r.Patch("/role", role.UpdateRole)
			r.Post("/profile", role.CompleteProfile)
		})
	})

	return r
}
