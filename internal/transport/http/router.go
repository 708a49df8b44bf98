package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otp-auth-api/internal/application/auth"
	"github.com/otp-auth-api/internal/application/otp"
	"github.com/otp-auth-api/internal/application/profile"
	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/domain"
	jwtinfra "github.com/otp-auth-api/internal/infrastructure/jwt"
	"github.com/otp-auth-api/internal/infrastructure/smtp"
	"github.com/otp-auth-api/internal/infrastructure/sns"
	"github.com/otp-auth-api/internal/transport/http/handler"
	appmiddleware "github.com/otp-auth-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
// User and seller OTP stores must be distinct so codes never cross actor kinds.
type Deps struct {
	UserRepo       UserRepository
	SellerRepo     SellerRepository
	UserOTPStore   otp.Store
	SellerOTPStore otp.Store
	ObjectStore    ObjectStore
	Mailer         smtp.Mailer
	SMSSender      sns.SMSSender
	JWTProvider    *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	notifier := auth.NewNotifier(deps.Mailer, deps.SMSSender, cfg.OTPExpiry)
	userOTPs := otp.NewService(otp.ServiceDeps{Store: deps.UserOTPStore, Expiry: cfg.OTPExpiry})
	sellerOTPs := otp.NewService(otp.ServiceDeps{Store: deps.SellerOTPStore, Expiry: cfg.OTPExpiry})

	userAuthSvc := auth.NewUserService(auth.UserServiceDeps{
		UserRepo:     deps.UserRepo,
		OTPs:         userOTPs,
		Tokens:       deps.JWTProvider,
		Notifier:     notifier,
		DebugEchoOTP: cfg.DebugEchoOTP,
	})
	sellerAuthSvc := auth.NewSellerService(auth.SellerServiceDeps{
		SellerRepo:   deps.SellerRepo,
		OTPs:         sellerOTPs,
		Tokens:       deps.JWTProvider,
		Notifier:     notifier,
		DebugEchoOTP: cfg.DebugEchoOTP,
	})
	profileSvc := profile.NewService(profile.ServiceDeps{
		UserRepo:   deps.UserRepo,
		SellerRepo: deps.SellerRepo,
		Blobs:      deps.ObjectStore,
	})

	healthH := handler.NewHealthHandler()
	userAuthH := handler.NewUserAuthHandler(userAuthSvc)
	sellerAuthH := handler.NewSellerAuthHandler(sellerAuthSvc)
	profileH := handler.NewProfileHandler(profileSvc)

	userGate := appmiddleware.Auth(deps.JWTProvider, domain.ActorUser, deps.UserRepo.GetStatus)
	sellerGate := appmiddleware.Auth(deps.JWTProvider, domain.ActorSeller, deps.SellerRepo.GetStatus)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Route("/user", func(r chi.Router) {
			r.Post("/auth/register", userAuthH.Register)
			r.Post("/auth/verify-registration", userAuthH.VerifyRegistration)
			r.Post("/auth/login", userAuthH.Login)
			r.Post("/auth/verify-login", userAuthH.VerifyLogin)

			r.Group(func(r chi.Router) {
				r.Use(userGate)
				r.Get("/profile", profileH.GetUser)
				r.Put("/profile", profileH.UpdateUser)
			})
		})

		r.Route("/seller", func(r chi.Router) {
			r.Post("/auth/register", sellerAuthH.Register)
			r.Post("/auth/verify-registration", sellerAuthH.VerifyRegistration)
			r.Post("/auth/login", sellerAuthH.Login)
			r.Post("/auth/verify-login", sellerAuthH.VerifyLogin)

			r.Group(func(r chi.Router) {
				r.Use(sellerGate)
				r.Get("/profile", profileH.GetSeller)
			})
		})
	})

	return r
}
