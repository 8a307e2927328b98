package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"parishevents/internal/delivery/http/controllers"
	"parishevents/internal/delivery/http/middleware"
	"parishevents/internal/domain"
)

// Controllers bundles the route handlers for NewRouter.
type Controllers struct {
	Auth       *controllers.AuthController
	Event      *controllers.EventController
	Registrant *controllers.RegistrantController
	CheckIn    *controllers.CheckInController
	Card       *controllers.CardController
	Team       *controllers.TeamController
	Payment    *controllers.PaymentController
	Finance    *controllers.FinanceController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Per-operator fixed-window limits on the avatar endpoints.
	avatarUploadLimiter := middleware.NewRateLimiter(5, time.Minute)
	avatarUpdateLimiter := middleware.NewRateLimiter(3, time.Minute)
	avatarDeleteLimiter := middleware.NewRateLimiter(5, time.Minute)

	// Auth
	mux.HandleFunc("POST /api/auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /api/auth/login", c.Auth.Login)

	// Events
	mux.HandleFunc("POST /api/events", auth(c.Event.Create))
	mux.HandleFunc("GET /api/events", c.Event.List)
	mux.HandleFunc("GET /api/events/{eventID}", c.Event.Get)

	// Registrants
	mux.HandleFunc("POST /api/events/{eventID}/registrants", c.Registrant.SignUp)
	mux.HandleFunc("GET /api/events/{eventID}/registrants", auth(c.Registrant.ListByEvent))
	mux.HandleFunc("GET /api/registrants/{registrantID}", auth(c.Registrant.Get))
	mux.HandleFunc("PATCH /api/registrants/{registrantID}", auth(c.Registrant.Update))
	mux.HandleFunc("DELETE /api/registrants/{registrantID}", auth(c.Registrant.Delete))
	mux.HandleFunc("POST /api/registrants/{registrantID}/avatar", auth(avatarUploadLimiter.Limit(c.Registrant.SetAvatar)))
	mux.HandleFunc("PUT /api/registrants/{registrantID}/avatar", auth(avatarUpdateLimiter.Limit(c.Registrant.UpdateAvatar)))
	mux.HandleFunc("DELETE /api/registrants/{registrantID}/avatar", auth(avatarDeleteLimiter.Limit(c.Registrant.DeleteAvatar)))

	// Check-in
	mux.HandleFunc("POST /api/check-in", auth(c.CheckIn.CheckIn))
	mux.HandleFunc("POST /api/check-in/scan", auth(c.CheckIn.Scan))
	mux.HandleFunc("POST /api/check-in/scan/reset", auth(c.CheckIn.ResetScan))
	mux.HandleFunc("GET /api/check-in/scan/stats", auth(c.CheckIn.ScanStats))
	mux.HandleFunc("GET /api/events/{eventID}/check-ins", auth(c.CheckIn.ListByEvent))
	mux.HandleFunc("GET /api/events/{eventID}/check-ins/count", auth(c.CheckIn.CountByEvent))

	// Cards
	mux.HandleFunc("POST /api/cards/generate", auth(c.Card.Generate))
	mux.HandleFunc("POST /api/cards/export", auth(c.Card.Export))

	// Teams and roles
	mux.HandleFunc("POST /api/events/{eventID}/teams", auth(c.Team.Create))
	mux.HandleFunc("GET /api/events/{eventID}/teams", auth(c.Team.List))
	mux.HandleFunc("PUT /api/teams/{teamID}/members/{registrantID}", auth(c.Team.AssignMember))
	mux.HandleFunc("DELETE /api/teams/{teamID}/members/{registrantID}", auth(c.Team.RemoveMember))
	mux.HandleFunc("PUT /api/registrants/{registrantID}/role", auth(c.Team.AssignRole))
	mux.HandleFunc("DELETE /api/teams/{teamID}", auth(c.Team.Delete))

	// Payments
	mux.HandleFunc("POST /api/registrants/{registrantID}/receipts", c.Payment.SubmitReceipt)
	mux.HandleFunc("GET /api/receipts/pending", auth(c.Payment.ListPending))
	mux.HandleFunc("POST /api/receipts/{receiptID}/verify", auth(c.Payment.Verify))
	mux.HandleFunc("POST /api/receipts/{receiptID}/reject", auth(c.Payment.Reject))

	// Finance
	mux.HandleFunc("POST /api/events/{eventID}/donations", auth(c.Finance.RecordDonation))
	mux.HandleFunc("GET /api/events/{eventID}/donations", auth(c.Finance.ListDonations))
	mux.HandleFunc("POST /api/events/{eventID}/expenses", auth(c.Finance.SubmitExpense))
	mux.HandleFunc("GET /api/events/{eventID}/expenses", auth(c.Finance.ListExpenses))
	mux.HandleFunc("POST /api/expenses/{claimID}/review", auth(c.Finance.ReviewExpense))
	mux.HandleFunc("GET /api/events/{eventID}/finance/summary", auth(c.Finance.Summary))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
