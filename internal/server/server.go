package server

import (
	"encoding/json"
	"net/http"
	"time"

	"freesplit/internal/config"
	"freesplit/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// Server holds the service dependencies the HTTP handlers call into.
type Server struct {
	groupService       services.GroupService
	participantService services.ParticipantService
	expenseService     services.ExpenseService
	debtService        services.DebtService
	logger             *zap.Logger
}

// New wires a chi router with the full middleware stack (request id, real
// ip, structured logging, panic recovery, timeouts, CORS, rate limiting) in
// front of the REST routes.
func New(cfg *config.Config, logger *zap.Logger, groupService services.GroupService, participantService services.ParticipantService, expenseService services.ExpenseService, debtService services.DebtService) http.Handler {
	s := &Server{
		groupService:       groupService,
		participantService: participantService,
		expenseService:     expenseService,
		debtService:        debtService,
		logger:             logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(zapLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(maxBodySize(cfg.MaxBodySize))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Cache-Control", "Pragma", "Expires"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))

		r.Post("/groups", s.createGroup)
		r.Get("/groups/{slug}", s.getGroup)
		r.Put("/groups/{slug}", s.updateGroup)

		r.Post("/groups/{slug}/participants", s.addParticipant)
		r.Put("/participants/{participantId}", s.updateParticipant)
		r.Delete("/participants/{participantId}", s.deleteParticipant)

		r.Get("/groups/{slug}/expenses", s.getExpensesByGroup)
		r.Post("/groups/{slug}/expenses", s.createExpense)
		r.Get("/expenses/{expenseId}", s.getExpenseWithSplits)
		r.Put("/expenses/{expenseId}", s.updateExpense)
		r.Delete("/expenses/{expenseId}", s.deleteExpense)

		r.Get("/groups/{slug}/debts", s.getDebts)
		r.Get("/groups/{slug}/ledger", s.getLedgerText)
		r.Get("/groups/{slug}/payments", s.getPayments)
		r.Post("/groups/{slug}/payments", s.createPayment)
	})

	return r
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// resolveGroupID looks up a group's numeric id from its URL slug, the form
// every nested route addresses a group by.
func (s *Server) resolveGroupID(r *http.Request, slug string) (int32, error) {
	resp, err := s.groupService.GetGroup(r.Context(), &services.GetGroupRequest{UrlSlug: slug})
	if err != nil {
		return 0, err
	}
	return resp.Group.Id, nil
}
