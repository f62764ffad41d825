package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/changecyclestatus"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/imposefine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/ratecycle"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/redeemcheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/redeemcheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/registercycle"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/settlefine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/cycleregistry"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/fineledger"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/rentalledger"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
)

const (
	logMsgRequestFailed = "httpapi: request failed"
	logAttrMethod       = "method"
	logAttrPath         = "path"
	logAttrError        = "error"
)

var ErrMissingJWTSecret = errors.New("jwt secret must not be empty")

// Handlers are the (usually observable) command and query handlers the routes delegate to.
type Handlers struct {
	IssueCheckoutToken  shell.CoreCommandHandler[issuecheckouttoken.Command]
	RedeemCheckoutToken shell.CoreCommandHandler[redeemcheckouttoken.Command]
	IssueCheckinToken   shell.CoreCommandHandler[issuecheckintoken.Command]
	RedeemCheckinToken  shell.CoreCommandHandler[redeemcheckintoken.Command]
	RateCycle           shell.CoreCommandHandler[ratecycle.Command]
	RegisterCycle       shell.CoreCommandHandler[registercycle.Command]
	ChangeCycleStatus   shell.CoreCommandHandler[changecyclestatus.Command]
	ImposeFine          shell.CoreCommandHandler[imposefine.Command]
	SettleFine          shell.CoreCommandHandler[settlefine.Command]

	GetCycle      shell.CoreQueryHandler[cycleregistry.Query, cycleregistry.Cycle]
	GetRentals    shell.CoreQueryHandler[rentalledger.Query, rentalledger.Rentals]
	GetFineLedger shell.CoreQueryHandler[fineledger.Query, fineledger.FineBalance]
}

// Server maps HTTP requests to commands and queries.
type Server struct {
	handlers   Handlers
	jwtSecret  []byte
	validate   *validator.Validate
	gatherer   prometheus.Gatherer
	now        func() time.Time
	newTokenID func() (core.TokenIDString, error)
	newID      func() string
	logger     shell.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithTokenIDs replaces the random token generator, for tests.
func WithTokenIDs(newTokenID func() (core.TokenIDString, error)) Option {
	return func(s *Server) {
		s.newTokenID = newTokenID
	}
}

// WithGatherer sets the registry /metrics serves, the default is prometheus.DefaultGatherer.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithLogger sets a logger for internal errors.
func WithLogger(logger shell.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func NewServer(handlers Handlers, jwtSecret string, opts ...Option) (*Server, error) {
	if jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	s := &Server{
		handlers:   handlers,
		jwtSecret:  []byte(jwtSecret),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		gatherer:   prometheus.DefaultGatherer,
		now:        time.Now,
		newTokenID: shell.NewTokenID,
		newID:      uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Router builds the chi router with all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/checkout-tokens", s.handleIssueCheckoutToken)
		r.Post("/checkout-tokens/{token}/redeem", s.handleRedeemCheckoutToken)
		r.Post("/checkin-tokens", s.handleIssueCheckinToken)
		r.Post("/checkin-tokens/{token}/redeem", s.handleRedeemCheckinToken)
		r.Post("/rentals/{rentalID}/rating", s.handleRateCycle)

		r.Get("/cycles/{cycleID}", s.handleGetCycle)
		r.Get("/students/{studentID}/rentals", s.handleGetRentals)
		r.Get("/students/{studentID}/fines", s.handleGetFines)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireRole(core.RoleAdmin))

			r.Post("/cycles", s.handleRegisterCycle)
			r.Put("/cycles/{cycleID}/status", s.handleChangeCycleStatus)
			r.Post("/students/{studentID}/fines", s.handleImposeFine)
			r.Post("/students/{studentID}/fine-payments", s.handleSettleFine)
		})
	})

	return r
}

// decode reads the JSON body into dst and validates it. An empty body validates the zero value.
func (s *Server) decode(r *http.Request, dst any) error {
	err := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(ErrMalformedRequest, err)
	}

	return s.validate.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w).Encode(payload)
}
