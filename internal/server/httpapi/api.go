package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/logging"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
	"github.com/dmitrijs2005/controlpanel/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type AuthService interface {
	Signup(ctx context.Context, email, password string) (*services.Token, error)
	Login(ctx context.Context, email, password string) (*services.Token, error)
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

type WidgetService interface {
	GetLayout(ctx context.Context, userID int64) (*models.WidgetLayout, error)
	SaveLayout(ctx context.Context, userID int64, widgets []models.Widget) (*models.WidgetLayout, error)
}

type HealthService interface {
	GetSummary(ctx context.Context, userID int64) (*models.HealthSummary, error)
	SaveSummary(ctx context.Context, userID int64, in *models.HealthSummary) (*models.HealthSummary, error)
}

// Options configures the router.
type Options struct {
	AppName        string
	Environment    string
	APIBaseURL     string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// API holds the handler dependencies.
type API struct {
	auth    AuthService
	widgets WidgetService
	health  HealthService
	metrics *Metrics
	logger  logging.Logger
	opts    Options
}

func New(a AuthService, w WidgetService, h HealthService, m *Metrics, l logging.Logger, opts Options) *API {
	if m == nil {
		m = NewMetrics()
	}
	return &API{auth: a, widgets: w, health: h, metrics: m, logger: l.With("module", "http"), opts: opts}
}

// Handler builds the chi router with its middleware chain, outermost first.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		a.Recover(),
		RequestID(),
		Logging(a.logger),
		Instrument(a.metrics),
		CORS(a.opts.AllowedOrigins),
		Timeout(a.opts.RequestTimeout),
	)

	r.Get("/", a.root)
	r.Handle("/metrics", a.metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", a.signup)
		r.Post("/login", a.login)
		r.With(a.RequireAuth()).Get("/me", a.me)
	})

	r.Route("/widgets", func(r chi.Router) {
		r.Use(a.RequireAuth())
		r.Get("/layout", a.getLayout)
		r.Post("/layout", a.saveLayout)
		r.Put("/layout", a.saveLayout)
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/ping", a.ping)
		r.Group(func(r chi.Router) {
			r.Use(a.RequireAuth())
			r.Get("/summary", a.getSummary)
			r.Post("/summary", a.saveSummary)
			r.Put("/summary", a.saveSummary)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: APIError{
			Code: "not_found", Message: "not found", RequestID: r.Header.Get(RequestIDHeader),
		}})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: APIError{
			Code: "method_not_allowed", Message: "method not allowed", RequestID: r.Header.Get(RequestIDHeader),
		}})
	})
	return r
}
