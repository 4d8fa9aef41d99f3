package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"

	"crowdfund/internal/http/handlers"
	"crowdfund/internal/middleware"
)

// Options configures the router around an App.
type Options struct {
	Verifier        middleware.TokenVerifier
	Logger          zerolog.Logger
	AllowedOrigins  []string
	Locales         *middleware.Locales
	CountryLookup   middleware.CountryLookup
	LoginRatePerMin int
	// TrustProxyHeaders lets X-Forwarded-For / X-Real-IP replace the
	// connection address. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	if opts.Locales == nil {
		opts.Locales, _ = middleware.NewLocales("en", nil)
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.Locales, opts.CountryLookup),
		func(next http.Handler) http.Handler { return servertiming.Middleware(next, nil) },
	)

	authenticated := middleware.Chain(middleware.Authenticate(opts.Verifier))
	owner := middleware.Chain(middleware.Authenticate(opts.Verifier), middleware.MatchBodyEmail())

	r.Get("/", app.Welcome)
	r.Get("/healthz", app.Health)

	// Session
	r.With(middleware.RateLimit(opts.LoginRatePerMin, time.Minute)).Post("/jwt", app.IssueSession)
	r.Post("/logout", app.Logout)

	// Campaigns
	r.Get("/allCampaign", app.CampaignList)
	r.Get("/currently-running-campaigns", app.CampaignsRunning)
	r.Get("/sort-campaigns", app.CampaignsSorted)
	r.With(authenticated).Get("/campaign/{id}", app.CampaignGet)
	r.With(owner).Post("/addCampaign", app.CampaignCreate)
	r.With(owner).Post("/myCampaign", app.CampaignMine)
	r.With(owner).Post("/updateCampaign/{id}", app.CampaignUpdate)
	r.With(owner).Delete("/myCampaign/{id}", app.CampaignDelete)

	// Donations
	r.With(authenticated).Post("/addMyDonations", app.DonationsCreate)
	r.With(owner).Post("/getMyDonations", app.DonationsMine)

	return gzhttp.GzipHandler(r)
}
