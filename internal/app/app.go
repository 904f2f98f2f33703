package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stylehub/storefront/internal/catalog"
	"github.com/stylehub/storefront/internal/domain/checkout"
	"github.com/stylehub/storefront/internal/domain/plugin"
	"github.com/stylehub/storefront/internal/domain/promo"
	"github.com/stylehub/storefront/internal/handler"
	"github.com/stylehub/storefront/internal/session"
	"github.com/stylehub/storefront/pkg/health"
	"github.com/stylehub/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	products, err := catalog.Load()
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	lg.Info("Catalog loaded", zap.Int("products", len(products)))

	sessions := session.NewManager(session.ManagerConfig{
		Session: session.Config{
			Products: products,
			Promos:   promo.NewRuleSetValidator(defaultPromoRules()),
			Plugins:  defaultPlugins(),
			Checkout: checkout.FlowConfig{SettleDelay: cfg.SettleDelay},
		},
		TTL:           cfg.Session.TTL,
		SweepInterval: cfg.Session.SweepInterval,
	})

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddLivenessCheck("sessions", time.Second,
		health.CounterCheck(sessions.Len, cfg.Session.MaxSessions, "session"))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	h := handler.New(sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", h.Routes()))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "X-Session-ID"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("storefront-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Session eviction janitor.
	g.Go(func() error {
		if err := sessions.Run(gCtx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// Graceful shutdown: drain readiness, then stop the server.
	g.Go(func() error {
		<-gCtx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		return nil
	})

	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})

	return g.Wait()
}

// defaultPromoRules are the promo codes accepted at checkout.
func defaultPromoRules() []promo.Rule {
	return []promo.Rule{
		{
			Code:        "WELCOME10",
			Kind:        promo.KindPercentage,
			Value:       decimal.NewFromInt(10),
			Description: "10% off your first order",
		},
		{
			Code:        "SAVE20",
			Kind:        promo.KindFixed,
			Value:       decimal.NewFromInt(20),
			MinItems:    3,
			Description: "$20 off orders of 3+ items",
		},
		{
			Code:        "FREEBIE",
			Kind:        promo.KindFreeLowest,
			MinItems:    2,
			Description: "Cheapest item free",
		},
	}
}

// defaultPlugins are registered into every new session.
func defaultPlugins() []plugin.Plugin {
	return []plugin.Plugin{
		{
			ID:   "offer-banner",
			Name: "Offer Banner",
			Kind: plugin.KindOfferBanner,
			Config: plugin.Config{
				Enabled:  true,
				Position: plugin.PositionTop,
				Extra: map[string]string{
					"theme":    "dark",
					"title":    "Winter Sale - Up to 50% Off!",
					"subtitle": "Limited time offer on selected items",
				},
			},
		},
	}
}
