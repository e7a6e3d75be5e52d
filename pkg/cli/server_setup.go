package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/castlepact/internal/id"
	"github.com/getmockd/castlepact/pkg/config"
	"github.com/getmockd/castlepact/pkg/fixture"
	"github.com/getmockd/castlepact/pkg/graphql"
	"github.com/getmockd/castlepact/pkg/metrics"
	"github.com/getmockd/castlepact/pkg/relation"
	"github.com/getmockd/castlepact/pkg/rest"
	"github.com/getmockd/castlepact/pkg/stateful"
)

// shutdownTimeout bounds graceful shutdown of both listeners.
const shutdownTimeout = 5 * time.Second

const readHeaderTimeout = 10 * time.Second

// Server wires the stores, fixture loader and both HTTP surfaces.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	castles  *stateful.CastleStore
	rulers   *stateful.RulerStore
	loader   *fixture.Loader
	registry *prometheus.Registry

	restHandler    http.Handler
	graphqlHandler http.Handler
}

// NewServer builds a Server from cfg. When cfg names a fixture file it is
// installed before NewServer returns.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := stateful.NewPrometheusObserver(s.registry)
	if err != nil {
		return nil, fmt.Errorf("register store metrics: %w", err)
	}
	httpMetrics, err := metrics.NewHTTP(s.registry)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	newID, err := id.ForStrategy(cfg.ID.Strategy)
	if err != nil {
		return nil, err
	}
	storeOpts := []stateful.Option{stateful.WithObserver(observer), stateful.WithIDGenerator(newID)}
	s.castles = stateful.NewCastleStore(storeOpts...)
	s.rulers = stateful.NewRulerStore(storeOpts...)
	s.loader = fixture.NewLoader(s.castles, s.rulers, fixture.WithLogger(logger.With("component", "fixture")))

	if cfg.Fixtures.File != "" {
		if _, err := s.loader.LoadFile(cfg.Fixtures.File); err != nil {
			return nil, err
		}
	}

	var lookup relation.RulerLookup = relation.LocalRulers{Store: s.rulers}
	if cfg.Relation.RulersURL != "" {
		lookup = relation.NewRemoteRulers(cfg.Relation.RulersURL, cfg.Relation.Timeout)
	}
	relations := relation.NewService(s.castles, lookup, relation.WithLogger(logger.With("component", "relation")))

	api, err := rest.New(s.castles, relations,
		rest.WithLogger(logger.With("component", "rest")),
		rest.WithRequestValidation(cfg.Validation.OpenAPI),
	)
	if err != nil {
		return nil, err
	}

	restMux := http.NewServeMux()
	if cfg.Metrics.Enabled {
		restMux.Handle("GET "+cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	restMux.Handle("/", api.Handler())
	harness := fixture.NewHarness(s.loader, logger.With("component", "harness"))
	s.restHandler = httpMetrics.Middleware("rest", harness.Wrap(restMux))

	endpoint, err := graphql.NewRulerEndpoint(s.rulers, &graphql.GraphQLConfig{
		Path:          cfg.GraphQL.Path,
		Introspection: cfg.GraphQL.Introspection,
	}, graphql.WithLogger(logger.With("component", "graphql")))
	if err != nil {
		return nil, err
	}
	gqlMux := http.NewServeMux()
	gqlMux.Handle(endpoint.Pattern(), endpoint)
	s.graphqlHandler = httpMetrics.Middleware("graphql", gqlMux)

	return s, nil
}

// RESTHandler serves castle routes, the fixture harness and metrics.
func (s *Server) RESTHandler() http.Handler { return s.restHandler }

// GraphQLHandler serves the ruler GraphQL endpoint.
func (s *Server) GraphQLHandler() http.Handler { return s.graphqlHandler }

// Run listens on the configured addresses and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	restLn, err := net.Listen("tcp", s.cfg.REST.Addr)
	if err != nil {
		return fmt.Errorf("listen rest: %w", err)
	}
	gqlLn, err := net.Listen("tcp", s.cfg.GraphQL.Addr)
	if err != nil {
		_ = restLn.Close()
		return fmt.Errorf("listen graphql: %w", err)
	}
	return s.Serve(ctx, restLn, gqlLn)
}

// Serve serves both surfaces on the given listeners until ctx is done or one
// of them fails, then shuts both down gracefully.
func (s *Server) Serve(ctx context.Context, restLn, gqlLn net.Listener) error {
	servers := []struct {
		name string
		srv  *http.Server
		ln   net.Listener
	}{
		{"rest", s.newHTTPServer(s.restHandler), restLn},
		{"graphql", s.newHTTPServer(s.graphqlHandler), gqlLn},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, entry := range servers {
		g.Go(func() error {
			s.logger.Info("server listening", "server", entry.name, "addr", entry.ln.Addr().String())
			if err := entry.srv.Serve(entry.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", entry.name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, entry := range servers {
			if err := entry.srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("%s shutdown: %w", entry.name, err))
			}
		}
		s.logger.Info("servers stopped")
		return errors.Join(errs...)
	})

	return g.Wait()
}

func (s *Server) newHTTPServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
}

// closeQuietly closes c and logs a failure at warn level.
func closeQuietly(logger *slog.Logger, c io.Closer, what string) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", "what", what, "error", err)
	}
}

// Loader returns the fixture loader bound to both stores.
func (s *Server) Loader() *fixture.Loader { return s.loader }

// Castles returns the castle store.
func (s *Server) Castles() *stateful.CastleStore { return s.castles }

// Rulers returns the ruler store.
func (s *Server) Rulers() *stateful.RulerStore { return s.rulers }
