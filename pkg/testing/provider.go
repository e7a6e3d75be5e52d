package testing

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getmockd/castlepact/pkg/cli"
	"github.com/getmockd/castlepact/pkg/config"
	"github.com/getmockd/castlepact/pkg/fixture"
	"github.com/getmockd/castlepact/pkg/logging"
)

// Provider is a running castlepact instance for tests.
type Provider struct {
	t       testing.TB
	server  *cli.Server
	restSrv *httptest.Server
	gqlSrv  *httptest.Server
	gqlPath string
}

type options struct {
	cfg          *config.Config
	fixture      *fixture.Document
	remoteRulers bool
}

// Option configures a Provider.
type Option func(*options)

// WithFixtureFile installs the fixture file at path on startup.
func WithFixtureFile(path string) Option {
	return func(o *options) { o.cfg.Fixtures.File = path }
}

// WithFixture installs doc on startup.
func WithFixture(doc *fixture.Document) Option {
	return func(o *options) { o.fixture = doc }
}

// WithRequestValidation toggles OpenAPI request validation on the REST surface.
func WithRequestValidation(enabled bool) Option {
	return func(o *options) { o.cfg.Validation.OpenAPI = enabled }
}

// WithRemoteRulers makes the castle service fetch rulers from the provider's
// GraphQL server over HTTP instead of reading the ruler store directly.
func WithRemoteRulers() Option {
	return func(o *options) { o.remoteRulers = true }
}

// New starts a Provider. It is stopped automatically when the test completes.
func New(t testing.TB, opts ...Option) *Provider {
	t.Helper()

	o := &options{cfg: config.Default()}
	o.cfg.Metrics.Enabled = false
	for _, opt := range opts {
		opt(o)
	}

	p := &Provider{t: t, gqlPath: o.cfg.GraphQL.Path}

	// The GraphQL listener has to exist before the relation layer is built
	// so that a remote ruler URL can point at it.
	var gqlHandler proxyHandler
	if o.remoteRulers {
		p.gqlSrv = httptest.NewServer(&gqlHandler)
		o.cfg.Relation.RulersURL = p.gqlSrv.URL + p.gqlPath
		o.cfg.Relation.Timeout = 5 * time.Second
	}

	srv, err := cli.NewServer(o.cfg, logging.Nop())
	if err != nil {
		if p.gqlSrv != nil {
			p.gqlSrv.Close()
		}
		t.Fatalf("castlepact: start provider: %v", err)
	}
	p.server = srv

	if o.fixture != nil {
		if _, err := srv.Loader().Apply(o.fixture); err != nil {
			if p.gqlSrv != nil {
				p.gqlSrv.Close()
			}
			t.Fatalf("castlepact: install fixture: %v", err)
		}
	}

	if p.gqlSrv != nil {
		gqlHandler.set(srv.GraphQLHandler())
	} else {
		p.gqlSrv = httptest.NewServer(srv.GraphQLHandler())
	}
	p.restSrv = httptest.NewServer(srv.RESTHandler())

	t.Cleanup(p.Stop)
	return p
}

// RESTURL returns the base URL of the castle REST surface.
func (p *Provider) RESTURL() string {
	return p.restSrv.URL
}

// GraphQLURL returns the full URL of the ruler GraphQL endpoint.
func (p *Provider) GraphQLURL() string {
	return p.gqlSrv.URL + p.gqlPath
}

// Setup installs doc in both stores.
func (p *Provider) Setup(doc *fixture.Document) {
	p.t.Helper()
	if _, err := p.server.Loader().Apply(doc); err != nil {
		p.t.Fatalf("castlepact: install fixture: %v", err)
	}
}

// Reset restores both stores to the installed fixture.
func (p *Provider) Reset() {
	p.server.Loader().Reset()
}

// State returns the live store sizes and the installed fixture summary.
func (p *Provider) State() fixture.State {
	return p.server.Loader().State()
}

// Stop shuts down both test servers. It is safe to call more than once.
func (p *Provider) Stop() {
	if p.restSrv != nil {
		p.restSrv.Close()
		p.restSrv = nil
	}
	if p.gqlSrv != nil {
		p.gqlSrv.Close()
		p.gqlSrv = nil
	}
}
