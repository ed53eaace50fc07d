// Package syncer implements the reconciliation engine: watermark
// computation, changed-work-order ingestion, operation replacement,
// labor time aggregation, and sync status bookkeeping.
package syncer

import (
	"context"
	"io"
	"time"

	"github.com/apboats/bbgassetmanagement-sub003/internal/config"
	"github.com/apboats/bbgassetmanagement-sub003/internal/upstream"
	"gorm.io/gorm"
)

// Remote abstracts the authenticated upstream session, enabling test
// mocks.
type Remote interface {
	ChangedWorkOrders(ctx context.Context, since time.Time, loc *time.Location, maxPages int) (*upstream.ChangedResult, error)
	TimeEntries(ctx context.Context, start, end time.Time, loc *time.Location, maxPages int) ([]upstream.TimeEntryRecord, error)
	ListOpenWorkOrderIDs(ctx context.Context, customerID string) ([]string, error)
	RetrieveWorkOrders(ctx context.Context, ids []string) ([]upstream.WorkOrderRecord, error)
}

// AuthFunc exchanges credentials for an authenticated session.
type AuthFunc func(ctx context.Context, username, password string) (Remote, error)

// Notifier receives best-effort failure alerts. Implementations must not
// block the run on delivery problems.
type Notifier interface {
	NotifyFailure(ctx context.Context, jobName, message string)
}

// Engine is the reconciliation engine. One Engine serves both the
// scheduled incremental sync and on-demand fetches; every run
// re-authenticates.
type Engine struct {
	db       *gorm.DB
	cfg      *config.Config
	auth     AuthFunc
	notifier Notifier
	now      func() time.Time
	out      io.Writer
}

// Option customizes an Engine, mainly for tests.
type Option func(*Engine)

// WithAuth replaces the authentication function.
func WithAuth(auth AuthFunc) Option {
	return func(e *Engine) { e.auth = auth }
}

// WithNotifier sets the failure notifier.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithOutput sets the writer for operator-facing progress lines.
func WithOutput(out io.Writer) Option {
	return func(e *Engine) { e.out = out }
}

// New builds an Engine wired to the real upstream client.
func New(db *gorm.DB, cfg *config.Config, opts ...Option) *Engine {
	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.PageSize)
	e := &Engine{
		db:  db,
		cfg: cfg,
		auth: func(ctx context.Context, username, password string) (Remote, error) {
			session, err := client.Authenticate(ctx, username, password)
			if err != nil {
				return nil, err
			}
			return session, nil
		},
		now: time.Now,
		out: io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// authenticate resolves credentials and opens a session.
func (e *Engine) authenticate(ctx context.Context) (Remote, error) {
	creds, err := e.cfg.ResolveCredentials()
	if err != nil {
		return nil, err
	}
	return e.auth(ctx, creds.Username, creds.Password)
}

func (e *Engine) notifyFailure(ctx context.Context, message string) {
	if e.notifier == nil {
		return
	}
	e.notifier.NotifyFailure(ctx, e.cfg.Sync.JobName, message)
}
