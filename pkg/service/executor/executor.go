// Package executor runs the cases of a batch against their targets and
// decides for each one whether the response matched expectations.
package executor

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	msgDisabled  = "case is disabled"
	msgCancelled = "batch cancelled"
)

type Executor struct {
	logger    *zap.Logger
	cfg       config.Execute
	files     FileStore
	metrics   *Metrics
	limiter   *rate.Limiter
	client    HTTPClient
	transport http.RoundTripper
	out       io.Writer
	wait      func(ctx context.Context, d time.Duration) error
}

type Option func(*Executor)

// WithClient makes every batch share client instead of getting its own
// cookie-aware *http.Client.
func WithClient(client HTTPClient) Option {
	return func(e *Executor) { e.client = client }
}

// WithOutput prints a line per finished case to w.
func WithOutput(w io.Writer) Option {
	return func(e *Executor) { e.out = w }
}

func WithWait(wait func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Executor) { e.wait = wait }
}

func New(logger *zap.Logger, cfg config.Execute, files FileStore, metrics *Metrics, opts ...Option) *Executor {
	e := &Executor{
		logger:  logger,
		cfg:     cfg,
		files:   files,
		metrics: metrics,
		transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			// targets are frequently test environments with self-signed certificates
			//nolint:gosec
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
		},
		wait: sleep,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Execute(ctx context.Context, batch *models.Batch) ([]models.Report, error) {
	client, err := e.clientFor()
	if err != nil {
		return nil, err
	}

	e.logger.Debug("executing batch", zap.String("batch", batch.ID), zap.Int64("project", batch.Project.ID), zap.Int("cases", len(batch.Cases)))

	deps := newDepStore()
	reports := make([]models.Report, 0, len(batch.Cases))
	for i := range batch.Cases {
		if err := ctx.Err(); err != nil {
			return e.cancelRest(reports, batch.Cases[i:]), err
		}

		report, err := e.runCase(ctx, client, batch, &batch.Cases[i], deps)
		reports = append(reports, *report)
		e.finish(report)
		if err != nil {
			return e.cancelRest(reports, batch.Cases[i+1:]), err
		}
	}
	return reports, nil
}

// runCase drives one case through build, delay, invoke and verdict. The only
// error it returns is the context's, after marking the case cancelled.
func (e *Executor) runCase(ctx context.Context, client HTTPClient, batch *models.Batch, cs *models.CaseSpec, deps *depStore) (*models.Report, error) {
	report := models.NewReport(cs)
	report.Started = time.Now().Unix()
	defer func() { report.Completed = time.Now().Unix() }()

	if !cs.Run {
		report.Status = models.CaseStatusIgnored
		report.Message = msgDisabled
		return report, nil
	}

	if err := cs.Validate(); err != nil {
		report.Message = err.Error()
		return report, nil
	}

	req, err := e.build(ctx, batch, cs, deps)
	if req != nil {
		report.URL = req.url
	}
	if err != nil {
		e.logger.Debug("failed to build request", zap.Int64("case", cs.ID), zap.Error(err))
		report.Message = err.Error()
		return report, nil
	}

	if err := e.wait(ctx, clampDelay(cs.Delay)); err != nil {
		report.Status = models.CaseStatusIgnored
		report.Message = msgCancelled
		return report, err
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				report.Status = models.CaseStatusIgnored
				report.Message = msgCancelled
				return report, ctx.Err()
			}
			e.logger.Debug("rate limiter wait failed", zap.Error(err))
		}
	}

	res := e.invoke(ctx, client, req)
	e.evaluate(cs, report, res, deps)
	deps.put(report, res.response)
	return report, nil
}

func (e *Executor) cancelRest(reports []models.Report, rest []models.CaseSpec) []models.Report {
	for i := range rest {
		r := models.NewReport(&rest[i])
		r.Status = models.CaseStatusIgnored
		r.Message = msgCancelled
		reports = append(reports, *r)
		e.finish(r)
	}
	return reports
}

func (e *Executor) finish(r *models.Report) {
	e.metrics.observeCase(r)
	e.logger.Debug("case finished", zap.Int64("case", r.CaseID), zap.String("status", string(r.Status)), zap.Int64("timeUsed", r.TimeUsed))
	printReport(e.out, r)
}

// clientFor returns the injected client, or a fresh one whose cookie jar
// lives only as long as the batch.
func (e *Executor) clientFor() (HTTPClient, error) {
	if e.client != nil {
		return e.client, nil
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &http.Client{
		Timeout:   e.cfg.Timeout(),
		Transport: e.transport,
		Jar:       jar,
	}, nil
}

func clampDelay(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	if seconds > models.MaxDelaySeconds {
		seconds = models.MaxDelaySeconds
	}
	return time.Duration(seconds) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
