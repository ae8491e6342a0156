// Package serve exposes batch execution and stored records over HTTP.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/pkg/service/batch"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 8 << 20
)

type serve struct {
	logger   *zap.Logger
	config   config.Serve
	batches  batch.Service
	records  batch.RecordDB
	gatherer prometheus.Gatherer
}

// ErrResponse is the body of every non-2xx answer.
type ErrResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type RecordIDsResponse struct {
	Records []string `json:"records"`
}

func New(logger *zap.Logger, cfg config.Serve, batches batch.Service, records batch.RecordDB, gatherer prometheus.Gatherer) Service {
	return &serve{
		logger:   logger,
		config:   cfg,
		batches:  batches,
		records:  records,
		gatherer: gatherer,
	}
}

func (s *serve) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.config.Port, err)
	}
	return s.serve(ctx, ln)
}

func (s *serve) serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.logger.Info("starting apicase server", zap.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("shutting down apicase server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			utils.LogError(s.logger, err, "http server shutdown failed")
			return err
		}
		return nil
	})
	return eg.Wait()
}

func (s *serve) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", s.health)
	r.Post("/batches", s.runBatch)
	r.Route("/records", func(r chi.Router) {
		r.Get("/", s.listRecords)
		r.Get("/{id}", s.getRecord)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *serve) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{Status: "ok", Version: utils.Version})
}

func (s *serve) runBatch(w http.ResponseWriter, r *http.Request) {
	b := &models.Batch{}
	// literals and params keep their digits; float64 would round past 2^53
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(b); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid batch: %w", err))
		return
	}
	b.Kind = models.BatchKind
	b.Version = models.GetVersion(b.Version)

	record, err := s.batches.Run(r.Context(), b)
	switch {
	case errors.Is(err, models.ErrEmptyBatch):
		s.fail(w, r, http.StatusBadRequest, err)
		return
	case errors.Is(err, context.Canceled):
		s.fail(w, r, http.StatusServiceUnavailable, err)
		return
	case err != nil:
		utils.LogError(s.logger, err, "failed to run batch", zap.String("batch", b.ID))
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, record)
}

func (s *serve) listRecords(w http.ResponseWriter, r *http.Request) {
	ids, err := s.records.GetRecordIDs(r.Context())
	if err != nil {
		utils.LogError(s.logger, err, "failed to list records")
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	render.JSON(w, r, RecordIDsResponse{Records: ids})
}

func (s *serve) getRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, err := s.records.GetRecord(r.Context(), id)
	if errors.Is(err, models.ErrRecordNotFound) {
		s.fail(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.LogError(s.logger, err, "failed to read record", zap.String("record", id))
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	render.JSON(w, r, record)
}

func (s *serve) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, ErrResponse{Error: err.Error()})
}
