// Package api serves the reconciled artifacts and their summaries to the
// dashboard.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/election-audit/audit-cli/internal/catalog"
	"github.com/election-audit/audit-cli/internal/fetcher"
	"github.com/election-audit/audit-cli/internal/model"
	"github.com/election-audit/audit-cli/internal/reconcile"
	"github.com/election-audit/audit-cli/internal/store"
)

// Options configures the router.
type Options struct {
	OutputDir       string
	PrimaryArtifact string
	OCRArtifact     string
	StaticDir       string
	CORSOrigins     []string
	TopN            int
}

// Server holds the handler dependencies. Runs may be nil when run history
// is disabled.
type Server struct {
	opts    Options
	catalog *catalog.Catalog
	runs    store.Store
}

// NewRouter builds the HTTP handler.
func NewRouter(opts Options, cat *catalog.Catalog, runs store.Store) http.Handler {
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if cat == nil {
		cat = catalog.Default()
	}
	s := &Server{opts: opts, catalog: cat, runs: runs}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/districts", s.handleDistricts)
		r.Get("/ocr", s.handleOCR)
		r.Get("/summary", s.handleSummary)
		r.Get("/provinces", s.handleProvinces)
		r.Get("/parties", s.handleParties)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRun)
	})

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	ds, ok := loadArtifact[model.District](w, s.path(s.opts.PrimaryArtifact))
	if !ok {
		return
	}
	ds = filter(ds, r, func(d model.District) model.Record { return d.Record() })
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) {
	ds, ok := loadArtifact[model.OCRDistrict](w, s.path(s.opts.OCRArtifact))
	if !ok {
		return
	}
	ds = filter(ds, r, func(d model.OCRDistrict) model.Record { return d.Record() })
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("source")
	recs, ok := s.records(w, src)
	if !ok {
		return
	}
	if src == "" {
		src = string(model.RunKindPrimary)
	}
	writeJSON(w, http.StatusOK, reconcile.Analyze(src, recs, s.catalog.Regions.Of, s.opts.TopN))
}

func (s *Server) handleProvinces(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.records(w, r.URL.Query().Get("source"))
	if !ok {
		return
	}
	ps := reconcile.ByProvince(recs, s.catalog.Regions.Of)
	ps = reconcile.FilterRegion(ps, r.URL.Query().Get("region"))
	if ps == nil {
		ps = []model.ProvinceSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"regions":   s.catalog.Regions.Names(),
		"provinces": ps,
	})
}

func (s *Server) handleParties(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Palette.Entries())
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled")
		return
	}
	q := r.URL.Query()
	filter := store.RunFilter{Kind: model.RunKind(q.Get("kind"))}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}
	runs, err := s.runs.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("api: list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list runs")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled")
		return
	}
	id := chi.URLParam(r, "id")
	run, err := s.runs.GetRun(r.Context(), id)
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		zap.L().Error("api: get run", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load run")
		return
	}
	findings, err := s.runs.ListFindings(r.Context(), id)
	if err != nil {
		zap.L().Error("api: list findings", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load findings")
		return
	}
	if findings == nil {
		findings = []model.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"run": run, "findings": findings})
}

// records loads the shared view of the primary or OCR artifact.
func (s *Server) records(w http.ResponseWriter, source string) ([]model.Record, bool) {
	switch model.RunKind(source) {
	case "", model.RunKindPrimary:
		ds, ok := loadArtifact[model.District](w, s.path(s.opts.PrimaryArtifact))
		return model.Records(ds), ok
	case model.RunKindOCR:
		ds, ok := loadArtifact[model.OCRDistrict](w, s.path(s.opts.OCRArtifact))
		return model.Records(ds), ok
	default:
		writeError(w, http.StatusBadRequest, "source must be primary or ocr")
		return nil, false
	}
}

func (s *Server) path(name string) string {
	return filepath.Join(s.opts.OutputDir, name)
}

// loadArtifact reads a JSON array artifact, writing the error response
// itself when it cannot.
func loadArtifact[T any](w http.ResponseWriter, path string) ([]T, bool) {
	ds, err := fetcher.ReadJSONFile[[]T](path)
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			writeError(w, http.StatusNotFound, "artifact not found: "+filepath.Base(path))
			return nil, false
		}
		zap.L().Error("api: read artifact", zap.String("path", path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not read artifact")
		return nil, false
	}
	if *ds == nil {
		return []T{}, true
	}
	return *ds, true
}

// filter applies the ?province=, ?critical=true and ?sort=abs parameters.
func filter[T any](ds []T, r *http.Request, view func(T) model.Record) []T {
	q := r.URL.Query()
	province := q.Get("province")
	critical := q.Get("critical") == "true"

	out := make([]T, 0, len(ds))
	for _, d := range ds {
		rec := view(d)
		if province != "" && rec.Province != province {
			continue
		}
		if critical && !rec.IsCritical {
			continue
		}
		out = append(out, d)
	}
	if q.Get("sort") == "abs" {
		sort.SliceStable(out, func(i, j int) bool {
			return view(out[i]).AbsDiscrepancy > view(out[j]).AbsDiscrepancy
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
