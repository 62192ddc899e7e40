package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/KaramelBytes/paxsat-cli/internal/analysis"
	"github.com/KaramelBytes/paxsat-cli/internal/cache"
	"github.com/KaramelBytes/paxsat-cli/internal/loader"
	"github.com/KaramelBytes/paxsat-cli/internal/schema"
	"github.com/KaramelBytes/paxsat-cli/internal/table"
	"github.com/google/uuid"
)

// ErrNoData is returned by every analysis before a successful upload.
var ErrNoData = errors.New("no data loaded: upload a table first")

// Session holds one user's current table and the results derived from it.
// It is the only owner of its cache and is not safe for concurrent use.
type Session struct {
	ID           uuid.UUID
	Contract     schema.Contract
	CleanOptions analysis.CleanOptions
	// Delimiter overrides the separator of delimited uploads when non-zero.
	Delimiter rune
	CreatedAt time.Time
	UpdatedAt time.Time
	// Source names the last successful upload.
	Source string

	rawFingerprint string
	validated      *schema.Validated
	cache          *cache.Cache
	log            *slog.Logger
}

// UploadResult describes a successful upload.
type UploadResult struct {
	Rows        int
	Columns     []string
	Kinds       map[string]table.Kind
	// Fingerprint identifies the parsed content; Digest the uploaded bytes.
	Fingerprint string
	Digest      string
	// Unchanged is true when the upload matched the current table, in which
	// case every cached result was kept.
	Unchanged   bool
	Invalidated int
}

// New constructs an empty session. A nil logger discards diagnostics.
func New(contract schema.Contract, opt analysis.CleanOptions, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.New()
	now := time.Now()
	return &Session{
		ID:           id,
		Contract:     contract,
		CleanOptions: opt,
		CreatedAt:    now,
		UpdatedAt:    now,
		cache:        cache.New(),
		log:          logger.With(slog.String("component", "session"), slog.String("session_id", id.String())),
	}
}

// Upload loads and validates data, then makes it the current table. Any
// failure leaves the previous table and cache untouched.
func (s *Session) Upload(data []byte, format loader.Format) (*UploadResult, error) {
	t, err := loader.LoadWith(data, format, s.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	v, err := schema.Validate(t, s.Contract)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	fp := table.Fingerprint(t)
	res := &UploadResult{
		Rows:        t.Rows(),
		Columns:     t.Names(),
		Kinds:       v.Kinds,
		Fingerprint: fp,
		Digest:      table.FingerprintBytes(data),
		Unchanged:   fp == s.rawFingerprint,
	}
	res.Invalidated = s.cache.Invalidate(fp)
	s.rawFingerprint, s.validated = fp, v
	s.UpdatedAt = time.Now()
	s.log.Info("table loaded", "digest", res.Digest[:12], "rows", res.Rows, "columns", len(res.Columns), "unchanged", res.Unchanged, "invalidated", res.Invalidated)
	return res, nil
}

// UploadFile reads path and uploads it. An empty format is inferred from the
// file extension.
func (s *Session) UploadFile(path string, format loader.Format) (*UploadResult, error) {
	if format == "" {
		f, err := loader.FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	res, err := s.Upload(data, format)
	if err != nil {
		return nil, err
	}
	s.Source = path
	return res, nil
}

// Loaded reports whether a table has been uploaded.
func (s *Session) Loaded() bool { return s.validated != nil }

// Validated returns the current validated table.
func (s *Session) Validated() (*schema.Validated, error) {
	if s.validated == nil {
		return nil, ErrNoData
	}
	return s.validated, nil
}

type cleanResult struct {
	cleaned *analysis.Cleaned
	stats   analysis.CleanStats
}

// Clean returns the cleaned table, from the cache when the same table was
// cleaned with the same options before. hit reports a cache hit.
func (s *Session) Clean() (*analysis.Cleaned, analysis.CleanStats, bool, error) {
	if s.validated == nil {
		return nil, analysis.CleanStats{}, false, ErrNoData
	}
	key := cache.Key{Transform: s.CleanOptions.Transform(), Fingerprint: s.rawFingerprint}
	res, hit, err := cache.Memo(s.cache, key, func() (cleanResult, cache.Sizes, error) {
		c, st, err := analysis.Clean(s.validated, s.CleanOptions)
		if err != nil {
			return cleanResult{}, cache.Sizes{}, err
		}
		return cleanResult{cleaned: c, stats: st}, cache.Sizes{Original: st.Original, Result: st.Cleaned}, nil
	})
	if err != nil {
		return nil, analysis.CleanStats{}, false, err
	}
	s.log.Debug("clean", "key", key.String(), "hit", hit, "original", res.stats.Original, "cleaned", res.stats.Cleaned)
	return res.cleaned, res.stats, hit, nil
}

// Regress fits the score against feature over the cleaned table.
func (s *Session) Regress(feature string) (*analysis.RegressionResult, error) {
	c, _, _, err := s.Clean()
	if err != nil {
		return nil, err
	}
	return analysis.Regress(c, feature)
}

// Cluster runs k-means over the cleaned table. Repeated calls with the same
// options on the same table are served from the cache.
func (s *Session) Cluster(opt analysis.ClusterOptions) (*analysis.ClusterAssignment, bool, error) {
	c, _, _, err := s.Clean()
	if err != nil {
		return nil, false, err
	}
	key := cache.Key{Transform: opt.Transform() + "|" + s.CleanOptions.Transform(), Fingerprint: s.rawFingerprint}
	a, hit, err := cache.Memo(s.cache, key, func() (*analysis.ClusterAssignment, cache.Sizes, error) {
		a, err := analysis.Cluster(c, opt)
		if err != nil {
			return nil, cache.Sizes{}, err
		}
		return a, cache.Sizes{Original: c.Rows(), Result: len(a.Rows)}, nil
	})
	if err != nil {
		return nil, false, err
	}
	s.log.Debug("cluster", "key", key.String(), "hit", hit, "iterations", a.Iterations, "converged", a.Converged)
	return a, hit, nil
}

// Report summarizes measure per key group. Reports are always recomputed.
func (s *Session) Report(key, measure string) (*analysis.GroupReport, error) {
	c, _, _, err := s.Clean()
	if err != nil {
		return nil, err
	}
	return analysis.Report(c, key, measure)
}

// Overview bundles the survey analyses that need no parameters.
type Overview struct {
	Satisfaction *analysis.Distribution
	Services     *analysis.ServiceTable
	Metrics      []analysis.Metric
}

// Survey runs the parameterless survey analyses on the validated table.
func (s *Session) Survey() (*Overview, error) {
	v, err := s.Validated()
	if err != nil {
		return nil, err
	}
	d, err := analysis.SatisfactionDistribution(v)
	if err != nil {
		return nil, err
	}
	svc, err := analysis.ServiceMeans(v, nil)
	if err != nil {
		return nil, err
	}
	return &Overview{Satisfaction: d, Services: svc, Metrics: analysis.KeyMetrics(v)}, nil
}

// Stats reports cache counters.
func (s *Session) Stats() cache.Stats { return s.cache.Stats() }

// CachedKeys lists the live cache keys.
func (s *Session) CachedKeys() []cache.Key { return s.cache.Keys() }

// Reset forgets the current table and every cached result.
func (s *Session) Reset() {
	s.rawFingerprint, s.validated, s.Source = "", nil, ""
	s.cache.Reset()
	s.UpdatedAt = time.Now()
	s.log.Info("session reset")
}
