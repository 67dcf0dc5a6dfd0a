package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/colgrid/pkg/cache"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/export"
	"github.com/matzehuels/colgrid/pkg/grid"
	"github.com/matzehuels/colgrid/pkg/observability"
	"github.com/matzehuels/colgrid/pkg/scenario"
)

var resultJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Runner executes scenarios with caching.
//
// The Runner holds no per-run state, so goroutines may share one Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses the DefaultKeyer, a nil cache
// disables caching and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute loads the scenario named by opts and runs it, serving the result
// from cache when the scenario bytes are unchanged.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	data, err := load(opts)
	if err != nil {
		return nil, err
	}
	hash := cache.Hash(data)
	key := r.Keyer.ResultKey(hash, opts.ResultKeyOpts())

	if !opts.Refresh {
		if res, ok := r.cachedResult(ctx, key); ok {
			r.Logger.Debug("layout cache hit", "scenario", res.Name, "hash", hash[:12])
			return res, nil
		}
	}

	sc, err := scenario.Parse(data)
	if err != nil {
		return nil, err
	}
	res, err := Run(ctx, sc, opts.MaxPasses, opts.Logger)
	if err != nil {
		return nil, err
	}
	res.Hash = hash

	if payload, err := resultJSON.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, payload, cache.ResultTTL); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "result", len(payload))
		}
	}

	r.Logger.Info("computed layout",
		"scenario", res.Name,
		"steps", len(res.Steps)-1,
		"passes", res.Stats.Passes,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) cachedResult(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "result")
		return nil, false
	}
	var res Result
	if err := resultJSON.Unmarshal(data, &res); err != nil {
		observability.Cache().OnCacheMiss(ctx, "result")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "result")
	res.CacheHit = true
	return &res, true
}

// Export encodes res in opts.Format, with caching keyed by the result hash.
// It reports whether the bytes came from cache.
func (r *Runner) Export(ctx context.Context, res *Result, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}

	var key string
	if res.Hash != "" {
		key = r.Keyer.ExportKey(res.Hash, opts.ExportKeyOpts())
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "export")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "export")
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, opts.Format, res.Document(), opts.Precision); err != nil {
		return nil, false, err
	}
	if key != "" {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.ExportTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "export", buf.Len())
		}
	}
	return buf.Bytes(), false, nil
}

// RunAll executes independent scenarios concurrently. Results keep the order
// of opts; the first error cancels the remaining runs.
func (r *Runner) RunAll(ctx context.Context, opts []Options) ([]*Result, error) {
	results := make([]*Result, len(opts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultParallelism)
	for i, o := range opts {
		g.Go(func() error {
			res, err := r.Execute(ctx, o)
			if err != nil {
				name := o.Path
				if name == "" {
					name = fmt.Sprintf("#%d", i)
				}
				return fmt.Errorf("%s: %w", name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Run applies the steps of sc to a fresh engine, settling after each one.
// Step failures abort the run.
func Run(ctx context.Context, sc *scenario.Scenario, maxPasses int, logger *log.Logger) (res *Result, err error) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	hooks := observability.Layout()
	hooks.OnScenarioStart(ctx, sc.Name, len(sc.Columns))
	start := time.Now()
	steps := 0
	defer func() {
		hooks.OnScenarioComplete(ctx, sc.Name, steps, time.Since(start), err)
	}()

	parsed, err := sc.ParsedSteps()
	if err != nil {
		return nil, err
	}
	var opts []grid.Option
	if logger != nil {
		opts = append(opts, grid.WithLogger(logger.WithPrefix(sc.Name)))
	}
	e, err := sc.Build(opts...)
	if err != nil {
		return nil, err
	}

	res = &Result{Name: sc.Name, Steps: make([]StepResult, 0, len(parsed)+1)}
	res.Steps = append(res.Steps, StepResult{Snapshot: e.Settle(maxPasses)})
	hooks.OnFlush(ctx, sc.Name, e.Stats())

	for i, st := range parsed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := st.Apply(e); err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInvalidStep
			}
			return nil, errors.Wrap(code, err, "step %d %q", i+1, st.String())
		}
		steps++
		res.Steps = append(res.Steps, StepResult{Index: i + 1, Step: st.String(), Snapshot: e.Settle(maxPasses)})
		hooks.OnFlush(ctx, sc.Name, e.Stats())
	}

	res.Stats = e.Stats()
	res.Duration = time.Since(start)
	return res, nil
}

func load(opts Options) ([]byte, error) {
	if len(opts.Source) > 0 {
		return opts.Source, nil
	}
	if err := errors.ValidateScenarioPath(opts.Path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(opts.Path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "scenario file not found: %s", opts.Path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read scenario")
	}
	return data, nil
}
