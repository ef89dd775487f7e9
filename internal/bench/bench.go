// Package bench measures the gain of tiered verification on synthetic
// signature streams with a controlled share of invalid signatures.
package bench

import (
	"context"
	"time"

	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa"
	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa/fndsatest"
	"github.com/benjivesterby/go-fn-dsa-fverify/stream"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config describes one benchmark run.
type Config struct {
	Params *fndsa.Params

	// Count is the number of signatures in the stream.
	Count int

	// InvalidFraction is the share of signatures made under the wrong
	// key, in [0,1].
	InvalidFraction float64

	// Indices is the number of coefficients checked by the fast path.
	Indices int

	// Workers is the concurrency of the stream pass. Zero skips it.
	Workers int

	// Seed makes the dataset and the index subsets reproducible.
	Seed []byte
}

// Result holds the measurements of one run. Durations are in seconds.
type Result struct {
	Degree          int     `json:"degree"`
	Count           int     `json:"count"`
	Invalid         int     `json:"invalid"`
	InvalidFraction float64 `json:"invalid_fraction"`
	Indices         int     `json:"indices"`

	// Decode, expand and fully verify every signature.
	VerifyAllSeconds float64 `json:"verify_all_seconds"`
	VerifyAllValid   int     `json:"verify_all_valid"`

	// Expand every signature (shared by the two passes below).
	ExpandSeconds float64 `json:"expand_seconds"`

	// Full check on the expanded signatures.
	FullSeconds float64 `json:"full_seconds"`

	// Fast check then full check on the expanded signatures.
	TieredSeconds float64 `json:"tiered_seconds"`
	TieredValid   int     `json:"tiered_valid"`
	FastRejected  int     `json:"fast_rejected"`

	// Speedup is VerifyAllSeconds/TieredSeconds, TieredSpeedup is
	// FullSeconds/TieredSeconds. Throughputs are in signatures per
	// second.
	Speedup          float64 `json:"speedup"`
	TieredSpeedup    float64 `json:"tiered_speedup"`
	Throughput       float64 `json:"throughput"`
	TieredThroughput float64 `json:"tiered_throughput"`

	// Concurrent end-to-end pass through stream.Processor, if run.
	Workers       int     `json:"workers,omitempty"`
	StreamSeconds float64 `json:"stream_seconds,omitempty"`
}

func (c *Config) validate() error {
	if c.Params == nil {
		return errors.New("missing parameter set")
	}
	if c.Count <= 0 {
		return errors.Errorf("invalid signature count %d", c.Count)
	}
	if c.InvalidFraction < 0 || c.InvalidFraction > 1 {
		return errors.Errorf("invalid fraction %v not in [0,1]", c.InvalidFraction)
	}
	if c.Indices <= 0 || c.Indices > c.Params.N {
		return errors.Errorf("invalid index count %d", c.Indices)
	}
	if c.Workers < 0 {
		return errors.Errorf("invalid worker count %d", c.Workers)
	}
	return nil
}

type dataset struct {
	items   []fndsatest.Item
	invalid int
}

func generate(c Config) (*dataset, error) {
	numInvalid := int(float64(c.Count) * c.InvalidFraction)
	seed := append(append([]byte(nil), c.Seed...), byte(c.Params.LogN))
	rng := fndsatest.NewReader(seed)
	items, err := fndsatest.GenerateStream(c.Params, rng, c.Count-numInvalid, numInvalid, true)
	if err != nil {
		return nil, errors.WithMessage(err, "generating dataset")
	}
	return &dataset{items: items, invalid: numInvalid}, nil
}

// Run synthesizes a dataset and times the verification passes over it.
func Run(ctx context.Context, c Config, logger *zap.Logger) (*Result, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("bench")
	logger.Info("generating dataset",
		zap.Stringer("params", c.Params),
		zap.Int("count", c.Count),
		zap.Float64("invalid_fraction", c.InvalidFraction))
	ds, err := generate(c)
	if err != nil {
		return nil, err
	}
	return run(ctx, c, ds, logger)
}

func run(ctx context.Context, c Config, ds *dataset, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := c.Params
	items := ds.items
	r := &Result{
		Degree:          p.N,
		Count:           len(items),
		Invalid:         ds.invalid,
		InvalidFraction: c.InvalidFraction,
		Indices:         c.Indices,
	}

	start := time.Now()
	for _, it := range items {
		ok, err := fndsa.Verify(it.Message, it.Signature, it.PublicKey)
		if err != nil {
			return nil, errors.WithMessage(err, "verifying dataset")
		}
		if ok {
			r.VerifyAllValid++
		}
	}
	r.VerifyAllSeconds = time.Since(start).Seconds()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	ess := make([]*fndsa.ExpandedSignature, len(items))
	for i, it := range items {
		es, err := fndsa.NewExpandedSignature(it.Message, it.Signature, it.PublicKey)
		if err != nil {
			return nil, errors.WithMessage(err, "expanding dataset")
		}
		ess[i] = es
	}
	r.ExpandSeconds = time.Since(start).Seconds()

	start = time.Now()
	for i, it := range items {
		fndsa.VerifyExpanded(it.Message, ess[i], it.PublicKey)
	}
	r.FullSeconds = time.Since(start).Seconds()

	// Fresh indices for every signature, drawn outside the timed loop.
	sampler := fndsa.NewIndexSampler(c.Seed)
	idx := make([][]int, len(items))
	for i := range idx {
		idx[i] = sampler.Sample(p.N, c.Indices)
	}
	start = time.Now()
	for i, it := range items {
		valid, fast := fndsa.TieredVerify(it.Message, ess[i], it.PublicKey, idx[i])
		if valid {
			r.TieredValid++
		} else if fast {
			r.FastRejected++
		}
	}
	r.TieredSeconds = time.Since(start).Seconds()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.TieredValid != r.VerifyAllValid {
		return nil, errors.Errorf("tiered verification accepted %d signatures, full verification %d",
			r.TieredValid, r.VerifyAllValid)
	}
	r.Speedup = ratio(r.VerifyAllSeconds, r.TieredSeconds)
	r.TieredSpeedup = ratio(r.FullSeconds, r.TieredSeconds)
	r.Throughput = ratio(float64(r.Count), r.VerifyAllSeconds)
	r.TieredThroughput = ratio(float64(r.Count), r.TieredSeconds)

	if c.Workers > 0 {
		proc, err := stream.NewProcessor(stream.Config{
			Workers: c.Workers,
			Indices: c.Indices,
			Seed:    c.Seed,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		batch := make([]stream.Item, len(items))
		for i, it := range items {
			batch[i] = stream.Item{Message: it.Message, Signature: it.Signature, PublicKey: it.PublicKey}
		}
		start = time.Now()
		if _, err := proc.Process(ctx, batch); err != nil {
			return nil, err
		}
		r.Workers = c.Workers
		r.StreamSeconds = time.Since(start).Seconds()
	}

	logger.Info("benchmark done",
		zap.Int("degree", r.Degree),
		zap.Int("indices", r.Indices),
		zap.Float64("invalid_fraction", r.InvalidFraction),
		zap.Int("valid", r.VerifyAllValid),
		zap.Int("fast_rejected", r.FastRejected),
		zap.Float64("speedup", r.Speedup),
		zap.Float64("tiered_speedup", r.TieredSpeedup))
	return r, nil
}

// Zero when the timer resolution gave a zero duration, so that results
// stay JSON-encodable.
func ratio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

// SweepConfig describes a grid of runs: every parameter set, invalid
// fraction and index count.
type SweepConfig struct {
	Params           []*fndsa.Params
	Count            int
	InvalidFractions []float64
	Indices          []int
	Seed             []byte
}

// Sweep runs the whole grid. One dataset is generated per parameter set
// and invalid fraction, and reused for all index counts.
func Sweep(ctx context.Context, sc SweepConfig, logger *zap.Logger) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("bench")
	var results []Result
	for _, p := range sc.Params {
		for _, frac := range sc.InvalidFractions {
			c := Config{
				Params:          p,
				Count:           sc.Count,
				InvalidFraction: frac,
				Seed:            sc.Seed,
			}
			var ds *dataset
			for _, k := range sc.Indices {
				c.Indices = k
				if err := c.validate(); err != nil {
					return nil, err
				}
				if ds == nil {
					var err error
					if ds, err = generate(c); err != nil {
						return nil, err
					}
				}
				r, err := run(ctx, c, ds, logger)
				if err != nil {
					return nil, errors.WithMessagef(err, "%s, %v invalid, %d indices", p, frac, k)
				}
				results = append(results, *r)
			}
		}
	}
	return results, nil
}
