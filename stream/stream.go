// Package stream verifies batches of signatures with a bounded pool of
// workers, using the tiered verifier of package fndsa.
package stream

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Mode selects how expanded signatures are checked.
type Mode int

const (
	// Tiered runs the fast check on a fresh random index subset, then
	// the full check only if the fast one passes.
	Tiered Mode = iota

	// Full runs the full check on every item.
	Full
)

func (m Mode) String() string {
	switch m {
	case Tiered:
		return "tiered"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// ParseMode maps "tiered" and "full" to the corresponding Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "tiered":
		return Tiered, nil
	case "full":
		return Full, nil
	}
	return 0, errors.Errorf("unknown verification mode %q", s)
}

// Outcome is the result category of one item. The names of the
// outcomes are the values of the "outcome" metric label.
type Outcome int

const (
	Accept Outcome = iota
	FastReject
	FullReject
	Malformed
)

var outcomeNames = [...]string{
	Accept:     "accept",
	FastReject: "fast_reject",
	FullReject: "full_reject",
	Malformed:  "decode_error",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// Item is one signature to verify. Items may share public keys.
type Item struct {
	Message   []byte
	Signature *fndsa.Signature
	PublicKey *fndsa.PublicKey
}

// Result reports the verification of the item at position Index.
type Result struct {
	Index   int
	Outcome Outcome

	// Err is set for Malformed items only.
	Err error
}

// Valid reports whether the signature was accepted.
func (r Result) Valid() bool {
	return r.Outcome == Accept
}

// Config holds the Processor settings.
type Config struct {
	// Workers is the number of concurrent verifications. Defaults to
	// GOMAXPROCS.
	Workers int

	// Indices is the number of coefficients sampled by the fast check.
	// Defaults to 8.
	Indices int

	Mode Mode

	// Seed initializes the index samplers; each worker of each Process
	// call gets its own sampler forked from it. It should hold 32 bytes
	// from crypto/rand in production, and is fixed in tests to
	// reproduce exact index subsets.
	Seed []byte

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Registerer receives the processor metrics. Nil disables
	// registration.
	Registerer prometheus.Registerer
}

// Processor verifies batches of items. A Processor may be used by
// several goroutines.
type Processor struct {
	workers int
	indices int
	mode    Mode
	logger  *zap.Logger
	metrics *Metrics

	mutex   sync.Mutex
	sampler *fndsa.IndexSampler
}

// NewProcessor validates the configuration and creates a Processor.
func NewProcessor(c Config) (*Processor, error) {
	if c.Workers < 0 {
		return nil, errors.Errorf("invalid worker count %d", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Indices < 0 {
		return nil, errors.Errorf("invalid index count %d", c.Indices)
	}
	if c.Indices == 0 {
		c.Indices = 8
	}
	if c.Mode != Tiered && c.Mode != Full {
		return nil, errors.Errorf("invalid verification mode %d", c.Mode)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	metrics, err := NewMetrics(c.Registerer)
	if err != nil {
		return nil, err
	}
	return &Processor{
		workers: c.Workers,
		indices: c.Indices,
		mode:    c.Mode,
		logger:  c.Logger.Named("stream"),
		metrics: metrics,
		sampler: fndsa.NewIndexSampler(c.Seed),
	}, nil
}

// Process verifies all items and returns one result per item, in item
// order. Malformed signatures are reported in their result and do not
// stop the batch. An error is returned only when ctx is done before all
// items are processed; items are not resumed.
func (p *Processor) Process(ctx context.Context, items []Item) ([]Result, error) {
	start := time.Now()
	results := make([]Result, len(items))
	jobs := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range items {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	p.mutex.Lock()
	samplers := make([]*fndsa.IndexSampler, p.workers)
	for w := range samplers {
		samplers[w] = p.sampler.Fork()
	}
	p.mutex.Unlock()

	for w := 0; w < p.workers; w++ {
		sampler := samplers[w]
		g.Go(func() error {
			idx := make([]int, p.indices)
			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = p.verify(i, items[i], sampler, idx)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "stream processing interrupted")
	}

	s := Summarize(results)
	p.logger.Info("batch verified",
		zap.Int("items", len(items)),
		zap.Stringer("mode", p.mode),
		zap.Int("accepted", s.Accepted),
		zap.Int("fast_rejected", s.FastRejected),
		zap.Int("full_rejected", s.FullRejected),
		zap.Int("malformed", s.Malformed),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}

func (p *Processor) verify(i int, it Item, sampler *fndsa.IndexSampler, idx []int) Result {
	start := time.Now()
	r := Result{Index: i}
	defer func() {
		p.metrics.Items.WithLabelValues(r.Outcome.String()).Inc()
		p.metrics.VerifySeconds.WithLabelValues(p.mode.String()).Observe(time.Since(start).Seconds())
	}()

	es, err := fndsa.NewExpandedSignature(it.Message, it.Signature, it.PublicKey)
	if err != nil {
		r.Outcome = Malformed
		r.Err = errors.WithMessagef(err, "item %d", i)
		p.logger.Debug("malformed signature", zap.Int("index", i), zap.Error(err))
		return r
	}

	var valid, fast bool
	if p.mode == Tiered {
		idx = sampler.SampleInto(idx, es.Params().N)
		valid, fast = fndsa.TieredVerify(it.Message, es, it.PublicKey, idx)
	} else {
		valid = fndsa.VerifyExpanded(it.Message, es, it.PublicKey)
	}
	switch {
	case valid:
		r.Outcome = Accept
	case fast:
		r.Outcome = FastReject
	default:
		r.Outcome = FullReject
	}
	return r
}

// Summary counts results by outcome.
type Summary struct {
	Accepted     int
	FastRejected int
	FullRejected int
	Malformed    int
}

// Summarize counts results by outcome.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case Accept:
			s.Accepted++
		case FastReject:
			s.FastRejected++
		case FullReject:
			s.FullRejected++
		case Malformed:
			s.Malformed++
		}
	}
	return s
}
