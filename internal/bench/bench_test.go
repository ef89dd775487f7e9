package bench

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	r, err := Run(context.Background(), Config{
		Params:          fndsa.Falcon512,
		Count:           40,
		InvalidFraction: 0.75,
		Indices:         8,
		Workers:         2,
		Seed:            []byte("run"),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 512, r.Degree)
	require.Equal(t, 40, r.Count)
	require.Equal(t, 30, r.Invalid)
	require.Equal(t, 10, r.VerifyAllValid)
	require.Equal(t, 10, r.TieredValid)
	require.GreaterOrEqual(t, r.FastRejected, 25)
	require.LessOrEqual(t, r.FastRejected, 30)
	require.Equal(t, 2, r.Workers)
}

// Tiering only pays off if a majority-invalid stream is processed faster
// with it than without.
func TestThroughputMonotonicity(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	for _, p := range []*fndsa.Params{fndsa.Falcon512, fndsa.Falcon1024} {
		c := Config{
			Params:          p,
			Count:           1000,
			InvalidFraction: 0.9,
			Seed:            []byte("monotonicity"),
		}
		ds, err := generate(c)
		require.NoError(t, err)
		for _, k := range []int{1, 8, 32} {
			c.Indices = k
			// Best of three for each pass, to smooth out scheduling
			// noise.
			var best Result
			for i := 0; i < 3; i++ {
				r, err := run(context.Background(), c, ds, nil)
				require.NoError(t, err)
				if i == 0 || r.TieredSeconds < best.TieredSeconds {
					best.TieredSeconds = r.TieredSeconds
				}
				if i == 0 || r.FullSeconds < best.FullSeconds {
					best.FullSeconds = r.FullSeconds
				}
				if i == 0 || r.VerifyAllSeconds < best.VerifyAllSeconds {
					best.VerifyAllSeconds = r.VerifyAllSeconds
				}
			}
			require.Less(t, best.TieredSeconds, best.VerifyAllSeconds,
				"%s with %d indices", p, k)
			require.Less(t, best.TieredSeconds, best.FullSeconds,
				"%s with %d indices", p, k)
		}
	}
}

func TestRunInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		c    Config
		err  string
	}{
		{"no params", Config{Count: 1, Indices: 1}, "missing parameter set"},
		{"count", Config{Params: fndsa.Falcon512, Indices: 1}, "invalid signature count 0"},
		{"fraction", Config{Params: fndsa.Falcon512, Count: 1, Indices: 1, InvalidFraction: 1.5}, "invalid fraction 1.5 not in [0,1]"},
		{"indices", Config{Params: fndsa.Falcon512, Count: 1, Indices: 513}, "invalid index count 513"},
		{"workers", Config{Params: fndsa.Falcon512, Count: 1, Indices: 1, Workers: -1}, "invalid worker count -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.c, nil)
			require.EqualError(t, err, tt.err)
		})
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{Params: fndsa.Falcon512, Count: 4, Indices: 8}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSweepAndReport(t *testing.T) {
	results, err := Sweep(context.Background(), SweepConfig{
		Params:           []*fndsa.Params{fndsa.Falcon512, fndsa.Falcon1024},
		Count:            10,
		InvalidFractions: []float64{0.5, 0.1},
		Indices:          []int{4, 16},
		Seed:             []byte("sweep"),
	}, nil)
	require.NoError(t, err)
	require.Len(t, results, 8)
	require.Equal(t, 512, results[0].Degree)
	require.Equal(t, 0.5, results[0].InvalidFraction)
	require.Equal(t, 4, results[0].Indices)
	require.Equal(t, 16, results[1].Indices)
	require.Equal(t, 1024, results[7].Degree)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSON(buf, results))
	require.Contains(t, buf.String(), `"tiered_speedup"`)
	back, err := ReadJSON(buf)
	require.NoError(t, err)
	require.Equal(t, results, back)

	buf.Reset()
	require.NoError(t, RenderChart(buf, results))
	html := buf.String()
	require.Contains(t, html, "Falcon-512: speedup over full verification")
	require.Contains(t, html, "Falcon-1024: tiered throughput")
	require.Contains(t, html, "16 indices")

	require.EqualError(t, RenderChart(buf, nil), "no results to plot")
	_, err = ReadJSON(strings.NewReader("{"))
	require.ErrorContains(t, err, "decoding results")
}

func BenchmarkRun512(b *testing.B) {
	c := Config{Params: fndsa.Falcon512, Count: 100, InvalidFraction: 0.9, Indices: 8}
	ds, err := generate(c)
	require.NoError(b, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		run(context.Background(), c, ds, nil)
	}
}
