package main

import (
	"fmt"
	"io"

	"github.com/benjivesterby/go-fn-dsa-fverify/internal/bench"
	"github.com/spf13/cobra"
)

func benchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare plain and tiered verification on a synthetic stream.",
		Long: `Generate a stream of signatures, a fraction of which are made with the
wrong key, and time full verification of every signature against tiered
verification (fast check on random coefficients, then full check).`,
		Args: cobra.NoArgs,
	}
	flags := cmd.Flags()
	flags.Int("degree", 512, "Ring degree (512 or 1024).")
	flags.Int("count", 10000, "Number of signatures in the stream.")
	flags.Float64("invalid-fraction", 0.1, "Fraction of invalid signatures.")
	flags.Int("indices", 8, "Number of coefficients checked by the fast path.")
	flags.Int("workers", 0, "Also run the stream processor with this many workers.")
	flags.String("seed", "fndsa-stream", "Seed for the dataset and the index subsets.")
	flags.Bool("json", false, "Print the result as JSON.")
	v := newConfig(flags)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := paramsForDegree(v.GetInt("degree"))
		if err != nil {
			return err
		}
		r, err := bench.Run(cmd.Context(), bench.Config{
			Params:          p,
			Count:           v.GetInt("count"),
			InvalidFraction: v.GetFloat64("invalid-fraction"),
			Indices:         v.GetInt("indices"),
			Workers:         v.GetInt("workers"),
			Seed:            []byte(v.GetString("seed")),
		}, a.logger)
		if err != nil {
			return err
		}
		if v.GetBool("json") {
			return bench.WriteJSON(cmd.OutOrStdout(), []bench.Result{*r})
		}
		printResult(cmd.OutOrStdout(), r)
		return nil
	}
	return cmd
}

func printResult(w io.Writer, r *bench.Result) {
	fmt.Fprintf(w, "--- Falcon %d ---\n", r.Degree)
	fmt.Fprintf(w, "Total signatures: %d\n", r.Count)
	fmt.Fprintf(w, "Invalid fraction: %.1f%%\n", 100*r.InvalidFraction)
	fmt.Fprintf(w, "Fast path indices: %d\n\n", r.Indices)

	fmt.Fprintf(w, "Verify all\n")
	fmt.Fprintf(w, "  Total time: %.6fs\n", r.VerifyAllSeconds)
	fmt.Fprintf(w, "  Valid signatures found: %d\n", r.VerifyAllValid)
	fmt.Fprintf(w, "  Throughput: %.0f sigs/sec\n\n", r.Throughput)

	fmt.Fprintf(w, "Expand, then fast check and full check if needed\n")
	fmt.Fprintf(w, "  Expansion time: %.6fs\n", r.ExpandSeconds)
	fmt.Fprintf(w, "  Full check time: %.6fs\n", r.FullSeconds)
	fmt.Fprintf(w, "  Tiered check time: %.6fs\n", r.TieredSeconds)
	fmt.Fprintf(w, "  Valid signatures found: %d\n", r.TieredValid)
	fmt.Fprintf(w, "  Rejected by the fast check: %d\n", r.FastRejected)
	fmt.Fprintf(w, "  Throughput: %.0f sigs/sec\n\n", r.TieredThroughput)

	if r.Speedup >= 1 {
		fmt.Fprintf(w, "Speedup: %.2fx faster\n", r.Speedup)
	} else if r.Speedup > 0 {
		fmt.Fprintf(w, "Slowdown: %.2fx slower\n", 1/r.Speedup)
	}
	fmt.Fprintf(w, "Speedup over the full check alone: %.2fx\n", r.TieredSpeedup)
	if r.Workers > 0 {
		fmt.Fprintf(w, "Stream processor (%d workers): %.6fs\n", r.Workers, r.StreamSeconds)
	}
}
