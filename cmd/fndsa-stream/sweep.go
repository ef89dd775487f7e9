package main

import (
	"os"

	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa"
	"github.com/benjivesterby/go-fn-dsa-fverify/internal/bench"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func sweepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the benchmark over a grid of invalid fractions and index counts.",
		Args:  cobra.NoArgs,
	}
	flags := cmd.Flags()
	flags.StringSlice("degrees", []string{"512", "1024"}, "Ring degrees.")
	flags.Int("count", 2000, "Number of signatures per stream.")
	flags.StringSlice("invalid-fractions", []string{"0.01", "0.1", "0.25", "0.5", "0.75", "0.9", "0.99"}, "Fractions of invalid signatures.")
	flags.StringSlice("indices", []string{"1", "2", "4", "8", "16", "32", "64"}, "Fast path index counts.")
	flags.String("seed", "fndsa-stream", "Seed for the datasets and the index subsets.")
	flags.String("out", "results.json", "Output file for the JSON results.")
	flags.String("chart", "", "Output file for an HTML chart of the results.")
	v := newConfig(flags)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		degrees, err := parseInts(v.GetStringSlice("degrees"))
		if err != nil {
			return err
		}
		var params []*fndsa.Params
		for _, d := range degrees {
			p, err := paramsForDegree(d)
			if err != nil {
				return err
			}
			params = append(params, p)
		}
		fractions, err := parseFloats(v.GetStringSlice("invalid-fractions"))
		if err != nil {
			return err
		}
		indices, err := parseInts(v.GetStringSlice("indices"))
		if err != nil {
			return err
		}

		results, err := bench.Sweep(cmd.Context(), bench.SweepConfig{
			Params:           params,
			Count:            v.GetInt("count"),
			InvalidFractions: fractions,
			Indices:          indices,
			Seed:             []byte(v.GetString("seed")),
		}, a.logger)
		if err != nil {
			return err
		}

		out := v.GetString("out")
		if err := writeFile(out, func(f *os.File) error { return bench.WriteJSON(f, results) }); err != nil {
			return err
		}
		a.logger.Info("results written", zap.String("file", out), zap.Int("runs", len(results)))
		if chart := v.GetString("chart"); chart != "" {
			if err := writeFile(chart, func(f *os.File) error { return bench.RenderChart(f, results) }); err != nil {
				return err
			}
			a.logger.Info("chart written", zap.String("file", chart))
		}
		return nil
	}
	return cmd
}

func writeFile(name string, write func(f *os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing %s", name)
}
