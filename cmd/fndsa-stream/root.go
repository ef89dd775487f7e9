package main

import (
	"strconv"
	"strings"

	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa"
	"github.com/benjivesterby/go-fn-dsa-fverify/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "FNDSA"

type app struct {
	config *viper.Viper
	logger *zap.Logger
}

// Each command reads its flags through its own viper instance, so that
// FNDSA_<FLAG> environment variables (dashes replaced by underscores)
// override the defaults.
func newConfig(flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	return v
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	cmd := &cobra.Command{
		Use:          "fndsa-stream",
		Short:        "Tiered Falcon signature verification",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Config{
				Level:  a.config.GetString("log-level"),
				Format: a.config.GetString("log-format"),
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.String("log-level", "info", "Log level (debug, info, warn, error).")
	flags.String("log-format", "console", "Log format (console, json, logfmt).")
	a.config = newConfig(flags)

	cmd.AddCommand(benchCmd(a), sweepCmd(a), verifyCmd(a), forgeCmd(a))
	return cmd
}

func paramsForDegree(degree int) (*fndsa.Params, error) {
	switch degree {
	case 512:
		return fndsa.Falcon512, nil
	case 1024:
		return fndsa.Falcon1024, nil
	}
	return nil, errors.Errorf("unsupported degree %d (must be 512 or 1024)", degree)
}

// Split list values on commas as well, since environment variables hold
// a single string.
func listValues(values []string) []string {
	var r []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				r = append(r, s)
			}
		}
	}
	return r
}

func parseInts(values []string) ([]int, error) {
	var r []int
	for _, s := range listValues(values) {
		x, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.Errorf("invalid integer %q", s)
		}
		r = append(r, x)
	}
	return r, nil
}

func parseFloats(values []string) ([]float64, error) {
	var r []float64
	for _, s := range listValues(values) {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Errorf("invalid number %q", s)
		}
		r = append(r, x)
	}
	return r, nil
}
