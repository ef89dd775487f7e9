package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa/fndsatest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func forgeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forge",
		Short: "Write a synthetic (message, signature, public key) test vector.",
		Long: `Write msg.bin, sig.bin and pubkey.bin to the output directory: a random
message with a signature that is valid for the public key. The key is
derived from the signature, so it carries no secret key and is only good
for that one message.`,
		Args: cobra.NoArgs,
	}
	flags := cmd.Flags()
	flags.Int("degree", 512, "Ring degree (512 or 1024).")
	flags.String("seed", "fndsa-stream", "Seed for the test vector.")
	flags.String("out-dir", ".", "Output directory.")
	flags.Bool("pad", false, "Pad the signature to the fixed FN-DSA size.")
	v := newConfig(flags)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := paramsForDegree(v.GetInt("degree"))
		if err != nil {
			return err
		}
		rng := fndsatest.NewReader([]byte(v.GetString("seed")))
		msg := make([]byte, 32)
		if _, err := io.ReadFull(rng, msg); err != nil {
			return errors.Wrap(err, "reading message")
		}
		pk, sig, err := fndsatest.Forge(p, msg, rng)
		if err != nil {
			return err
		}
		if v.GetBool("pad") {
			sig = sig.Pad(p)
		}

		dir := v.GetString("out-dir")
		for name, data := range map[string][]byte{
			"msg.bin":    msg,
			"sig.bin":    sig.Encode(p),
			"pubkey.bin": pk.Encode(),
		} {
			if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
				return errors.Wrapf(err, "writing %s", name)
			}
		}
		a.logger.Info("test vector written", zap.String("dir", dir), zap.Stringer("params", p))
		return nil
	}
	return cmd
}
