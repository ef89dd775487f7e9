package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errInvalid is returned when a well-formed signature does not verify.
var errInvalid = errors.New("signature is not valid")

func verifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify one signature.",
		Long: `Verify a signature on a message. The degree is taken from the header of
the public key. With --indices K > 0, the fast check runs first on K random
coefficients; the full check decides in all cases.`,
		Args: cobra.NoArgs,
	}
	flags := cmd.Flags()
	flags.String("pubkey", "", "Encoded public key file.")
	flags.String("sig", "", "Encoded signature file.")
	flags.String("msg", "", "Message file.")
	flags.Int("indices", 8, "Number of coefficients checked by the fast path (0 to skip it).")
	flags.String("seed", "", "Seed for the index subset (random if empty).")
	v := newConfig(flags)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var files [3][]byte
		for i, name := range []string{"pubkey", "sig", "msg"} {
			path := v.GetString(name)
			if path == "" {
				return errors.Errorf("missing --%s", name)
			}
			b, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading %s", name)
			}
			files[i] = b
		}
		pkb, sigb, msg := files[0], files[1], files[2]

		if len(pkb) == 0 {
			return errors.New("empty public key")
		}
		p := fndsa.ParamsForLogN(uint(pkb[0]))
		if p == nil {
			return errors.Errorf("unsupported public key header 0x%02x", pkb[0])
		}
		pk, err := fndsa.DecodePublicKey(p, pkb)
		if err != nil {
			return err
		}
		sig, err := fndsa.DecodeSignature(p, sigb)
		if err != nil {
			return err
		}
		es, err := fndsa.NewExpandedSignature(msg, sig, pk)
		if err != nil {
			return err
		}

		if k := v.GetInt("indices"); k > 0 {
			seed := []byte(v.GetString("seed"))
			if len(seed) == 0 {
				seed = make([]byte, 32)
				if _, err := rand.Read(seed); err != nil {
					return errors.Wrap(err, "seeding index sampler")
				}
			}
			idx := fndsa.NewIndexSampler(seed).Sample(p.N, k)
			fast := fndsa.FastVerify(msg, es, pk, idx)
			a.logger.Debug("fast check", zap.Ints("indices", idx), zap.Bool("passed", fast))
			if !fast {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid (fast check)")
				return errInvalid
			}
		}
		if !fndsa.VerifyExpanded(msg, es, pk) {
			fmt.Fprintln(cmd.OutOrStdout(), "invalid")
			return errInvalid
		}
		fmt.Fprintf(cmd.OutOrStdout(), "valid (%s)\n", p)
		return nil
	}
	return cmd
}
