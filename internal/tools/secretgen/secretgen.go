// Package secretgen generates random secrets for signing grade tokens.
package secretgen

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	entrypoint "github.com/louisbranch/jgram/internal/platform/cmd"
	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

// EnvName is the variable the grader reads its secret from.
const EnvName = "JGRAM_SECRET"

// Config holds configuration for secret generation.
type Config struct {
	Bytes int  `env:"SECRET_BYTES" envDefault:"32"`
	Raw   bool `env:"SECRET_RAW"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Bytes: 32}
	fs.IntVar(&cfg.Bytes, "bytes", cfg.Bytes, "number of random bytes")
	fs.BoolVar(&cfg.Raw, "raw", cfg.Raw, "print only the hex secret")
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run generates the secret and writes it to out. A nil reader uses
// crypto/rand.
func Run(ctx context.Context, cfg Config, out io.Writer, reader io.Reader) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSecretGen, func(context.Context) error {
		return generate(cfg, out, reader)
	})
}

func generate(cfg Config, out io.Writer, reader io.Reader) error {
	if cfg.Bytes <= 0 {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "bytes must be greater than zero",
			map[string]string{"Reason": "bytes must be greater than zero"})
	}
	if out == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, "output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}

	buf := make([]byte, cfg.Bytes)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	secret := hex.EncodeToString(buf)
	if cfg.Raw {
		_, err := fmt.Fprintln(out, secret)
		return err
	}
	_, err := fmt.Fprintf(out, "%s=%s\n", EnvName, secret)
	return err
}
