package jgram

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/louisbranch/jgram/internal/platform/i18n/catalog"
)

// Prompter fills in settings missing from cfg.
type Prompter interface {
	Prompt(ctx context.Context, cfg *Config) error
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// formPrompter asks for the task first, then for the secret and directory
// the chosen task needs.
type formPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p formPrompter) Prompt(ctx context.Context, cfg *Config) error {
	printer := catalog.Default().Printer(cfg.Locale)

	if cfg.Task == "" {
		task := huh.NewSelect[string]().
			Title(printer.Sprintf("report.prompt.task")).
			Options(
				huh.NewOption(printer.Sprintf("report.prompt.check"), TaskCheck),
				huh.NewOption(printer.Sprintf("report.prompt.grade"), TaskGrade),
				huh.NewOption(printer.Sprintf("report.prompt.verify"), TaskVerify),
			).
			Value(&cfg.Task)
		if err := p.run(ctx, task); err != nil {
			return err
		}
	}

	var fields []huh.Field
	if cfg.Task != TaskCheck && cfg.Secret == "" {
		fields = append(fields, huh.NewInput().
			Title(printer.Sprintf("report.prompt.secret")).
			EchoMode(huh.EchoModePassword).
			Validate(required).
			Value(&cfg.Secret))
	}
	if cfg.DocumentDir == "" {
		fields = append(fields, huh.NewInput().
			Title(printer.Sprintf("report.prompt.dir")).
			Validate(required).
			Value(&cfg.DocumentDir))
	}
	if len(fields) == 0 {
		return nil
	}
	return p.run(ctx, fields...)
}

func (p formPrompter) run(ctx context.Context, fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).
		WithInput(p.in).
		WithOutput(p.out).
		RunWithContext(ctx)
}

func required(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("required")
	}
	return nil
}
