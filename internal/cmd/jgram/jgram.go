// Package jgram parses grader command configuration and runs the check,
// grade and verify tasks over a directory of documents.
package jgram

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/jgram/internal/core/assessment"
	"github.com/louisbranch/jgram/internal/document"
	"github.com/louisbranch/jgram/internal/grading"
	entrypoint "github.com/louisbranch/jgram/internal/platform/cmd"
	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
	"github.com/louisbranch/jgram/internal/platform/logging"
	"github.com/louisbranch/jgram/internal/platform/timeouts"
	"github.com/louisbranch/jgram/internal/rubric"
)

// Tasks.
const (
	TaskCheck  = "check"
	TaskGrade  = "grade"
	TaskVerify = "verify"
)

// ErrAttention is returned when at least one document failed or did not
// verify as valid.
var ErrAttention = errors.New("one or more documents need attention")

// Config holds grader command configuration.
type Config struct {
	Task        string        `env:"TASK"`
	Secret      string        `env:"SECRET"`
	DocumentDir string        `env:"DOCUMENT_DIR"`
	Rubric      string        `env:"RUBRIC"`
	Workers     int           `env:"WORKERS" envDefault:"4"`
	Locale      string        `env:"LOCALE" envDefault:"en-US"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"10m"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Task, "task", cfg.Task, "task to run: check, grade or verify")
	fs.StringVar(&cfg.Secret, "secret", cfg.Secret, "secret used to sign and verify result tokens")
	fs.StringVar(&cfg.DocumentDir, "dir", cfg.DocumentDir, "directory holding the .docx documents")
	fs.StringVar(&cfg.Rubric, "rubric", cfg.Rubric, "rubric YAML file (default: built-in rubric)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "documents processed in parallel")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "report locale")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "time limit for the whole batch")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Task = normalizeTask(cfg.Task)
	return cfg, nil
}

// normalizeTask accepts the numbered menu entries as task aliases.
func normalizeTask(task string) string {
	switch task = strings.ToLower(strings.TrimSpace(task)); task {
	case "1":
		return TaskCheck
	case "2":
		return TaskGrade
	case "3":
		return TaskVerify
	default:
		return task
	}
}

// Run executes the configured task. It prompts for missing settings when
// stdin is a terminal.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	var prompter Prompter
	if stdinIsTerminal() {
		prompter = formPrompter{in: os.Stdin, out: errOut}
	}
	return run(ctx, cfg, runtimeDeps{out: out, errOut: errOut, prompter: prompter})
}

type runtimeDeps struct {
	out      io.Writer
	errOut   io.Writer
	prompter Prompter
	open     grading.Opener
}

func run(ctx context.Context, cfg Config, deps runtimeDeps) error {
	if deps.out == nil {
		deps.out = io.Discard
	}
	if deps.errOut == nil {
		deps.errOut = io.Discard
	}
	if deps.open == nil {
		deps.open = func(path string) (grading.Document, error) {
			return document.Open(path)
		}
	}

	logger, err := logging.New(deps.errOut, cfg.LogLevel)
	if err != nil {
		return err
	}

	if needsPrompt(cfg) && deps.prompter != nil {
		if err := deps.prompter.Prompt(ctx, &cfg); err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		cfg.Task = normalizeTask(cfg.Task)
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	policy := rubric.Default()
	if cfg.Rubric != "" {
		policy, err = rubric.Load(cfg.Rubric)
		if err != nil {
			return err
		}
	}
	scan, err := policy.ScanConfig()
	if err != nil {
		return err
	}

	paths, err := document.List(cfg.DocumentDir)
	if err != nil {
		return err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.Batch
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runner := grading.Runner{
		Grader: grading.Grader{
			Scan:      scan,
			Evaluator: assessment.WeightedEvaluator{},
			Token:     policy.TokenConfig(cfg.Secret),
		},
		Open:    deps.open,
		Workers: cfg.Workers,
		Logger:  logger,
	}
	rep := newReporter(deps.out, cfg.Locale)

	options := entrypoint.RunOptions{Logger: logger}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceGrader, options, func(ctx context.Context) error {
		attention, err := runTask(ctx, cfg.Task, runner, paths, rep)
		if err != nil {
			return err
		}
		rep.summary(len(paths), attention)
		if attention > 0 {
			return ErrAttention
		}
		return nil
	})
}

// runTask runs task over paths, reports each outcome and returns how many
// documents need attention.
func runTask(ctx context.Context, task string, runner grading.Runner, paths []string, rep *reporter) (int, error) {
	attention := 0
	switch task {
	case TaskCheck:
		outcomes, err := runner.Check(ctx, paths)
		if err != nil {
			return 0, err
		}
		for _, outcome := range outcomes {
			if rep.check(outcome) {
				attention++
			}
		}
	case TaskGrade:
		outcomes, err := runner.Grade(ctx, paths)
		if err != nil {
			return 0, err
		}
		for _, outcome := range outcomes {
			if rep.grade(outcome) {
				attention++
			}
		}
	case TaskVerify:
		outcomes, err := runner.Verify(ctx, paths)
		if err != nil {
			return 0, err
		}
		for _, outcome := range outcomes {
			if rep.verify(outcome) {
				attention++
			}
		}
	default:
		return 0, unknownTask(task)
	}
	return attention, nil
}

func needsPrompt(cfg Config) bool {
	if cfg.Task == "" || cfg.DocumentDir == "" {
		return true
	}
	return cfg.Task != TaskCheck && cfg.Secret == ""
}

func validateConfig(cfg Config) error {
	switch cfg.Task {
	case "":
		return invalidArgument("task is required (check, grade or verify)")
	case TaskCheck, TaskGrade, TaskVerify:
	default:
		return unknownTask(cfg.Task)
	}
	if cfg.Task != TaskCheck && cfg.Secret == "" {
		return invalidArgument("secret is required for " + cfg.Task)
	}
	if strings.TrimSpace(cfg.DocumentDir) == "" {
		return invalidArgument("document directory is required")
	}
	if cfg.Workers < 0 {
		return invalidArgument("workers must not be negative")
	}
	return nil
}

func unknownTask(task string) error {
	return invalidArgument(fmt.Sprintf("unknown task %q (check, grade or verify)", task))
}

func invalidArgument(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, reason, map[string]string{"Reason": reason})
}
