package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/jgram/internal/platform/config"
	"github.com/louisbranch/jgram/internal/tools/secretgen"
)

func main() {
	cfg, err := secretgen.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := secretgen.Run(ctx, cfg, os.Stdout, nil); err != nil {
		config.Exitf("generate secret: %v", err)
	}
}
