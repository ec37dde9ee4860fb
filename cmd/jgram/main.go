package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	jgramcmd "github.com/louisbranch/jgram/internal/cmd/jgram"
)

func main() {
	cfg, err := jgramcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[JGRAM] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := jgramcmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, jgramcmd.ErrAttention) {
			stop()
			os.Exit(1)
		}
		log.Fatalf("%s: %v", cfg.Task, err)
	}
}
