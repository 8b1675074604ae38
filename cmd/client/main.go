package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
	"github.com/omochice/chat-panel/internal/channel/ws"
	"github.com/omochice/chat-panel/internal/config"
	"github.com/omochice/chat-panel/internal/panel"
	"github.com/omochice/chat-panel/internal/terminal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient(os.Args[1:])
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := panel.NewLoop(cfg.QueueSize)
	go loop.Run(ctx)

	ch := ws.New(cfg.ServerURL, log)
	form := terminal.NewForm()
	p, err := panel.New(panel.Config{
		Channel: ch,
		Display: terminal.NewDisplay(os.Stdout, cfg.Colours),
		Input:   form,
		Loop:    loop,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	if err := ch.Connect(ctx); err != nil {
		return err
	}
	defer ch.Close()

	fmt.Println("Type your messages (or '/quit' to exit):")
	err = form.Run(ctx, os.Stdin, func(line string) {
		loop.Post(func() {
			form.SetValue(line)
			p.Submit()
		})
	})
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}
