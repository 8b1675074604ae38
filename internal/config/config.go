// Package config loads the configuration of the chat panel binaries.
//
// Values come from the environment (optionally seeded from .env files) and
// can be overridden by command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Client configures the terminal chat panel.
type Client struct {
	ServerURL string `env:"CHAT_SERVER_URL,default=ws://localhost:8080/ws" validate:"required,url"`
	Colours   bool   `env:"CHAT_COLOURS,default=true"`
	LogLevel  string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	QueueSize int    `env:"CHAT_QUEUE_SIZE,default=64" validate:"min=1"`
}

// Server configures the development endpoint.
type Server struct {
	Addr     string `env:"CHAT_ADDR,default=:8080" validate:"required"`
	Reply    string `env:"CHAT_REPLY,default=lmao"`
	Echo     bool   `env:"CHAT_ECHO,default=false"`
	LogLevel string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
}

var validate = validator.New()

// LoadClient reads the client configuration from dotenv files, the
// environment and args, in increasing order of precedence.
func LoadClient(args []string, dotenv ...string) (Client, error) {
	var cfg Client
	if err := fromEnv(&cfg, dotenv); err != nil {
		return cfg, err
	}

	flags := flag.NewFlagSet("client", flag.ContinueOnError)
	flags.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "WebSocket endpoint (e.g., ws://localhost:8080/ws)")
	flags.BoolVar(&cfg.Colours, "colours", cfg.Colours, "Colour messages by origin")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (DEBUG, INFO, WARN, ERROR)")
	if err := flags.Parse(args); err != nil {
		return cfg, fmt.Errorf("config error: %w", err)
	}

	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid client config: %w", err)
	}
	return cfg, nil
}

// LoadServer reads the server configuration from dotenv files, the
// environment and args, in increasing order of precedence.
func LoadServer(args []string, dotenv ...string) (Server, error) {
	var cfg Server
	if err := fromEnv(&cfg, dotenv); err != nil {
		return cfg, err
	}

	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	flags.StringVar(&cfg.Addr, "port", cfg.Addr, "Address to listen on (e.g., :8080)")
	flags.StringVar(&cfg.Reply, "reply", cfg.Reply, "Fixed response to every message")
	flags.BoolVar(&cfg.Echo, "echo", cfg.Echo, "Echo messages back instead of the fixed reply")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (DEBUG, INFO, WARN, ERROR)")
	if err := flags.Parse(args); err != nil {
		return cfg, fmt.Errorf("config error: %w", err)
	}

	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid server config: %w", err)
	}
	return cfg, nil
}

func fromEnv(cfg any, dotenv []string) error {
	// Existing environment variables win over dotenv files.
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load dotenv: %w", err)
	}
	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
