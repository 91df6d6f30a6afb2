package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"modelbridge/logger"
)

func main() {
	// Load .env file if any
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Warning: failed to load .env file")
		}
	}
	log.Logger = logger.Get()

	rootCmd := &cli.Command{
		Name:  "bridge",
		Usage: "Expose host language models over HTTP and standard chat-completion protocols",
		Commands: []*cli.Command{
			NewStartCommand(),
			NewModelsCommand(),
			NewChatCommand(),
		},
	}

	if err := rootCmd.Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
