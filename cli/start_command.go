package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"modelbridge/api"
	"modelbridge/common"
	"modelbridge/domain"
	"modelbridge/host"
)

func NewStartCommand() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Start the bridge server",
		Description: "Starts the bridge HTTP server backed by the configured host client. " +
			"If the preferred port is taken, the next port is tried once before giving up.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Preferred port to listen on (default from config/env)",
			},
		},
		Action: handleStartCommand,
	}
}

func handleStartCommand(cliCtx context.Context, cmd *cli.Command) error {
	config, err := common.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("failed to load local config: %w", err)
	}

	hostClient, err := buildHostClient(config.Host)
	if err != nil {
		return err
	}

	gateway := host.NewGateway(hostClient)
	ctrl := api.NewController(gateway, config.ResolvedExtensionId())
	server := api.NewServer(ctrl)
	server.OnPortBound(func(port int) {
		log.Info().Int("port", port).Msg("Bridge server ready")
	})

	preferredPort := int(cmd.Int("port"))
	if preferredPort == 0 {
		preferredPort = config.ResolvedServerPort()
	}

	boundPort, err := server.Start(preferredPort)
	if err != nil {
		return err
	}
	if boundPort != preferredPort {
		log.Warn().Int("preferred", preferredPort).Int("bound", boundPort).
			Msg("Bridge server bound to fallback port; clients assuming the preferred port must be updated")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case <-cliCtx.Done():
	}

	return server.Stop()
}

func buildHostClient(config common.HostConfig) (host.Client, error) {
	models := make([]domain.ModelDescriptor, 0, len(config.Models))
	for _, m := range config.Models {
		models = append(models, domain.ModelDescriptor{
			Id:             m.Id,
			Vendor:         m.Vendor,
			Family:         m.Family,
			Name:           m.Name,
			MaxInputTokens: m.MaxInputTokens,
		})
	}

	switch config.Type {
	case "openai_compatible":
		key := config.Key
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		return &host.OpenaiClient{
			BaseURL:      config.BaseURL,
			ApiKey:       key,
			Models:       models,
			DefaultModel: config.DefaultModel,
		}, nil
	case "static", "":
		return &host.StaticClient{Models: models}, nil
	default:
		return nil, fmt.Errorf("invalid host type: %s", config.Type)
	}
}
