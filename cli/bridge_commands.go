package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"modelbridge/client"
	"modelbridge/domain"
)

func NewModelsCommand() *cli.Command {
	return &cli.Command{
		Name:   "models",
		Usage:  "List the models available through a running bridge server",
		Action: handleModelsCommand,
	}
}

func handleModelsCommand(ctx context.Context, cmd *cli.Command) error {
	c := client.NewClient()
	resp, err := c.ListModels(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%d model(s) available:\n", resp.Count)
	for _, model := range resp.Models {
		fmt.Printf("  %s (vendor: %s, family: %s)\n", model.Id, model.Vendor, model.Family)
	}
	return nil
}

func NewChatCommand() *cli.Command {
	return &cli.Command{
		Name:      "chat",
		Usage:     "Send a one-shot chat message through a running bridge server",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Usage: "Model id to use (defaults to the bridge's first model)"},
		},
		Action: handleChatCommand,
	}
}

func handleChatCommand(ctx context.Context, cmd *cli.Command) error {
	message := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if message == "" {
		return errors.New("a message is required")
	}

	bridgeReq := domain.BridgeRequest{
		Messages: []domain.ChatMessage{{Content: message}},
	}
	if modelId := cmd.String("model"); modelId != "" {
		bridgeReq.Model = &domain.ModelSelector{Id: modelId}
	}

	c := client.NewClient()
	resp, err := c.Chat(ctx, bridgeReq)
	if err != nil {
		return err
	}

	if resp.Model != nil {
		fmt.Printf("[%s]\n", resp.Model.Id)
	}
	fmt.Println(resp.Response)
	return nil
}
