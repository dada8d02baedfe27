package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wolfman30/zentix-relay/cmd/mainconfig"
	"github.com/wolfman30/zentix-relay/internal/app/bootstrap"
	"github.com/wolfman30/zentix-relay/internal/chat"
	appconfig "github.com/wolfman30/zentix-relay/internal/config"
	"github.com/wolfman30/zentix-relay/internal/llm"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

// Sends one scripted conversation through the configured provider with the
// production persona and reply shaping. Reads the same env/.env as cmd/api.
func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CompletionTimeout+10*time.Second)
	defer cancel()

	client, cleanup, err := bootstrap.BuildLLMClient(ctx, cfg, mainconfig.Loader(cfg), nil, logger)
	if err != nil {
		fmt.Printf("failed to build %s client: %v\n", cfg.LLMProvider, err)
		os.Exit(1)
	}
	defer cleanup()
	svc := bootstrap.BuildChatService(cfg, client, nil, logger)

	history := []llm.ChatMessage{
		{Role: llm.RoleUser, Content: "Hola, ¿qué productos venden?"},
		{Role: llm.RoleAssistant, Content: "¡Hola! En MiniTienda Express tenemos tecnología, hogar y accesorios. ¿Buscas algo en particular?"},
	}
	req := chat.Request{
		Message: "Quiero una cotización, mi número es +52 55 28 50 37 66",
		History: history,
	}

	fmt.Printf("provider: %s\n", cfg.LLMProvider)
	start := time.Now()
	resp, err := svc.Reply(ctx, req)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		fmt.Printf("error after %v: %v\n", elapsed, err)
		os.Exit(1)
	}
	fmt.Printf("reply (%v, lead_capture=%t):\n%s\n", elapsed, resp.LeadCapture, resp.Reply)
}
