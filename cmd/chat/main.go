// Console chat client for trying the intake assistant without a browser.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mkoellner/praxis-agent/cmd/mainconfig"
	appconfig "github.com/mkoellner/praxis-agent/internal/config"
	"github.com/mkoellner/praxis-agent/internal/extract"
	"github.com/mkoellner/praxis-agent/internal/handoff"
	"github.com/mkoellner/praxis-agent/internal/intake"
	"github.com/mkoellner/praxis-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	// Text logs on stderr keep the chat transcript on stdout readable.
	logger := logging.NewText(cfg.LogLevel)

	ctx := context.Background()

	client, err := mainconfig.BuildLLMClient(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "LLM-Client konnte nicht initialisiert werden: %v\n", err)
		os.Exit(1)
	}
	sender := mainconfig.BuildEmailSender(ctx, cfg, logger)

	practice := intake.Practice{
		Name:    cfg.PracticeName,
		Phone:   cfg.PracticePhone,
		Address: cfg.PracticeAddress,
	}

	orchestrator := intake.NewOrchestrator(
		client,
		extract.NewExtractor(client, "", logger),
		handoff.NewEmailDispatcher(sender, cfg.PracticeEmail, cfg.PracticeName, logger),
		practice,
		intake.Options{
			MaxOutputTokens: int32(cfg.MaxOutputTokens),
			Timeout:         cfg.LLMTimeout,
		},
		logger,
	)

	session := intake.NewSession("console")

	fmt.Println(intake.WelcomeMessage(cfg.PracticeName))
	fmt.Println("(Zum Beenden: exit, quit oder beenden)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Sie: ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		switch strings.ToLower(text) {
		case "exit", "quit", "beenden":
			fmt.Println("Auf Wiedersehen!")
			return
		}

		res := orchestrator.HandleTurn(ctx, session, text)
		fmt.Printf("\nAssistent: %s\n\n", res.Reply)
	}
}
