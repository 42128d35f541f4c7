// Package mainconfig wires configured providers into concrete clients for
// the command binaries.
package mainconfig

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/mkoellner/praxis-agent/internal/config"
	"github.com/mkoellner/praxis-agent/internal/llm"
	"github.com/mkoellner/praxis-agent/internal/notify"
	"github.com/mkoellner/praxis-agent/pkg/logging"
)

// BuildLLMClient assembles the configured provider chain. With a distinct
// fallback provider configured, both clients are built and wrapped; a broken
// fallback is skipped rather than failing startup.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (llm.Client, error) {
	primary, err := buildProvider(ctx, cfg, cfg.LLMProvider)
	if err != nil {
		return nil, err
	}

	if cfg.LLMFallbackProvider == "" || cfg.LLMFallbackProvider == cfg.LLMProvider {
		return primary, nil
	}

	fallback, err := buildProvider(ctx, cfg, cfg.LLMFallbackProvider)
	if err != nil {
		logger.Warn("fallback LLM provider unavailable, continuing without it",
			"provider", cfg.LLMFallbackProvider, "error", err)
		return primary, nil
	}

	logger.Info("LLM fallback chain enabled",
		"primary", cfg.LLMProvider, "fallback", cfg.LLMFallbackProvider)
	return llm.NewFallbackClient(primary, fallback, logger), nil
}

func buildProvider(ctx context.Context, cfg *appconfig.Config, provider string) (llm.Client, error) {
	switch provider {
	case "gemini":
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	case "bedrock":
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		api := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
			if cfg.AWSEndpointOverride != "" {
				o.BaseEndpoint = aws.String(cfg.AWSEndpointOverride)
			}
		})
		return llm.NewBedrockClient(api, cfg.BedrockModelID), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

// BuildEmailSender resolves the email provider. "auto" prefers SendGrid when
// an API key is present, then SES, then the logging stub. Misconfiguration
// degrades to the stub so the assistant keeps talking; the patient is told
// about dispatch failures per turn.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	provider := cfg.EmailProvider
	if provider == "auto" {
		switch {
		case cfg.SendGridAPIKey != "":
			provider = "sendgrid"
		case cfg.SESFromEmail != "":
			provider = "ses"
		default:
			provider = "stub"
		}
	}

	switch provider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			return s
		}
		logger.Warn("sendgrid not configured, falling back to stub email sender")
	case "ses":
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("SES unavailable, falling back to stub email sender", "error", err)
			break
		}
		sesClient := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
			if cfg.AWSEndpointOverride != "" {
				o.BaseEndpoint = aws.String(cfg.AWSEndpointOverride)
			}
		})
		if s := notify.NewSESSender(sesClient, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); s != nil {
			return s
		}
		logger.Warn("SES sender not configured, falling back to stub email sender")
	case "stub":
	default:
		logger.Warn("unknown email provider, using stub", "provider", provider)
	}

	return notify.NewStubEmailSender(logger)
}

// LoadAWSConfig loads the default AWS configuration for the configured region.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}
