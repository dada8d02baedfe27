package bootstrap

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/zentix-relay/internal/config"
	"github.com/wolfman30/zentix-relay/internal/leads"
	"github.com/wolfman30/zentix-relay/internal/notify"
	"github.com/wolfman30/zentix-relay/internal/observability/metrics"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

// BuildLeadNotifier returns the email notifier named by LEAD_NOTIFY_PROVIDER,
// or nil when notifications are off or misconfigured. Notifications are best
// effort, so a broken provider never blocks startup.
func BuildLeadNotifier(ctx context.Context, cfg *appconfig.Config, loadAWS AWSConfigLoader, logger *logging.Logger) *notify.LeadNotifier {
	if cfg == nil || cfg.LeadNotifyProvider == "" || cfg.LeadNotifyProvider == "none" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	recipients := strings.Split(cfg.LeadNotifyTo, ",")
	if strings.TrimSpace(cfg.LeadNotifyTo) == "" {
		logger.Warn("lead notifications requested without LEAD_NOTIFY_TO; disabled", "provider", cfg.LeadNotifyProvider)
		return nil
	}

	var sender notify.EmailSender
	switch cfg.LeadNotifyProvider {
	case "sendgrid":
		sg := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sg == nil {
			logger.Warn("SENDGRID_API_KEY not set; lead notifications disabled")
			return nil
		}
		sender = sg
	case "ses":
		if loadAWS == nil {
			logger.Warn("no aws config loader; lead notifications disabled")
			return nil
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			logger.Warn("failed to load aws config; lead notifications disabled", "error", err)
			return nil
		}
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "stub", "log":
		sender = notify.NewStubEmailSender(logger)
	default:
		logger.Warn("unknown LEAD_NOTIFY_PROVIDER; lead notifications disabled", "provider", cfg.LeadNotifyProvider)
		return nil
	}

	logger.Info("lead notifications enabled", "provider", cfg.LeadNotifyProvider)
	return notify.NewLeadNotifier(sender, recipients, cfg.SendGridFromName, logger)
}

// BuildLeadsHandler wires the spreadsheet webhook and, when configured, the
// notification email.
func BuildLeadsHandler(ctx context.Context, cfg *appconfig.Config, loadAWS AWSConfigLoader, m *metrics.RelayMetrics, logger *logging.Logger) *leads.Handler {
	forwarder := leads.NewWebhookForwarder(cfg.LeadsWebhookURL, cfg.LeadsWebhookTimeout, logger)
	handler := leads.NewHandler(forwarder, logger).WithMetrics(m)
	if notifier := BuildLeadNotifier(ctx, cfg, loadAWS, logger); notifier != nil {
		handler = handler.WithNotifier(notifier)
	}
	return handler
}
