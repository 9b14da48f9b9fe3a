// Package notify delivers operator failure alerts over SNS and critical alert digests over SES.
package notify

import (
	"context"
	"fmt"
	"strings"

	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/matching"
	"compliance-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const maxSubjectLen = 100

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Config struct {
	EmailEnabled bool
	FromEmail    string
	// Bcc receives a copy of every digest, for the operations inbox.
	Bcc        []string
	SMSEnabled bool
	TopicARN   string
	Currency   string
}

type Notifier struct {
	config    Config
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
}

func NewNotifier(cfg Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	if cfg.Currency == "" {
		cfg.Currency = matching.DefaultCurrency
	}
	return &Notifier{config: cfg, sesClient: sesClient, snsClient: snsClient, logger: log}
}

// OperatorAlert publishes a failure to the operations topic. Disabled SMS is a no-op.
func (n *Notifier) OperatorAlert(ctx context.Context, subject, message string) error {
	if !n.config.SMSEnabled || n.snsClient == nil {
		n.logger.Debug("operator alert skipped", map[string]interface{}{"subject": subject})
		return nil
	}

	if len(subject) > maxSubjectLen {
		subject = subject[:maxSubjectLen]
	}
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.TopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("publish operator alert: %w", err)
	}
	return nil
}

// CriticalDigest emails the company a summary of its critical and high alerts.
// It returns false when nothing was sent.
func (n *Notifier) CriticalDigest(ctx context.Context, company models.Company, alerts []models.Alert) (bool, error) {
	if !n.config.EmailEnabled || n.sesClient == nil || company.Email == "" {
		return false, nil
	}

	urgent := UrgentAlerts(alerts)
	if len(urgent) == 0 {
		return false, nil
	}

	subject := fmt.Sprintf("%s: %d alertas requieren tu atención", company.Name, len(urgent))
	body := n.digestBody(urgent)

	dest := &types.Destination{ToAddresses: []string{company.Email}}
	if len(n.config.Bcc) > 0 {
		dest.BccAddresses = n.config.Bcc
	}

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: dest,
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	if err != nil {
		return false, fmt.Errorf("send alert digest: %w", err)
	}

	n.logger.Info("alert digest sent", map[string]interface{}{
		"companyId": company.ID,
		"alerts":    len(urgent),
	})
	return true, nil
}

// UrgentAlerts keeps the critical and high risk alerts, in their original order.
func UrgentAlerts(alerts []models.Alert) []models.Alert {
	var urgent []models.Alert
	for _, a := range alerts {
		if a.RiskLevel == models.RiskCritical || a.RiskLevel == models.RiskHigh {
			urgent = append(urgent, a)
		}
	}
	return urgent
}

func (n *Notifier) digestBody(alerts []models.Alert) string {
	var b strings.Builder
	b.WriteString("Estas obligaciones necesitan atención:\n\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "- %s", a.Title)
		if a.DeadlineLabel != nil {
			fmt.Fprintf(&b, " (%s)", *a.DeadlineLabel)
		}
		if a.EconomicImpact > 0 {
			fmt.Fprintf(&b, ": sanción de hasta %s", matching.FormatAmount(a.EconomicImpact, n.config.Currency))
		}
		b.WriteString("\n")
	}
	return b.String()
}
