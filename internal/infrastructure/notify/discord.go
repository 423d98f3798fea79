package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"devpulse/internal/bootstrap/logging"
	"devpulse/internal/domain/review"
	"devpulse/internal/errs"
	"devpulse/internal/ports"
)

// Discord embed colors keyed by average quality.
const (
	colorGreen  = 3066993
	colorYellow = 15844367
	colorRed    = 15158332
)

// ErrMissingWebhookURL is returned when no webhook destination is configured.
var ErrMissingWebhookURL = errors.New("report webhook url not configured")

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Footer      discordFooter  `json:"footer"`
	Timestamp   string         `json:"timestamp"`
}

type discordMessage struct {
	Embeds []discordEmbed `json:"embeds"`
}

// DiscordNotifier posts daily reports to a Discord webhook.
type DiscordNotifier struct {
	client     *resty.Client
	webhookURL string
}

var _ ports.ReportNotifier = (*DiscordNotifier)(nil)

func NewDiscordNotifier(webhookURL string) *DiscordNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &DiscordNotifier{
		client:     client,
		webhookURL: strings.TrimSpace(webhookURL),
	}
}

func (n *DiscordNotifier) SendDailyReport(ctx context.Context, report review.DailyReport) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if n.webhookURL == "" {
		return ErrMissingWebhookURL
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "infra.notify"))

	message := discordMessage{
		Embeds: []discordEmbed{{
			Title:       "Daily Team Report",
			Description: "Report for " + report.Date,
			Color:       embedColor(report.AverageQuality),
			Fields: []discordField{
				{Name: "PRs Analyzed", Value: fmt.Sprintf("%d", report.TotalPRs), Inline: true},
				{Name: "Avg Quality", Value: fmt.Sprintf("%d/100", report.AverageQuality), Inline: true},
				{Name: "High Quality (80+)", Value: fmt.Sprintf("%d", report.HighQuality), Inline: true},
				{Name: "Low Quality (<60)", Value: fmt.Sprintf("%d", report.LowQuality), Inline: true},
			},
			Footer:    discordFooter{Text: "DevPulse - AI Team Health Monitor"},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(message).
		Post(n.webhookURL)
	if err != nil {
		return errs.Wrap(err, "post discord report")
	}
	if resp.IsError() {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode())
	}

	logging.Info(logCtx, "daily report sent", slog.String("date", report.Date))
	return nil
}

func embedColor(averageQuality int) int {
	switch {
	case averageQuality >= 80:
		return colorGreen
	case averageQuality >= 60:
		return colorYellow
	default:
		return colorRed
	}
}
