// Package bot runs the Telegram bot that lets NOC operators query stored
// SLA reports from chat. It is read-only: every command resolves to a
// lookup against already-computed reports.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"github.com/fiberwatch/fiberwatch/internal/services"
	"github.com/fiberwatch/fiberwatch/internal/sla"
)

const helpText = `Commands:
/sla <YYYY-MM> - fleet summary for a month
/disponibilidad <service-id> <YYYY-MM> - availability for one service
/help - this message`

// Bot wraps the Telegram API client and the report lookups it serves.
type Bot struct {
	api     *tgbotapi.BotAPI
	reports *services.ReportService
}

// New creates a bot for the given token.
func New(token string, reports *services.ReportService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	return &Bot{api: api, reports: reports}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	log.Printf("Telegram bot started as @%s", b.api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Printf("Telegram bot stopped")
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.reply(update.Message.Chat.ID, b.handleCommand(update.Message))
		}
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Telegram: failed to send reply: %v", err)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) string {
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "sla":
		if len(args) != 1 {
			return "Usage: /sla <YYYY-MM>"
		}
		return b.periodSummary(args[0])
	case "disponibilidad":
		if len(args) != 2 {
			return "Usage: /disponibilidad <service-id> <YYYY-MM>"
		}
		return b.serviceAvailability(args[0], args[1])
	case "start", "help":
		return helpText
	default:
		return "Unknown command. Send /help for the command list."
	}
}

// periodSummary answers /sla with the fleet summary of the latest report
// for the month.
func (b *Bot) periodSummary(period string) string {
	month, year, ok := parsePeriod(period)
	if !ok {
		return fmt.Sprintf("Invalid period %q, expected YYYY-MM.", period)
	}

	report, err := b.reports.GetLatestForPeriod(month, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Sprintf("No report found for %s.", period)
		}
		log.Printf("Telegram: report lookup failed: %v", err)
		return "Report lookup failed, try again later."
	}

	return formatSummary(report.PeriodLabel, report.ServiceCount, report.IncidentCount,
		report.DowntimeTotalHours, report.AvailabilityPct, report.MTTRHours, report.MTBFHours)
}

// serviceAvailability answers /disponibilidad for a single service ID.
func (b *Bot) serviceAvailability(serviceID, period string) string {
	month, year, ok := parsePeriod(period)
	if !ok {
		return fmt.Sprintf("Invalid period %q, expected YYYY-MM.", period)
	}

	report, err := b.reports.GetLatestForPeriod(month, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Sprintf("No report found for %s.", period)
		}
		log.Printf("Telegram: report lookup failed: %v", err)
		return "Report lookup failed, try again later."
	}

	computation, err := b.reports.Computation(report)
	if err != nil {
		log.Printf("Telegram: failed to decode report %s: %v", report.UUID, err)
		return "Report lookup failed, try again later."
	}

	for i := range computation.Services {
		svc := &computation.Services[i]
		if strings.EqualFold(svc.ServiceID, serviceID) {
			return formatServiceLine(svc, report.PeriodLabel)
		}
	}
	return fmt.Sprintf("Service %s has no downtime recorded in %s.", serviceID, report.PeriodLabel)
}

// parsePeriod parses the YYYY-MM argument used by all report commands.
func parsePeriod(s string) (month, year int, ok bool) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, false
	}
	return int(t.Month()), t.Year(), true
}

func formatSummary(label string, serviceCount, incidentCount int, downtime, availability, mttr, mtbf float64) string {
	return fmt.Sprintf(
		"SLA %s\nServices affected: %d\nIncidents: %d\nDowntime: %s (%.4f h)\nAvailability: %.4f%%\nMTTR: %.4f h\nMTBF: %.4f h",
		label, serviceCount, incidentCount,
		sla.FormatHoursMinutes(downtime), downtime, availability, mttr, mtbf,
	)
}

func formatServiceLine(svc *sla.ServiceMetrics, label string) string {
	return fmt.Sprintf(
		"%s (%s) in %s\nClient: %s\nDowntime: %s (%.4f h)\nAvailability: %.4f%%\nIncidents: %d",
		svc.ServiceID, svc.ServiceType, label, svc.Client,
		sla.FormatHoursMinutes(svc.DowntimeHours), svc.DowntimeHours,
		svc.AvailabilityPct, svc.MergedIncidentCount,
	)
}
