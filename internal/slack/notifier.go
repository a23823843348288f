// Package slack posts SLA report notifications to an ops channel. The
// integration is optional: without a bot token the notifier is inert and
// every call is a no-op.
package slack

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"github.com/fiberwatch/fiberwatch/internal/database"
)

// Notifier posts report-completion messages to a configured channel.
type Notifier struct {
	client   *slack.Client
	resolver *ChannelResolver
	channel  string
}

// NewNotifier creates a notifier for the given bot token and channel
// (name or ID). Returns nil when the token or channel is empty, which
// callers treat as "notifications disabled".
func NewNotifier(botToken, channel string) *Notifier {
	if botToken == "" || channel == "" {
		return nil
	}
	client := slack.New(botToken)
	return &Notifier{
		client:   client,
		resolver: NewChannelResolver(client),
		channel:  channel,
	}
}

// ReportGenerated posts a summary of a freshly computed report. A nil
// receiver is a no-op so callers do not need to guard the disabled case.
func (n *Notifier) ReportGenerated(report *database.SLAReport) {
	if n == nil {
		return
	}

	channelID, err := n.resolver.ResolveChannel(n.channel)
	if err != nil {
		log.Printf("Slack: could not resolve channel %q: %v", n.channel, err)
		return
	}

	_, _, err = n.client.PostMessage(channelID,
		slack.MsgOptionText(formatReportMessage(report), false),
	)
	if err != nil {
		log.Printf("Slack: failed to post report notification: %v", err)
		return
	}
	log.Printf("Slack: posted report %s summary to %s", report.UUID, n.channel)
}

// formatReportMessage renders the summary line posted to the channel.
func formatReportMessage(r *database.SLAReport) string {
	msg := fmt.Sprintf(
		"SLA report *%s* ready: %d services, %.4f h downtime, %.4f%% availability (MTTR %.4f h, MTBF %.4f h)",
		r.PeriodLabel, r.ServiceCount, r.DowntimeTotalHours, r.AvailabilityPct, r.MTTRHours, r.MTBFHours,
	)
	if r.RejectedCount > 0 {
		msg += fmt.Sprintf(" (%d rows rejected)", r.RejectedCount)
	}
	return msg
}
