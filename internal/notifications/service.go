package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/leapscholar/perception-monitor/internal/config"
	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service sends snapshot digests via the configured channels
type Service struct {
	config *config.Config
	client *resty.Client
	dialer *gomail.Dialer
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message card
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	ActivityText  string      `json:"activityText,omitempty"`
	Facts         []TeamsFact `json:"facts,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	s := &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
	if cfg.NotificationEmail != "" {
		s.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return s
}

// SendDigest delivers a ready snapshot to every configured channel. Channel failures are
// collected and returned together.
func (s *Service) SendDigest(ctx context.Context, snapshot *models.Snapshot) error {
	if !snapshot.Ready() {
		return fmt.Errorf("cannot send digest for snapshot in state %s", snapshot.State)
	}

	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(ctx, snapshot); err != nil {
			logrus.Errorf("Failed to send Teams digest: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Sent digest to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(snapshot); err != nil {
			logrus.Errorf("Failed to send email digest: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Sent digest via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(ctx context.Context, snapshot *models.Snapshot) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(buildTeamsMessage(snapshot)).
		Post(s.config.TeamsWebhookURL)
	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

func buildTeamsMessage(snapshot *models.Snapshot) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Perception Digest - last %d days", snapshot.Days),
		Text:    fmt.Sprintf("%d mentions, average compound %.2f", snapshot.Summary.Total, snapshot.Summary.AverageCompound),
	}

	facts := []TeamsFact{
		{Name: "Total Mentions", Value: fmt.Sprintf("%d", snapshot.Summary.Total)},
		{Name: "Generated", Value: snapshot.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
	}
	for _, c := range snapshot.Summary.Categories {
		facts = append(facts, TeamsFact{Name: categoryLabel(c.Sentiment), Value: categoryValue(c)})
	}
	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Sentiment",
		Facts:         facts,
		Markdown:      true,
	})

	if len(snapshot.Platforms) > 0 {
		var platformFacts []TeamsFact
		for _, p := range snapshot.Platforms {
			platformFacts = append(platformFacts, TeamsFact{
				Name:  p.Name,
				Value: fmt.Sprintf("%d (%.1f%%)", p.Value, p.Percentage),
			})
		}
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Platforms",
			Facts:         platformFacts,
		})
	}

	if mentions := mentionLines(snapshot, true); len(mentions) > 0 {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Top Mentions",
			ActivityText:  strings.Join(mentions, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) sendEmail(snapshot *models.Snapshot) error {
	htmlBody, err := buildEmailHTML(snapshot)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", fmt.Sprintf("Perception Digest - %d mentions in the last %d days", snapshot.Summary.Total, snapshot.Days))
	m.SetBody("text/plain", BuildText(snapshot))
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Perception Digest</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #673ab7; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .mention { border-left: 4px solid #9e9e9e; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .positive { border-left-color: #2e7d32; }
        .negative { border-left-color: #f44336; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Perception Digest</h1>
        <p>Last {{.Days}} days, generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="summary">
        <h2>Sentiment</h2>
        <p><strong>Total Mentions:</strong> {{.Summary.Total}} (average compound {{printf "%.2f" .Summary.AverageCompound}})</p>
        {{range .Summary.Categories}}
            <p><strong>{{label .Sentiment}}:</strong> {{value .}}</p>
        {{end}}
    </div>

    {{if .Platforms}}
    <h2>Platforms</h2>
    <ul>
    {{range .Platforms}}
        <li><span style="color: {{.Color}}">&#9679;</span> {{.Name}}: {{.Value}} ({{printf "%.1f" .Percentage}}%)</li>
    {{end}}
    </ul>
    {{end}}

    <h2>Top Mentions</h2>
    {{range .TopMentions}}
        {{if not .Placeholder}}
        <div class="mention {{.Sentiment}}">
            <div>{{if .Link}}<a href="{{.Link}}" target="_blank">{{truncate .Mention.Text 200}}</a>{{else}}{{truncate .Mention.Text 200}}{{end}}</div>
            <small>{{.Label}} | {{label .Sentiment}} ({{.Score}}%)</small>
        </div>
        {{end}}
    {{end}}

    <hr>
    <p><small>This digest was generated automatically by the Perception Monitor.</small></p>
</body>
</html>
`

var emailTmpl = template.Must(template.New("email").Funcs(template.FuncMap{
	"label":    categoryLabel,
	"value":    categoryValue,
	"truncate": truncate,
}).Parse(emailTemplate))

func buildEmailHTML(snapshot *models.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, snapshot); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildText renders a plain-text digest of a ready snapshot
func BuildText(snapshot *models.Snapshot) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Perception Digest - last %d days\n", snapshot.Days))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", snapshot.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SENTIMENT\n")
	text.WriteString("=========\n")
	text.WriteString(fmt.Sprintf("Total Mentions: %d\n", snapshot.Summary.Total))
	text.WriteString(fmt.Sprintf("Average Compound: %.2f (meter %.0f/100)\n", snapshot.Summary.AverageCompound, snapshot.Summary.Meter))
	for _, c := range snapshot.Summary.Categories {
		text.WriteString(fmt.Sprintf("%s: %s\n", categoryLabel(c.Sentiment), categoryValue(c)))
	}

	if len(snapshot.Platforms) > 0 {
		text.WriteString("\nPLATFORMS\n")
		text.WriteString("=========\n")
		for _, p := range snapshot.Platforms {
			text.WriteString(fmt.Sprintf("%-12s %5d  %5.1f%%\n", p.Name, p.Value, p.Percentage))
		}
	}

	if mentions := mentionLines(snapshot, false); len(mentions) > 0 {
		text.WriteString("\nTOP MENTIONS\n")
		text.WriteString("============\n")
		for i, line := range mentions {
			text.WriteString(fmt.Sprintf("%d. %s\n", i+1, line))
		}
	}

	text.WriteString("\n---\nThis digest was generated automatically by the Perception Monitor.\n")

	return text.String()
}

func mentionLines(snapshot *models.Snapshot, markdown bool) []string {
	var lines []string
	for _, card := range snapshot.TopMentions {
		if card.Placeholder || card.Mention == nil {
			continue
		}

		body := truncate(card.Mention.Text, 200)
		meta := fmt.Sprintf("%s, %s %d%%", card.Label, card.Sentiment, card.Score)
		switch {
		case markdown && card.Link != "":
			lines = append(lines, fmt.Sprintf("**[%s](%s)** - %s", body, card.Link, meta))
		case card.Link != "":
			lines = append(lines, fmt.Sprintf("%s (%s)\n   %s", body, meta, card.Link))
		default:
			lines = append(lines, fmt.Sprintf("%s (%s)", body, meta))
		}
	}
	return lines
}

func categoryLabel(s models.Sentiment) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func categoryValue(c models.CategoryStat) string {
	return fmt.Sprintf("%d (%.1f%%, %+d%% vs previous period)", c.Count, c.Percentage, c.Change)
}

func truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length]) + "..."
}
