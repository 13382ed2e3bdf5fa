// Package summarize provides the deterministic local summarizer used when
// the remote summarization endpoint is unreachable. It is heuristic by
// design: topic tags by keyword presence plus turn counts, never a
// language-model-quality summary.
package summarize

import (
	"fmt"
	"strings"
	"time"

	"github.com/ConvoClaw/ConvoClaw/internal/convo"
)

// Format selects the rendering of a summary.
type Format string

const (
	FormatParagraph Format = "paragraph"
	FormatBullet    Format = "bullet"
	FormatSentences Format = "sentences"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatParagraph, FormatBullet, FormatSentences:
		return true
	}
	return false
}

// topicRule maps keyword substrings to a topic tag. Matching is
// case-insensitive substring presence.
type topicRule struct {
	topic    string
	keywords []string
}

// Closed keyword table. Order matters: topics are emitted in first-match
// order, deduplicated.
var topicRules = []topicRule{
	{"project planning", []string{"project", "milestone", "deadline", "roadmap"}},
	{"development", []string{"code", "build", "deploy", "bug", "function", "api"}},
	{"design", []string{"design", "layout", "interface", "mockup", "style"}},
	{"learning", []string{"learn", "explain", "understand", "tutorial", "how does"}},
	{"problem-solving", []string{"error", "issue", "problem", "fix", "troubleshoot"}},
}

// Summarize renders a deterministic summary of msgs in the given format.
// It performs no I/O and never fails; identical input yields identical
// output. Panics only on an unknown format, which is a caller bug.
func Summarize(msgs []convo.Message, format Format) string {
	userTurns, assistantTurns := 0, 0
	var lastAt time.Time
	var corpus strings.Builder
	for _, m := range msgs {
		switch m.Role {
		case "assistant":
			assistantTurns++
		default:
			userTurns++
		}
		if m.Timestamp.After(lastAt) {
			lastAt = m.Timestamp
		}
		corpus.WriteString(strings.ToLower(m.Content))
		corpus.WriteByte('\n')
	}
	topics := extractTopics(corpus.String())

	switch format {
	case FormatBullet:
		return renderBullet(userTurns, assistantTurns, topics, lastAt)
	case FormatSentences:
		return renderSentences(topics)
	case FormatParagraph:
		return renderParagraph(userTurns, assistantTurns, topics)
	}
	panic(fmt.Sprintf("summarize: unknown format %q", string(format)))
}

// extractTopics returns matched topic tags in rule order, deduplicated.
func extractTopics(corpus string) []string {
	var topics []string
	seen := map[string]bool{}
	for _, rule := range topicRules {
		if seen[rule.topic] {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(corpus, kw) {
				topics = append(topics, rule.topic)
				seen[rule.topic] = true
				break
			}
		}
	}
	return topics
}

func renderBullet(userTurns, assistantTurns int, topics []string, lastAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Turns: %d user, %d assistant\n", userTurns, assistantTurns)
	if len(topics) > 0 {
		fmt.Fprintf(&b, "- Topics: %s\n", strings.Join(topics, ", "))
	} else {
		b.WriteString("- Topics: general conversation\n")
	}
	if !lastAt.IsZero() {
		fmt.Fprintf(&b, "- Last activity: %s", lastAt.UTC().Format("2006-01-02 15:04"))
	} else {
		b.WriteString("- Last activity: unknown")
	}
	return b.String()
}

func renderSentences(topics []string) string {
	if len(topics) == 0 {
		return "The conversation continued without a dominant topic."
	}
	return fmt.Sprintf("The conversation covered %s.", strings.Join(topics, ", "))
}

func renderParagraph(userTurns, assistantTurns int, topics []string) string {
	total := userTurns + assistantTurns
	if len(topics) == 0 {
		return fmt.Sprintf("This segment spans %d turns (%d from the user, %d from the assistant) of general conversation.", total, userTurns, assistantTurns)
	}
	return fmt.Sprintf("This segment spans %d turns (%d from the user, %d from the assistant), touching on %s.", total, userTurns, assistantTurns, strings.Join(topics, ", "))
}
