package summarize

import (
	"strings"
	"testing"
	"time"

	"github.com/ConvoClaw/ConvoClaw/internal/convo"
)

func sampleMessages() []convo.Message {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return []convo.Message{
		{Role: "user", Content: "I hit an error deploying the new API", Timestamp: base},
		{Role: "assistant", Content: "Let's look at the build logs together", Timestamp: base.Add(time.Minute)},
		{Role: "user", Content: "The project deadline is next week", Timestamp: base.Add(2 * time.Minute)},
	}
}

func TestSummarizeIsDeterministic(t *testing.T) {
	msgs := sampleMessages()
	for _, f := range []Format{FormatParagraph, FormatBullet, FormatSentences} {
		a := Summarize(msgs, f)
		b := Summarize(msgs, f)
		if a != b {
			t.Fatalf("format %s not deterministic:\n%s\nvs\n%s", f, a, b)
		}
	}
}

func TestSummarizeTopicExtraction(t *testing.T) {
	out := Summarize(sampleMessages(), FormatSentences)
	if !strings.Contains(out, "development") {
		t.Fatalf("expected development topic, got: %s", out)
	}
	if !strings.Contains(out, "problem-solving") {
		t.Fatalf("expected problem-solving topic, got: %s", out)
	}
	if !strings.Contains(out, "project planning") {
		t.Fatalf("expected project planning topic, got: %s", out)
	}
}

func TestSummarizeTopicsDedupedInRuleOrder(t *testing.T) {
	msgs := []convo.Message{
		{Role: "user", Content: "fix the bug, then fix another bug, then plan the project"},
	}
	out := Summarize(msgs, FormatSentences)
	// project planning is rule #1, development #2, problem-solving #5.
	want := "The conversation covered project planning, development, problem-solving."
	if out != want {
		t.Fatalf("unexpected sentence output:\n got: %s\nwant: %s", out, want)
	}
}

func TestSummarizeBulletFormat(t *testing.T) {
	out := Summarize(sampleMessages(), FormatBullet)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 bullet lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "2 user, 1 assistant") {
		t.Fatalf("unexpected turn count line: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "- Topics: ") {
		t.Fatalf("unexpected topics line: %s", lines[1])
	}
	if !strings.Contains(lines[2], "2026-03-14 09:02") {
		t.Fatalf("unexpected last-activity line: %s", lines[2])
	}
}

func TestSummarizeNoTopicsFallsBackToGeneric(t *testing.T) {
	msgs := []convo.Message{{Role: "user", Content: "hello there"}}
	if out := Summarize(msgs, FormatSentences); !strings.Contains(out, "without a dominant topic") {
		t.Fatalf("expected generic sentence, got: %s", out)
	}
	if out := Summarize(msgs, FormatParagraph); !strings.Contains(out, "general conversation") {
		t.Fatalf("expected generic paragraph, got: %s", out)
	}
}

func TestSummarizeParagraphCountsTurns(t *testing.T) {
	out := Summarize(sampleMessages(), FormatParagraph)
	if !strings.Contains(out, "3 turns") {
		t.Fatalf("expected total turn count, got: %s", out)
	}
}

func TestSummarizeUnknownFormatPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown format")
		}
	}()
	Summarize(sampleMessages(), Format("haiku"))
}
