package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ConvoClaw/ConvoClaw/internal/convo"
	"github.com/ConvoClaw/ConvoClaw/internal/summarize"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{URL: srv.URL, Token: "secret-token"})
	if c == nil {
		t.Fatal("expected non-nil client")
	}
	return c
}

func TestNewClientRequiresURL(t *testing.T) {
	if NewClient(Config{}) != nil {
		t.Fatal("client without URL should be nil (remote path unavailable)")
	}
}

func TestGenerateSummarySuccess(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq summaryRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(summaryResponse{
			Success: true,
			Summary: &SummaryRecord{ID: "s1", StartIndex: 0, EndIndex: 11, Summary: "twelve turns"},
		})
	})

	msgs := []convo.Message{{Role: "user", Content: "hello"}}
	rec, err := c.GenerateSummary(context.Background(), "u1", "c1", msgs, 0, 11, summarize.FormatBullet)
	if err != nil {
		t.Fatalf("generate summary: %v", err)
	}
	if rec.ID != "s1" || rec.Summary != "twelve turns" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("missing bearer header, got %q", gotAuth)
	}
	if gotPath != "/timeline/summary/generate" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotReq.SummaryType != "bullet" {
		t.Fatalf("summaryType = %q, want bullet", gotReq.SummaryType)
	}
	if gotReq.UserID != "u1" || gotReq.ConversationID != "c1" {
		t.Fatalf("identifiers not forwarded: %+v", gotReq)
	}
}

func TestGenerateSummaryUnsuccessfulResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(summaryResponse{Success: false})
	})
	_, err := c.GenerateSummary(context.Background(), "u1", "c1", nil, 0, 1, summarize.FormatParagraph)
	assertKind(t, err, KindTransport)
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusNotFound, KindNotFound},
		{http.StatusForbidden, KindPolicyRejected},
		{http.StatusPaymentRequired, KindPolicyRejected},
		{http.StatusInternalServerError, KindTransport},
		{http.StatusBadGateway, KindTransport},
	}
	for _, cse := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(cse.status)
		})
		_, err := c.GenerateSummary(context.Background(), "u1", "c1", nil, 0, 1, summarize.FormatParagraph)
		assertKind(t, err, cse.kind)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // connection refused from here on

	c := NewClient(Config{URL: url})
	_, err := c.GenerateSummary(context.Background(), "u1", "c1", nil, 0, 1, summarize.FormatParagraph)
	assertKind(t, err, KindTransport)
}

func TestSetReminder(t *testing.T) {
	var gotReq reminderSetRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/timeline/reminder/set" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(reminderSetResponse{
			Success:  true,
			Reminder: &ReminderRecord{ID: "r1", Content: gotReq.Content, IsActive: true},
		})
	})

	rec, err := c.SetReminder(context.Background(), "u1", "c1", "keep going", 10)
	if err != nil {
		t.Fatalf("set reminder: %v", err)
	}
	if rec.ID != "r1" || !rec.IsActive {
		t.Fatalf("unexpected reminder: %+v", rec)
	}
	if gotReq.TriggerCondition.MessageCount != 10 {
		t.Fatalf("messageCount = %d, want 10", gotReq.TriggerCondition.MessageCount)
	}
}

func TestCheckReminder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req reminderCheckRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(reminderCheckResponse{
			Success:       true,
			ShouldTrigger: req.CurrentMessageIndex >= 20,
		})
	})

	due, err := c.CheckReminder(context.Background(), "u1", "c1", 25)
	if err != nil {
		t.Fatalf("check reminder: %v", err)
	}
	if !due {
		t.Fatal("expected shouldTrigger=true at index 25")
	}

	due, err = c.CheckReminder(context.Background(), "u1", "c1", 5)
	if err != nil {
		t.Fatalf("check reminder: %v", err)
	}
	if due {
		t.Fatal("expected shouldTrigger=false at index 5")
	}
}

func TestFetchTimeline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/timeline/u1/c1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(TimelineRecord{
			ConversationID:   "c1",
			UserID:           "u1",
			LastSummaryIndex: 23,
			Summaries:        []SummaryRecord{{ID: "s1", StartIndex: 0, EndIndex: 23}},
		})
	})

	rec, err := c.FetchTimeline(context.Background(), "u1", "c1")
	if err != nil {
		t.Fatalf("fetch timeline: %v", err)
	}
	if rec.LastSummaryIndex != 23 || len(rec.Summaries) != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	_, err = c.FetchTimeline(context.Background(), "u2", "c2")
	assertKind(t, err, KindNotFound)
}

func assertKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var re *Error
	if !errors.As(err, &re) {
		t.Fatalf("error is not a *remote.Error: %v", err)
	}
	if re.Kind != want {
		t.Fatalf("error kind = %s, want %s", re.Kind, want)
	}
}
