// Package remote provides the client for the remote summarization and
// reminder endpoint. Every call is a single bounded attempt; retry and
// backoff, if wanted, belong to the caller. Callers fall back to the
// local summarizer on any error.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ConvoClaw/ConvoClaw/internal/convo"
	"github.com/ConvoClaw/ConvoClaw/internal/summarize"
)

// ErrorKind classifies a failed remote call.
type ErrorKind string

const (
	KindTransport      ErrorKind = "transport"
	KindPolicyRejected ErrorKind = "policy_rejected"
	KindNotFound       ErrorKind = "not_found"
)

// Error is a classified remote failure.
type Error struct {
	Kind   ErrorKind
	Status int // HTTP status, 0 for transport-level failures
	Msg    string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s (status %d): %s", e.Kind, e.Status, e.Msg)
	}
	return fmt.Sprintf("remote %s: %s", e.Kind, e.Msg)
}

// Config configures the remote client.
type Config struct {
	URL     string        `json:"url" envconfig:"URL"`
	Token   string        `json:"token" envconfig:"TOKEN"` // bearer credential
	Timeout time.Duration `json:"timeout"`
}

// Client calls the remote timeline endpoint.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a remote client. Returns nil if no URL is configured;
// callers treat a nil client as "remote path unavailable".
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		return nil
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// SummaryRecord is the wire shape of a summary from the remote endpoint.
type SummaryRecord struct {
	ID             string    `json:"id"`
	StartIndex     int       `json:"startIndex"`
	EndIndex       int       `json:"endIndex"`
	Summary        string    `json:"summary"`
	CreatedAt      time.Time `json:"createdAt"`
	IsConsolidated bool      `json:"isConsolidated"`
}

// ReminderRecord is the wire shape of a reminder from the remote endpoint.
type ReminderRecord struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	TriggerIndex int       `json:"triggerIndex"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TimelineRecord is the stored timeline returned by the fetch endpoint,
// used to re-hydrate LastSummaryIndex on load.
type TimelineRecord struct {
	ConversationID   string          `json:"conversationId"`
	UserID           string          `json:"userId"`
	LastSummaryIndex int             `json:"lastSummaryIndex"`
	Summaries        []SummaryRecord `json:"summaries"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type summaryRequest struct {
	UserID         string        `json:"userId"`
	ConversationID string        `json:"conversationId"`
	Messages       []wireMessage `json:"messages"`
	StartIndex     int           `json:"startIndex"`
	EndIndex       int           `json:"endIndex"`
	SummaryType    string        `json:"summaryType"`
}

type summaryResponse struct {
	Success bool           `json:"success"`
	Summary *SummaryRecord `json:"summary,omitempty"`
}

type reminderSetRequest struct {
	UserID           string `json:"userId"`
	ConversationID   string `json:"conversationId"`
	ReminderType     string `json:"reminderType"`
	Content          string `json:"content,omitempty"`
	TriggerCondition struct {
		MessageCount int `json:"messageCount"`
	} `json:"triggerCondition"`
}

type reminderSetResponse struct {
	Success  bool            `json:"success"`
	Reminder *ReminderRecord `json:"reminder,omitempty"`
}

type reminderCheckRequest struct {
	UserID              string `json:"userId"`
	ConversationID      string `json:"conversationId"`
	CurrentMessageIndex int    `json:"currentMessageIndex"`
}

type reminderCheckResponse struct {
	Success       bool             `json:"success"`
	ShouldTrigger bool             `json:"shouldTrigger"`
	Reminders     []ReminderRecord `json:"reminders"`
}

// summaryType maps the internal format to the endpoint's summaryType enum.
func summaryType(f summarize.Format) string {
	switch f {
	case summarize.FormatBullet:
		return "bullet"
	case summarize.FormatParagraph:
		return "paragraph"
	default:
		return "auto"
	}
}

// GenerateSummary requests a remote summary for the inclusive message
// range [startIndex, endIndex].
func (c *Client) GenerateSummary(ctx context.Context, userID, conversationID string, msgs []convo.Message, startIndex, endIndex int, format summarize.Format) (*SummaryRecord, error) {
	req := summaryRequest{
		UserID:         userID,
		ConversationID: conversationID,
		Messages:       toWire(msgs),
		StartIndex:     startIndex,
		EndIndex:       endIndex,
		SummaryType:    summaryType(format),
	}
	var resp summaryResponse
	if err := c.post(ctx, "/timeline/summary/generate", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Summary == nil {
		return nil, &Error{Kind: KindTransport, Msg: "summary generate returned no summary"}
	}
	return resp.Summary, nil
}

// SetReminder registers a reminder triggering every messageCount turns.
func (c *Client) SetReminder(ctx context.Context, userID, conversationID, content string, messageCount int) (*ReminderRecord, error) {
	req := reminderSetRequest{
		UserID:         userID,
		ConversationID: conversationID,
		ReminderType:   "progress",
		Content:        content,
	}
	req.TriggerCondition.MessageCount = messageCount
	var resp reminderSetResponse
	if err := c.post(ctx, "/timeline/reminder/set", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Reminder == nil {
		return nil, &Error{Kind: KindTransport, Msg: "reminder set returned no reminder"}
	}
	return resp.Reminder, nil
}

// CheckReminder asks the endpoint whether a reminder should trigger at the
// given message index.
func (c *Client) CheckReminder(ctx context.Context, userID, conversationID string, currentIndex int) (bool, error) {
	req := reminderCheckRequest{
		UserID:              userID,
		ConversationID:      conversationID,
		CurrentMessageIndex: currentIndex,
	}
	var resp reminderCheckResponse
	if err := c.post(ctx, "/timeline/reminder/check", req, &resp); err != nil {
		return false, err
	}
	if !resp.Success {
		return false, &Error{Kind: KindTransport, Msg: "reminder check unsuccessful"}
	}
	return resp.ShouldTrigger, nil
}

// FetchTimeline retrieves the stored timeline for re-hydration.
func (c *Client) FetchTimeline(ctx context.Context, userID, conversationID string) (*TimelineRecord, error) {
	url := fmt.Sprintf("%s/timeline/%s/%s", c.config.URL, userID, conversationID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Msg: err.Error()}
	}
	c.setHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Msg: err.Error()}
	}
	defer httpResp.Body.Close()

	if err := classifyStatus(httpResp.StatusCode); err != nil {
		return nil, err
	}
	var record TimelineRecord
	if err := json.NewDecoder(httpResp.Body).Decode(&record); err != nil {
		return nil, &Error{Kind: KindTransport, Msg: fmt.Sprintf("decode timeline: %v", err)}
	}
	return &record, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Kind: KindTransport, Msg: fmt.Sprintf("encode request: %v", err)}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL+path, bytes.NewReader(payload))
	if err != nil {
		return &Error{Kind: KindTransport, Msg: err.Error()}
	}
	c.setHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &Error{Kind: KindTransport, Msg: err.Error()}
	}
	defer httpResp.Body.Close()

	if err := classifyStatus(httpResp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return &Error{Kind: KindTransport, Msg: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
}

func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Msg: "not found"}
	case status == http.StatusForbidden || status == http.StatusPaymentRequired:
		return &Error{Kind: KindPolicyRejected, Status: status, Msg: "rejected by policy"}
	default:
		return &Error{Kind: KindTransport, Status: status, Msg: "unexpected status"}
	}
}

func toWire(msgs []convo.Message) []wireMessage {
	out := make([]wireMessage, len(msgs))
	for i, m := range msgs {
		out[i] = wireMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
