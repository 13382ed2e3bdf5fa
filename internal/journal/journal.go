// Package journal provides an optional sqlite-backed audit log of
// scheduler decisions. The conversation itself is never persisted here,
// only what the scheduler decided and when.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Decision kinds recorded by the orchestrator.
const (
	DecisionSummaryCreated    = "summary_created"
	DecisionSummaryFallback   = "summary_fallback"
	DecisionConsolidation     = "consolidation"
	DecisionReminderCreated   = "reminder_created"
	DecisionReminderTriggered = "reminder_triggered"
	DecisionUpgradeRequired   = "upgrade_required"
)

// DecisionRecord is one audit row.
type DecisionRecord struct {
	ID             int64     `json:"id"`
	DecisionID     string    `json:"decision_id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Kind           string    `json:"kind"`
	MessageIndex   int       `json:"message_index"`
	Detail         string    `json:"detail,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS scheduler_decisions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	decision_id TEXT UNIQUE NOT NULL,
	conversation_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	message_index INTEGER NOT NULL,
	detail TEXT DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_decisions_conversation ON scheduler_decisions(conversation_id);
CREATE INDEX IF NOT EXISTS idx_decisions_kind ON scheduler_decisions(kind);
`

// Journal records scheduler decisions. A nil *Journal is valid and all
// methods are no-ops, so wiring it stays optional.
type Journal struct {
	db *sql.DB
}

// Open creates or opens a journal database at dbPath.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends one decision row. Best-effort for callers: errors are
// returned but the orchestrator only logs them.
func (j *Journal) Record(conversationID, userID, kind string, messageIndex int, detail string) error {
	if j == nil || j.db == nil {
		return nil
	}
	_, err := j.db.Exec(
		`INSERT INTO scheduler_decisions (decision_id, conversation_id, user_id, kind, message_index, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), conversationID, userID, kind, messageIndex, detail, time.Now(),
	)
	return err
}

// List returns the most recent decisions for a conversation, newest first.
func (j *Journal) List(conversationID string, limit int) ([]DecisionRecord, error) {
	if j == nil || j.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.Query(
		`SELECT id, decision_id, conversation_id, user_id, kind, message_index, detail, created_at
		 FROM scheduler_decisions WHERE conversation_id = ?
		 ORDER BY id DESC LIMIT ?`,
		conversationID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		var r DecisionRecord
		if err := rows.Scan(&r.ID, &r.DecisionID, &r.ConversationID, &r.UserID, &r.Kind, &r.MessageIndex, &r.Detail, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountByKind returns decision counts per kind for a conversation.
func (j *Journal) CountByKind(conversationID string) (map[string]int, error) {
	if j == nil || j.db == nil {
		return nil, nil
	}
	rows, err := j.db.Query(
		`SELECT kind, COUNT(*) FROM scheduler_decisions WHERE conversation_id = ? GROUP BY kind`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
