// Package audit persists a trail of authentication attempts and interface
// mutations to a local sqlite database.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"grimm.is/ifctl/internal/logging"
)

// Action identifies what an event records.
type Action string

const (
	ActionLogin        Action = "login"
	ActionLoginFailed  Action = "login_failed"
	ActionLogout       Action = "logout"
	ActionSetLinkState Action = "set_link_state"
	ActionSetMode      Action = "set_mode"
)

// Event is a single audit entry. Interface is empty for auth events.
type Event struct {
	ID        int64          `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Action    Action         `json:"action"`
	Interface string         `json:"interface,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Success   bool           `json:"success"`
	RemoteIP  string         `json:"remote_ip,omitempty"`
}

// Store provides persistent storage for audit events.
type Store struct {
	mu            sync.RWMutex
	db            *sql.DB
	retentionDays int
	log           *logging.Logger
}

// NewStore opens (creating if necessary) the audit database at the given
// path. Events older than retentionDays are eligible for pruning.
func NewStore(dbPath string, retentionDays int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			action TEXT NOT NULL,
			interface TEXT,
			details TEXT,
			success INTEGER NOT NULL DEFAULT 0,
			remote_ip TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp);
		CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_events(action);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit table: %w", err)
	}

	if retentionDays <= 0 {
		retentionDays = 90
	}

	return &Store{
		db:            db,
		retentionDays: retentionDays,
		log:           logging.WithComponent("audit"),
	}, nil
}

// Write persists an audit event. A zero timestamp is filled in with now.
func (s *Store) Write(evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	var detailsJSON []byte
	if evt.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(evt.Details)
		if err != nil {
			detailsJSON = []byte("{}")
		}
	}

	_, err := s.db.Exec(`
		INSERT INTO audit_events (timestamp, action, interface, details, success, remote_ip)
		VALUES (?, ?, ?, ?, ?, ?)
	`, evt.Timestamp, string(evt.Action), evt.Interface, string(detailsJSON), evt.Success, evt.RemoteIP)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Query returns events in [start, end], newest first, optionally filtered
// by action, capped at limit when positive.
func (s *Store) Query(start, end time.Time, action Action, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, action, interface, details, success, remote_ip
		FROM audit_events WHERE timestamp >= ? AND timestamp <= ?`
	args := []any{start, end}

	if action != "" {
		query += " AND action = ?"
		args = append(args, string(action))
	}

	query += " ORDER BY timestamp DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			evt         Event
			action      string
			iface       sql.NullString
			detailsJSON sql.NullString
			remoteIP    sql.NullString
		)
		err := rows.Scan(&evt.ID, &evt.Timestamp, &action, &iface, &detailsJSON,
			&evt.Success, &remoteIP)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		evt.Action = Action(action)
		if iface.Valid {
			evt.Interface = iface.String
		}
		if remoteIP.Valid {
			evt.RemoteIP = remoteIP.String
		}
		if detailsJSON.Valid && detailsJSON.String != "" {
			json.Unmarshal([]byte(detailsJSON.String), &evt.Details)
		}

		events = append(events, evt)
	}
	return events, rows.Err()
}

// Prune removes events older than the retention period and returns the
// number removed.
func (s *Store) Prune() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	result, err := s.db.Exec("DELETE FROM audit_events WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune audit events: %w", err)
	}
	return result.RowsAffected()
}

// StartPruner prunes on the given interval until stop is closed.
func (s *Store) StartPruner(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := s.Prune()
				if err != nil {
					s.log.Warn("audit prune failed", "error", err)
				} else if n > 0 {
					s.log.Debug("pruned audit events", "removed", n)
				}
			case <-stop:
				return
			}
		}
	}()
}

// Count returns the total number of events in the store.
func (s *Store) Count() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM audit_events").Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
