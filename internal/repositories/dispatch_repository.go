package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"propertyagent/internal/models"
	"propertyagent/internal/utils"
)

// SQLDispatchRepository journals WhatsApp dispatches in sqlite or mysql.
type SQLDispatchRepository struct {
	db     *sql.DB
	driver string
}

func NewSQLDispatchRepository(db *sql.DB, driver string) *SQLDispatchRepository {
	return &SQLDispatchRepository{db: db, driver: driver}
}

// Migrate creates the dispatches table when missing.
func (r *SQLDispatchRepository) Migrate(ctx context.Context) error {
	columns := `
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL,
			agent_id VARCHAR(128) NOT NULL,
			lead_name VARCHAR(255) NOT NULL,
			phone VARCHAR(32) NOT NULL,
			message TEXT,
			whatsapp_url TEXT NOT NULL,
			tracked INTEGER NOT NULL DEFAULT 0,
			tracking_error TEXT,
			created_at BIGINT NOT NULL`

	stmts := []string{}
	if r.driver == "mysql" {
		stmts = append(stmts, `CREATE TABLE IF NOT EXISTS dispatches (`+columns+`,
			INDEX idx_dispatches_session (session_id)
		)`)
	} else {
		stmts = append(stmts,
			`CREATE TABLE IF NOT EXISTS dispatches (`+columns+`
		)`,
			`CREATE INDEX IF NOT EXISTS idx_dispatches_session ON dispatches (session_id)`)
	}

	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error migrating dispatches: %v", err)
		}
	}
	return nil
}

func (r *SQLDispatchRepository) Save(ctx context.Context, record *models.DispatchRecord) error {
	query := `
		INSERT INTO dispatches (
			id, session_id, agent_id, lead_name, phone,
			message, whatsapp_url, tracked, tracking_error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.SessionID,
		record.AgentID,
		record.LeadName,
		record.Phone,
		utils.NullString(record.Message),
		record.WhatsAppURL,
		utils.BoolToInt(record.Tracked),
		utils.NullString(record.TrackingError),
		record.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("error saving dispatch: %v", err)
	}
	return nil
}

// ListBySession returns a session's dispatches, oldest first.
func (r *SQLDispatchRepository) ListBySession(ctx context.Context, sessionID string) ([]models.DispatchRecord, error) {
	query := `
		SELECT
			id, session_id, agent_id, lead_name, phone,
			message, whatsapp_url, tracked, tracking_error, created_at
		FROM dispatches
		WHERE session_id = ?
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error listing dispatches: %v", err)
	}
	defer rows.Close()

	records := []models.DispatchRecord{}
	for rows.Next() {
		var record models.DispatchRecord
		var message, trackingError sql.NullString
		var tracked int
		var createdAt int64

		if err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.AgentID,
			&record.LeadName,
			&record.Phone,
			&message,
			&record.WhatsAppURL,
			&tracked,
			&trackingError,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning dispatch: %v", err)
		}

		record.Message = utils.StringFromNull(message)
		record.TrackingError = utils.StringFromNull(trackingError)
		record.Tracked = tracked != 0
		record.CreatedAt = time.UnixMilli(createdAt).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dispatches: %v", err)
	}
	return records, nil
}
