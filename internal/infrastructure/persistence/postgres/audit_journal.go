package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/pkg/circuitbreaker"
)

// Execer is the subset of Connection the journal writes through.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// AuditJournal appends one row per domain event to enrollment_audit.
// Rows are never updated or read back by the registrar.
type AuditJournal struct {
	db      Execer
	timeout time.Duration
	logger  *slog.Logger
	breaker *circuitbreaker.CircuitBreaker
}

// NewAuditJournal creates a journal writing through db.
func NewAuditJournal(db Execer, timeout time.Duration, logger *slog.Logger) *AuditJournal {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditJournal{db: db, timeout: timeout, logger: logger}
}

// WithBreaker routes writes through cb. While it is open Record returns
// circuitbreaker.ErrOpen without touching the database.
func (j *AuditJournal) WithBreaker(cb *circuitbreaker.CircuitBreaker) *AuditJournal {
	j.breaker = cb
	return j
}

const insertAuditSQL = `
INSERT INTO enrollment_audit (
    event_id, correlation_id, event_type, aggregate_id,
    student_id, course_code, outcome, payload, occurred_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// AuditRow is the column set written for one event.
type AuditRow struct {
	EventID       *uuid.UUID
	CorrelationID *uuid.UUID
	EventType     string
	AggregateID   string
	StudentID     *int
	CourseCode    *string
	Outcome       *string
	Payload       []byte
	OccurredAt    time.Time
}

// Record writes event to the journal. It has the shared.EventHandler shape
// so it can be subscribed to the bus directly.
func (j *AuditJournal) Record(event shared.Event) error {
	row, err := NewAuditRow(event)
	if err != nil {
		return err
	}

	if j.breaker == nil {
		return j.insert(row)
	}
	// Rows the server rejects are not breaker failures.
	var rowErr error
	err = j.breaker.Execute(context.Background(), func(context.Context) error {
		err := j.insert(row)
		if isDataException(err) {
			rowErr = err
			return nil
		}
		return err
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return fmt.Errorf("postgres: skip %s: %w", row.EventType, err)
	}
	if err != nil {
		return err
	}
	return rowErr
}

func (j *AuditJournal) insert(row AuditRow) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.db.Exec(ctx, insertAuditSQL,
		row.EventID, row.CorrelationID, row.EventType, row.AggregateID,
		row.StudentID, row.CourseCode, row.Outcome, row.Payload, row.OccurredAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			j.logger.Debug("audit row already recorded", "event_type", row.EventType)
			return nil
		}
		return fmt.Errorf("postgres: record %s: %w", row.EventType, err)
	}

	return nil
}

// NewAuditRow maps an event onto journal columns.
func NewAuditRow(event shared.Event) (AuditRow, error) {
	payload := event.Payload()
	if payload == nil {
		payload = map[string]interface{}{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return AuditRow{}, fmt.Errorf("postgres: encode payload: %w", err)
	}

	row := AuditRow{
		EventType:   string(event.EventType()),
		AggregateID: event.AggregateID(),
		Payload:     data,
		OccurredAt:  event.OccurredAt(),
		StudentID:   intField(payload, "student_id"),
		CourseCode:  stringField(payload, "course_code"),
		Outcome:     stringField(payload, "outcome"),
	}
	if row.OccurredAt.IsZero() {
		row.OccurredAt = time.Now().UTC()
	}

	if t, ok := event.(shared.Traceable); ok {
		row.EventID = parseUUID(t.EventID())
		row.CorrelationID = parseUUID(t.Correlation())
	}

	return row, nil
}

func parseUUID(s string) *uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func intField(payload map[string]interface{}, key string) *int {
	var n int
	switch v := payload[key].(type) {
	case int:
		n = v
	case float64:
		// JSON numbers from remote envelopes
		n = int(v)
	default:
		return nil
	}
	return &n
}

func stringField(payload map[string]interface{}, key string) *string {
	s, ok := payload[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
