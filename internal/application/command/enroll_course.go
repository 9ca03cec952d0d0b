// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLL COURSE COMMAND
// Creates the enrollment edge between a student and a course.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollCourseCommand contains the data needed to enroll a student.
type EnrollCourseCommand struct {
	// StudentID is the student asking for a seat.
	StudentID shared.StudentID

	// CourseCode is matched case-insensitively.
	CourseCode shared.CourseCode

	// CorrelationID for tracing. Generated when empty.
	CorrelationID string
}

// Validate validates the command.
func (c EnrollCourseCommand) Validate() error {
	return validateEdge("EnrollCourse", c.CourseCode)
}

// EnrollCourseResult contains the result of an enroll request.
type EnrollCourseResult struct {
	// Outcome is the registry's classification of the request.
	Outcome registration.Outcome

	// AvailableSlots is the course's free seats after the request,
	// or -1 when the course is unknown.
	AvailableSlots int

	// CorrelationID identifies the request in logs and events.
	CorrelationID string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// EnrollCourseHandler handles the EnrollCourseCommand.
type EnrollCourseHandler struct {
	registry  *registration.Registry
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewEnrollCourseHandler creates a new EnrollCourseHandler.
// publisher may be nil; then no events are emitted.
func NewEnrollCourseHandler(
	registry *registration.Registry,
	publisher shared.EventPublisher,
	log *slog.Logger,
) *EnrollCourseHandler {
	if log == nil {
		log = slog.Default()
	}
	return &EnrollCourseHandler{
		registry:  registry,
		publisher: publisher,
		logger:    log.With(logger.Component("enroll_course")),
	}
}

// Handle executes the enroll command. Outcomes other than success are not
// errors; an error is returned only for an invalid command.
func (h *EnrollCourseHandler) Handle(ctx context.Context, cmd EnrollCourseCommand) (*EnrollCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if cmd.CorrelationID == "" {
		cmd.CorrelationID = uuid.NewString()
	}

	outcome := h.registry.Enroll(cmd.StudentID, cmd.CourseCode)
	result := &EnrollCourseResult{
		Outcome:        outcome,
		AvailableSlots: slotsOf(h.registry, cmd.CourseCode),
		CorrelationID:  cmd.CorrelationID,
	}

	h.logger.LogAttrs(ctx, levelFor(outcome), "enroll request handled",
		logger.StudentID(cmd.StudentID.Int()),
		logger.CourseCode(cmd.CourseCode.Key().String()),
		logger.Outcome(outcome.String()),
		logger.AvailableSlots(result.AvailableSlots),
		logger.CorrelationID(cmd.CorrelationID),
	)

	eventType := shared.EventEnrollmentCreated
	if !outcome.IsSuccess() {
		eventType = shared.EventEnrollmentRejected
	}
	publish(ctx, h.publisher, h.logger, eventType, cmd.StudentID, cmd.CourseCode, outcome, result.AvailableSlots, cmd.CorrelationID)

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SHARED HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func validateEdge(op string, code shared.CourseCode) error {
	if strings.TrimSpace(code.String()) == "" {
		return shared.NewDomainError("registration", op, shared.ErrValidation, "course code is required")
	}
	return nil
}

func slotsOf(registry *registration.Registry, code shared.CourseCode) int {
	slots, ok := registry.AvailableSlots(code)
	if !ok {
		return -1
	}
	return slots
}

func levelFor(outcome registration.Outcome) slog.Level {
	if outcome.IsSuccess() {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// publish emits one enrollment event. Bus failures are logged, never returned:
// the registry has already committed the change.
func publish(
	ctx context.Context,
	publisher shared.EventPublisher,
	log *slog.Logger,
	eventType shared.EventType,
	id shared.StudentID,
	code shared.CourseCode,
	outcome registration.Outcome,
	slots int,
	correlationID string,
) {
	if publisher == nil {
		return
	}

	event := shared.NewEnrollmentEvent(eventType, id, code, outcome.String(), slots)
	event.BaseEvent = event.BaseEvent.WithCorrelationID(correlationID)

	if err := publisher.Publish(event); err != nil {
		log.LogAttrs(ctx, slog.LevelWarn, "failed to publish event",
			logger.EventType(string(eventType)),
			logger.CorrelationID(correlationID),
			logger.Err(fmt.Errorf("publish %s: %w", eventType, err)),
		)
	}
}
