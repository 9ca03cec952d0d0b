package command

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DROP COURSE COMMAND
// Removes the enrollment edge from both the student and the course.
// ══════════════════════════════════════════════════════════════════════════════

// DropCourseCommand contains the data needed to drop a course.
type DropCourseCommand struct {
	StudentID     shared.StudentID
	CourseCode    shared.CourseCode
	CorrelationID string
}

// Validate validates the command.
func (c DropCourseCommand) Validate() error {
	return validateEdge("DropCourse", c.CourseCode)
}

// DropCourseResult contains the result of a drop request.
type DropCourseResult struct {
	Outcome        registration.Outcome
	AvailableSlots int
	CorrelationID  string
}

// DropCourseHandler handles the DropCourseCommand.
type DropCourseHandler struct {
	registry  *registration.Registry
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewDropCourseHandler creates a new DropCourseHandler.
func NewDropCourseHandler(
	registry *registration.Registry,
	publisher shared.EventPublisher,
	log *slog.Logger,
) *DropCourseHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DropCourseHandler{
		registry:  registry,
		publisher: publisher,
		logger:    log.With(logger.Component("drop_course")),
	}
}

// Handle executes the drop command.
func (h *DropCourseHandler) Handle(ctx context.Context, cmd DropCourseCommand) (*DropCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if cmd.CorrelationID == "" {
		cmd.CorrelationID = uuid.NewString()
	}

	outcome := h.registry.Drop(cmd.StudentID, cmd.CourseCode)
	result := &DropCourseResult{
		Outcome:        outcome,
		AvailableSlots: slotsOf(h.registry, cmd.CourseCode),
		CorrelationID:  cmd.CorrelationID,
	}

	h.logger.LogAttrs(ctx, levelFor(outcome), "drop request handled",
		logger.StudentID(cmd.StudentID.Int()),
		logger.CourseCode(cmd.CourseCode.Key().String()),
		logger.Outcome(outcome.String()),
		logger.CorrelationID(cmd.CorrelationID),
	)

	eventType := shared.EventEnrollmentDropped
	if !outcome.IsSuccess() {
		eventType = shared.EventEnrollmentRejected
	}
	publish(ctx, h.publisher, h.logger, eventType, cmd.StudentID, cmd.CourseCode, outcome, result.AvailableSlots, cmd.CorrelationID)

	return result, nil
}
