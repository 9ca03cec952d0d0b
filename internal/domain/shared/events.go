// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types.
const (
	EventCourseAdded  EventType = "catalog.course_added"
	EventStudentAdded EventType = "catalog.student_added"

	EventEnrollmentCreated  EventType = "enrollment.created"
	EventEnrollmentDropped  EventType = "enrollment.dropped"
	EventEnrollmentRejected EventType = "enrollment.rejected"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// EventID returns the unique id of this event.
func (e BaseEvent) EventID() string {
	return e.ID
}

// Correlation returns the correlation id, if any.
func (e BaseEvent) Correlation() string {
	return e.CorrelationID
}

// Traceable is implemented by events that carry an event id and a
// correlation id, both local ones and those replayed from another instance.
type Traceable interface {
	EventID() string
	Correlation() string
}

// ═══════════════════════════════════════════════════════════════════════════
// Catalog Events
// ═══════════════════════════════════════════════════════════════════════════

// CourseAddedEvent is emitted when a course joins the catalog.
type CourseAddedEvent struct {
	BaseEvent
	Code     string `json:"code"`
	Title    string `json:"title"`
	Capacity int    `json:"capacity"`
}

// Payload implements Event interface.
func (e CourseAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"code":     e.Code,
		"title":    e.Title,
		"capacity": e.Capacity,
	}
}

// NewCourseAddedEvent creates a new CourseAddedEvent.
func NewCourseAddedEvent(code CourseCode, title string, capacity int) CourseAddedEvent {
	return CourseAddedEvent{
		BaseEvent: NewBaseEvent(EventCourseAdded, code.Key().String()),
		Code:      code.String(),
		Title:     title,
		Capacity:  capacity,
	}
}

// StudentAddedEvent is emitted when a student joins the catalog.
type StudentAddedEvent struct {
	BaseEvent
	StudentID int    `json:"student_id"`
	Name      string `json:"name"`
}

// Payload implements Event interface.
func (e StudentAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"name":       e.Name,
	}
}

// NewStudentAddedEvent creates a new StudentAddedEvent.
func NewStudentAddedEvent(id StudentID, name string) StudentAddedEvent {
	return StudentAddedEvent{
		BaseEvent: NewBaseEvent(EventStudentAdded, id.String()),
		StudentID: id.Int(),
		Name:      name,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Enrollment Events
// ═══════════════════════════════════════════════════════════════════════════

// EnrollmentEvent describes a change (or a refused change) to one enrollment edge.
// The aggregate is the course, since capacity lives there.
type EnrollmentEvent struct {
	BaseEvent
	StudentID      int    `json:"student_id"`
	CourseCode     string `json:"course_code"`
	Outcome        string `json:"outcome"`
	AvailableSlots int    `json:"available_slots"`
}

// Payload implements Event interface.
func (e EnrollmentEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":      e.StudentID,
		"course_code":     e.CourseCode,
		"outcome":         e.Outcome,
		"available_slots": e.AvailableSlots,
	}
}

// NewEnrollmentEvent creates an EnrollmentEvent of the given type.
func NewEnrollmentEvent(eventType EventType, studentID StudentID, code CourseCode, outcome string, slots int) EnrollmentEvent {
	return EnrollmentEvent{
		BaseEvent:      NewBaseEvent(eventType, code.Key().String()),
		StudentID:      studentID.Int(),
		CourseCode:     code.Key().String(),
		Outcome:        outcome,
		AvailableSlots: slots,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Bus contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
