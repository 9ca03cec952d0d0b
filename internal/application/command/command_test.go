package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/seed"
	"github.com/alem-hub/course-registration/pkg/logger"
)

type recordingPublisher struct {
	events []shared.Event
	err    error
}

func (p *recordingPublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []shared.EventType {
	out := make([]shared.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func seeded(t *testing.T, catalog seed.Catalog) *registration.Registry {
	t.Helper()
	r := registration.NewRegistry()
	_, err := NewImportCatalogHandler(r, nil, logger.Discard()).Handle(context.Background(), ImportCatalogCommand{Catalog: catalog})
	require.NoError(t, err)
	return r
}

func tinyCatalog() seed.Catalog {
	return seed.Catalog{
		Courses:  []seed.CourseSpec{{Code: "CSC101", Title: "Intro", Capacity: 1}},
		Students: []seed.StudentSpec{{ID: 1, Name: "John Doe"}, {ID: 2, Name: "Jane Doe"}},
	}
}

func TestEnrollCourseHandler_Outcomes(t *testing.T) {
	r := seeded(t, tinyCatalog())
	pub := &recordingPublisher{}
	h := NewEnrollCourseHandler(r, pub, logger.Discard())
	ctx := context.Background()

	res, err := h.Handle(ctx, EnrollCourseCommand{StudentID: 1, CourseCode: "csc101", CorrelationID: "req-1"})
	require.NoError(t, err)
	assert.Equal(t, registration.OutcomeSuccess, res.Outcome)
	assert.Equal(t, 0, res.AvailableSlots)
	assert.Equal(t, "req-1", res.CorrelationID)

	res, err = h.Handle(ctx, EnrollCourseCommand{StudentID: 2, CourseCode: "CSC101"})
	require.NoError(t, err)
	assert.Equal(t, registration.OutcomeFull, res.Outcome)
	assert.NotEmpty(t, res.CorrelationID)

	res, err = h.Handle(ctx, EnrollCourseCommand{StudentID: 99, CourseCode: "CSC101"})
	require.NoError(t, err)
	assert.Equal(t, registration.OutcomeNotFound, res.Outcome)

	res, err = h.Handle(ctx, EnrollCourseCommand{StudentID: 1, CourseCode: "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, registration.OutcomeNotFound, res.Outcome)
	assert.Equal(t, -1, res.AvailableSlots)

	assert.Equal(t, []shared.EventType{
		shared.EventEnrollmentCreated,
		shared.EventEnrollmentRejected,
		shared.EventEnrollmentRejected,
		shared.EventEnrollmentRejected,
	}, pub.types())

	first := pub.events[0].(shared.EnrollmentEvent)
	assert.Equal(t, "req-1", first.CorrelationID)
	assert.Equal(t, "CSC101", first.CourseCode)
	assert.Equal(t, "success", first.Outcome)
	assert.Equal(t, "full", pub.events[1].Payload()["outcome"])
}

func TestEnrollCourseHandler_RejectsBlankCode(t *testing.T) {
	h := NewEnrollCourseHandler(registration.NewRegistry(), nil, logger.Discard())

	_, err := h.Handle(context.Background(), EnrollCourseCommand{StudentID: 1, CourseCode: "  "})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestEnrollCourseHandler_PublishFailureDoesNotFailRequest(t *testing.T) {
	r := seeded(t, tinyCatalog())
	pub := &recordingPublisher{err: errors.New("bus closed")}

	res, err := NewEnrollCourseHandler(r, pub, logger.Discard()).
		Handle(context.Background(), EnrollCourseCommand{StudentID: 2, CourseCode: "CSC101"})
	require.NoError(t, err)
	assert.Equal(t, registration.OutcomeSuccess, res.Outcome)
	assert.NoError(t, r.Verify())
}

func TestDropCourseHandler_Outcomes(t *testing.T) {
	r := seeded(t, tinyCatalog())
	pub := &recordingPublisher{}
	enroll := NewEnrollCourseHandler(r, nil, logger.Discard())
	drop := NewDropCourseHandler(r, pub, logger.Discard())
	ctx := context.Background()

	res, err := drop.Handle(ctx, DropCourseCommand{StudentID: 1, CourseCode: "CSC101"})
	require.NoError(t, err)
	assert.Equal(t, registration.OutcomeNotEnrolled, res.Outcome)

	_, err = enroll.Handle(ctx, EnrollCourseCommand{StudentID: 1, CourseCode: "CSC101"})
	require.NoError(t, err)

	res, err = drop.Handle(ctx, DropCourseCommand{StudentID: 1, CourseCode: "Csc101"})
	require.NoError(t, err)
	assert.Equal(t, registration.OutcomeSuccess, res.Outcome)
	assert.Equal(t, 1, res.AvailableSlots)

	res, err = drop.Handle(ctx, DropCourseCommand{StudentID: 3, CourseCode: "CSC101"})
	require.NoError(t, err)
	assert.Equal(t, registration.OutcomeNotFound, res.Outcome)

	assert.Equal(t, []shared.EventType{
		shared.EventEnrollmentRejected,
		shared.EventEnrollmentDropped,
		shared.EventEnrollmentRejected,
	}, pub.types())

	_, err = drop.Handle(ctx, DropCourseCommand{StudentID: 1})
	assert.True(t, shared.IsValidation(err))
}

func TestImportCatalogHandler(t *testing.T) {
	r := registration.NewRegistry()
	pub := &recordingPublisher{}
	h := NewImportCatalogHandler(r, pub, logger.Discard())

	res, err := h.Handle(context.Background(), ImportCatalogCommand{Catalog: seed.Sample(), Source: "sample"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.CoursesAdded)
	assert.Equal(t, 2, res.StudentsAdded)
	assert.Len(t, pub.events, 5)
	assert.Equal(t, shared.EventCourseAdded, pub.events[0].EventType())
	assert.Equal(t, shared.EventStudentAdded, pub.events[4].EventType())

	_, ok := r.FindCourse("eng101")
	assert.True(t, ok)
}

func TestImportCatalogHandler_SkipsBadEntries(t *testing.T) {
	r := registration.NewRegistry()
	h := NewImportCatalogHandler(r, nil, logger.Discard())

	catalog := seed.Catalog{
		Courses: []seed.CourseSpec{
			{Code: "CSC101", Capacity: 5},
			{Code: "csc101", Capacity: 5},
			{Code: "BAD", Capacity: -1},
		},
		Students: []seed.StudentSpec{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}},
	}

	res, err := h.Handle(context.Background(), ImportCatalogCommand{Catalog: catalog})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.CoursesAdded)
	assert.Equal(t, 1, res.StudentsAdded)
	assert.True(t, shared.IsAlreadyExists(err))
	assert.ErrorIs(t, err, shared.ErrInvalidCapacity)

	_, err = h.Handle(context.Background(), ImportCatalogCommand{})
	assert.True(t, shared.IsValidation(err))
}
