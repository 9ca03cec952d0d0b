package query

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/student"
)

func fixture(t *testing.T) *registration.Registry {
	t.Helper()
	r := registration.NewRegistry()

	for _, spec := range []struct {
		code     string
		capacity int
	}{{"CSC101", 2}, {"MAT201", 1}} {
		c, err := course.NewCourse(spec.code, spec.code+" title", "desc", spec.capacity, "Mon 09:00")
		require.NoError(t, err)
		require.NoError(t, r.AddCourse(c))
	}
	require.NoError(t, r.AddStudent(student.NewStudent(2, "Jane Doe")))
	require.NoError(t, r.AddStudent(student.NewStudent(1, "John Doe")))

	require.Equal(t, registration.OutcomeSuccess, r.Enroll(1, "mat201"))
	require.Equal(t, registration.OutcomeSuccess, r.Enroll(1, "CSC101"))
	require.Equal(t, registration.OutcomeSuccess, r.Enroll(2, "CSC101"))
	return r
}

func TestListCoursesHandler(t *testing.T) {
	h := NewListCoursesHandler(fixture(t))

	res, err := h.Handle(context.Background(), ListCoursesQuery{IncludeRoster: true})
	require.NoError(t, err)

	want := []CourseDTO{
		{Code: "CSC101", Title: "CSC101 title", Description: "desc", Schedule: "Mon 09:00", Capacity: 2, Enrolled: 2, AvailableSlots: 0, Roster: []int{1, 2}},
		{Code: "MAT201", Title: "MAT201 title", Description: "desc", Schedule: "Mon 09:00", Capacity: 1, Enrolled: 1, AvailableSlots: 0, Roster: []int{1}},
	}
	if diff := cmp.Diff(want, res.Courses, cmpopts.IgnoreFields(CourseDTO{}, "Display")); diff != "" {
		t.Errorf("courses mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t,
		"Course{courseCode='CSC101', title='CSC101 title', description='desc', capacity=2, schedule='Mon 09:00'}",
		res.Courses[0].Display)
}

func TestListCoursesHandler_OnlyOpen(t *testing.T) {
	r := fixture(t)
	require.Equal(t, registration.OutcomeSuccess, r.Drop(2, "CSC101"))

	res, err := NewListCoursesHandler(r).Handle(context.Background(), ListCoursesQuery{OnlyOpen: true})
	require.NoError(t, err)
	require.Len(t, res.Courses, 1)
	assert.Equal(t, "CSC101", res.Courses[0].Code)
	assert.Equal(t, 1, res.Courses[0].AvailableSlots)
	assert.Nil(t, res.Courses[0].Roster)
}

func TestListStudentsHandler(t *testing.T) {
	h := NewListStudentsHandler(fixture(t))

	res, err := h.Handle(context.Background(), ListStudentsQuery{})
	require.NoError(t, err)

	want := []StudentDTO{
		{ID: 2, Name: "Jane Doe", Courses: []string{"CSC101"}, Display: "Student{studentID=2, name='Jane Doe'}"},
		{ID: 1, Name: "John Doe", Courses: []string{"MAT201", "CSC101"}, Display: "Student{studentID=1, name='John Doe'}"},
	}
	if diff := cmp.Diff(want, res.Students); diff != "" {
		t.Errorf("students mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlers_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := registration.NewRegistry()
	_, err := NewListCoursesHandler(r).Handle(ctx, ListCoursesQuery{})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = NewListStudentsHandler(r).Handle(ctx, ListStudentsQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}
