package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/shared"
)

func mustCourse(t *testing.T, code string, capacity int) *course.Course {
	t.Helper()
	c, err := course.NewCourse(code, code+" title", "", capacity, "")
	require.NoError(t, err)
	return c
}

func TestStudent_TryEnroll(t *testing.T) {
	s := NewStudent(1, "John Doe")
	c := mustCourse(t, "csc101", 2)

	require.NoError(t, s.TryEnroll(c))

	assert.True(t, s.Has("CSC101"))
	assert.True(t, c.Has(1))
	assert.Equal(t, []shared.CourseCode{"CSC101"}, s.Courses())
}

func TestStudent_TryEnrollTwice(t *testing.T) {
	s := NewStudent(1, "John Doe")
	c := mustCourse(t, "CSC101", 2)
	require.NoError(t, s.TryEnroll(c))

	err := s.TryEnroll(c)
	assert.ErrorIs(t, err, shared.ErrAlreadyEnrolled)
	assert.Equal(t, 1, s.CourseCount())
	assert.Equal(t, 1, c.EnrolledCount())
}

func TestStudent_TryEnrollFullCourseLeavesNoTrace(t *testing.T) {
	first := NewStudent(1, "John Doe")
	second := NewStudent(2, "Jane Doe")
	c := mustCourse(t, "CSC101", 1)

	require.NoError(t, first.TryEnroll(c))

	err := second.TryEnroll(c)
	assert.ErrorIs(t, err, shared.ErrCourseFull)
	assert.False(t, second.Has(c.Code()), "refused enrollment must not be recorded on the student")
	assert.Equal(t, 0, second.CourseCount())
	assert.False(t, c.Has(2))
}

func TestStudent_TryDrop(t *testing.T) {
	s := NewStudent(1, "John Doe")
	a := mustCourse(t, "CSC101", 2)
	b := mustCourse(t, "MAT201", 2)
	require.NoError(t, s.TryEnroll(a))
	require.NoError(t, s.TryEnroll(b))

	require.NoError(t, s.TryDrop(a))

	assert.False(t, s.Has("csc101"))
	assert.False(t, a.Has(1))
	assert.Equal(t, []shared.CourseCode{"MAT201"}, s.Courses())
	assert.Equal(t, 2, a.AvailableSlots())
}

func TestStudent_TryDropNotHeld(t *testing.T) {
	s := NewStudent(1, "John Doe")
	c := mustCourse(t, "CSC101", 2)

	assert.ErrorIs(t, s.TryDrop(c), shared.ErrNotEnrolled)
}

func TestStudent_TryDropCourseSideMissing(t *testing.T) {
	s := NewStudent(1, "John Doe")
	c := mustCourse(t, "CSC101", 2)
	require.NoError(t, s.TryEnroll(c))

	// Break the mirror from the course side only.
	require.True(t, c.Remove(1))

	err := s.TryDrop(c)
	assert.ErrorIs(t, err, shared.ErrInconsistentState)
	assert.ErrorIs(t, err, shared.ErrNotEnrolled)
	assert.True(t, s.Has(c.Code()), "a failed drop must not change the student side")
}

func TestStudent_String(t *testing.T) {
	assert.Equal(t, "Student{studentID=2, name='Jane Doe'}", NewStudent(2, "Jane Doe").String())
}

func TestStudent_ID(t *testing.T) {
	s := NewStudent(7, "Ada")
	c := mustCourse(t, "PHY110", 1)
	require.NoError(t, s.TryEnroll(c))

	assert.Equal(t, shared.StudentID(7), s.ID())
	assert.Equal(t, []shared.StudentID{s.ID()}, c.Enrolled())
}
