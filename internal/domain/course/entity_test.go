package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

func newTestCourse(t *testing.T, capacity int) *Course {
	t.Helper()
	c, err := NewCourse("CSC101", "Introduction to Programming", "Basic programming concepts", capacity, "Mon/Wed/Fri 10:00-11:00")
	require.NoError(t, err)
	return c
}

func TestNewCourse_Validation(t *testing.T) {
	_, err := NewCourse("", "t", "d", 10, "s")
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = NewCourse("CS 101", "t", "d", 10, "s")
	assert.ErrorIs(t, err, shared.ErrInvalidCourseCode)

	_, err = NewCourse("CSC101", "t", "d", -1, "s")
	assert.ErrorIs(t, err, shared.ErrNegativeValue)

	c, err := NewCourse("  MAT201 ", "Calculus", "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, shared.CourseCode("MAT201"), c.Code())
	assert.Equal(t, 0, c.AvailableSlots())
	assert.True(t, c.IsFull())
}

func TestCourse_TryEnrollRespectsCapacity(t *testing.T) {
	c := newTestCourse(t, 2)

	assert.True(t, c.TryEnroll(1))
	assert.True(t, c.TryEnroll(2))
	assert.False(t, c.TryEnroll(3))
	assert.False(t, c.TryEnroll(3))

	assert.Equal(t, 2, c.EnrolledCount())
	assert.Equal(t, 0, c.AvailableSlots())
	assert.Equal(t, []shared.StudentID{1, 2}, c.Enrolled())
}

func TestCourse_TryEnrollRejectsDuplicate(t *testing.T) {
	c := newTestCourse(t, 5)

	require.True(t, c.TryEnroll(7))
	assert.False(t, c.TryEnroll(7))
	assert.Equal(t, 1, c.EnrolledCount())
}

func TestCourse_CheckEnrollReasons(t *testing.T) {
	c := newTestCourse(t, 1)
	assert.NoError(t, c.CheckEnroll(1))

	require.True(t, c.TryEnroll(1))
	assert.ErrorIs(t, c.CheckEnroll(1), shared.ErrAlreadyEnrolled)
	assert.ErrorIs(t, c.CheckEnroll(2), shared.ErrCourseFull)
	assert.True(t, shared.IsCapacityExceeded(c.CheckEnroll(2)))
	assert.Equal(t, 1, c.EnrolledCount())
}

func TestCourse_Remove(t *testing.T) {
	c := newTestCourse(t, 3)
	c.TryEnroll(1)
	c.TryEnroll(2)
	c.TryEnroll(3)

	assert.True(t, c.Remove(2))
	assert.False(t, c.Remove(2))
	assert.False(t, c.Has(2))
	assert.Equal(t, []shared.StudentID{1, 3}, c.Enrolled())
	assert.Equal(t, 1, c.AvailableSlots())

	assert.True(t, c.TryEnroll(4))
	assert.Equal(t, []shared.StudentID{1, 3, 4}, c.Enrolled())
}

func TestCourse_EnrolledReturnsCopy(t *testing.T) {
	c := newTestCourse(t, 2)
	c.TryEnroll(1)

	ids := c.Enrolled()
	ids[0] = 99

	assert.True(t, c.Has(1))
	assert.Equal(t, []shared.StudentID{1}, c.Enrolled())
}

func TestCourse_String(t *testing.T) {
	c := newTestCourse(t, 50)
	assert.Equal(t,
		"Course{courseCode='CSC101', title='Introduction to Programming', description='Basic programming concepts', capacity=50, schedule='Mon/Wed/Fri 10:00-11:00'}",
		c.String())
}

func TestCourse_CapacityFixedAtCreation(t *testing.T) {
	c := newTestCourse(t, 2)
	require.True(t, c.TryEnroll(1))
	require.True(t, c.TryEnroll(2))

	assert.Equal(t, 2, c.Capacity())
	assert.Equal(t, c.Capacity(), c.EnrolledCount())
	assert.Contains(t, c.String(), "capacity=2")
}
