// Package course contains the course aggregate: descriptive metadata, a fixed
// capacity and the set of students currently holding a seat.
package course

import (
	"fmt"
	"slices"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// Course is a catalog entry with a bounded roster.
// Invariant: len(enrolled) <= capacity. Code and capacity are fixed at creation.
type Course struct {
	Title       string
	Description string
	Schedule    string

	code     shared.CourseCode
	capacity int

	// enrolled keeps insertion order for display; index answers membership.
	enrolled []shared.StudentID
	index    map[shared.StudentID]struct{}
}

// NewCourse creates a course with an empty roster.
func NewCourse(code, title, description string, capacity int, schedule string) (*Course, error) {
	cc, err := shared.NewCourseCode(code)
	if err != nil {
		return nil, err
	}
	if capacity < 0 {
		return nil, shared.ErrInvalidCapacity
	}

	return &Course{
		Title:       title,
		Description: description,
		Schedule:    schedule,
		code:        cc,
		capacity:    capacity,
		enrolled:    make([]shared.StudentID, 0, capacity),
		index:       make(map[shared.StudentID]struct{}, capacity),
	}, nil
}

// Code returns the course code as given at creation.
func (c *Course) Code() shared.CourseCode {
	return c.code
}

// Capacity returns the seat limit.
func (c *Course) Capacity() int {
	return c.capacity
}

// CheckEnroll reports why a seat could not be granted without changing anything.
// A duplicate wins over a full course so the caller sees the more specific reason.
func (c *Course) CheckEnroll(id shared.StudentID) error {
	if c.Has(id) {
		return shared.ErrAlreadyEnrolled
	}
	if len(c.enrolled) >= c.capacity {
		return shared.ErrCourseFull
	}
	return nil
}

// TryEnroll adds the student if there is a free seat and they are not already on the roster.
func (c *Course) TryEnroll(id shared.StudentID) bool {
	if c.CheckEnroll(id) != nil {
		return false
	}
	c.enrolled = append(c.enrolled, id)
	c.index[id] = struct{}{}
	return true
}

// Remove drops the student from the roster and reports whether they were on it.
func (c *Course) Remove(id shared.StudentID) bool {
	if !c.Has(id) {
		return false
	}
	delete(c.index, id)
	if i := slices.Index(c.enrolled, id); i >= 0 {
		c.enrolled = slices.Delete(c.enrolled, i, i+1)
	}
	return true
}

// Has reports whether the student holds a seat.
func (c *Course) Has(id shared.StudentID) bool {
	_, ok := c.index[id]
	return ok
}

// AvailableSlots returns the number of free seats, never negative.
func (c *Course) AvailableSlots() int {
	return max(c.capacity-len(c.enrolled), 0)
}

// EnrolledCount returns the number of occupied seats.
func (c *Course) EnrolledCount() int {
	return len(c.enrolled)
}

// IsFull reports whether no seat is left.
func (c *Course) IsFull() bool {
	return c.AvailableSlots() == 0
}

// Enrolled returns a copy of the roster in enrollment order.
func (c *Course) Enrolled() []shared.StudentID {
	return slices.Clone(c.enrolled)
}

// String renders the catalog line shown by the console.
func (c *Course) String() string {
	return fmt.Sprintf("Course{courseCode='%s', title='%s', description='%s', capacity=%d, schedule='%s'}",
		c.code, c.Title, c.Description, c.capacity, c.Schedule)
}
