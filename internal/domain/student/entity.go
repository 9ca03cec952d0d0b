package student

import (
	"fmt"
	"slices"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// Student is a registrant. Its course set mirrors the rosters of the courses it holds.
type Student struct {
	Name string

	id shared.StudentID

	// courses holds canonical codes in registration order.
	courses []shared.CourseCode
	index   map[shared.CourseCode]struct{}
}

// NewStudent creates a student holding no courses.
func NewStudent(id shared.StudentID, name string) *Student {
	return &Student{
		Name:    name,
		id:      id,
		courses: make([]shared.CourseCode, 0),
		index:   make(map[shared.CourseCode]struct{}),
	}
}

// ID returns the student id, fixed at creation.
func (s *Student) ID() shared.StudentID {
	return s.id
}

// Has reports whether the student holds the course.
func (s *Student) Has(code shared.CourseCode) bool {
	_, ok := s.index[code.Key()]
	return ok
}

// Courses returns a copy of the held course codes in registration order.
func (s *Student) Courses() []shared.CourseCode {
	return slices.Clone(s.courses)
}

// CourseCount returns the number of held courses.
func (s *Student) CourseCount() int {
	return len(s.courses)
}

// TryEnroll creates the enrollment edge with c.
// The local record is written only after the course granted the seat.
func (s *Student) TryEnroll(c *course.Course) error {
	if s.Has(c.Code()) {
		return shared.ErrAlreadyEnrolled
	}
	if err := c.CheckEnroll(s.id); err != nil {
		return err
	}
	if !c.TryEnroll(s.id) {
		return shared.ErrCourseFull
	}

	key := c.Code().Key()
	s.courses = append(s.courses, key)
	s.index[key] = struct{}{}
	return nil
}

// TryDrop removes the enrollment edge with c from both sides, or from neither.
func (s *Student) TryDrop(c *course.Course) error {
	if !s.Has(c.Code()) {
		return shared.ErrNotEnrolled
	}
	if !c.Remove(s.id) {
		return shared.WrapError("student", "Drop", shared.ErrInconsistentState,
			fmt.Sprintf("course %s does not list student %d", c.Code().Key(), s.id), shared.ErrNotEnrolled)
	}

	key := c.Code().Key()
	delete(s.index, key)
	if i := slices.Index(s.courses, key); i >= 0 {
		s.courses = slices.Delete(s.courses, i, i+1)
	}
	return nil
}

// String renders the student line shown by the console.
func (s *Student) String() string {
	return fmt.Sprintf("Student{studentID=%d, name='%s'}", s.id, s.Name)
}
