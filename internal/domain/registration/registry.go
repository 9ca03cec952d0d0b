// Package registration owns every course and student and performs the
// enroll/drop operations that keep both sides of each enrollment edge in sync.
package registration

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/domain/student"
)

// CourseListing is a course paired with its free seats at listing time.
type CourseListing struct {
	Course         *course.Course
	AvailableSlots int
}

// Registry is the single owner of all entities.
// Enroll and Drop are serialized by mu, so two requests can never both
// observe the last free seat.
type Registry struct {
	mu sync.RWMutex

	courses     map[shared.CourseCode]*course.Course
	courseOrder []shared.CourseCode

	students     map[shared.StudentID]*student.Student
	studentOrder []shared.StudentID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		courses:  make(map[shared.CourseCode]*course.Course),
		students: make(map[shared.StudentID]*student.Student),
	}
}

// AddCourse registers a course. Codes that differ only in case collide.
func (r *Registry) AddCourse(c *course.Course) error {
	if c == nil {
		return shared.NewDomainError("registration", "AddCourse", shared.ErrInvalidInput, "course is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := c.Code().Key()
	if _, exists := r.courses[key]; exists {
		return shared.WrapError("registration", "AddCourse", shared.ErrAlreadyExists,
			fmt.Sprintf("course %s", key), shared.ErrCourseAlreadyExists)
	}
	r.courses[key] = c
	r.courseOrder = append(r.courseOrder, key)
	return nil
}

// AddStudent registers a student.
func (r *Registry) AddStudent(s *student.Student) error {
	if s == nil {
		return shared.NewDomainError("registration", "AddStudent", shared.ErrInvalidInput, "student is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.students[s.ID()]; exists {
		return shared.WrapError("registration", "AddStudent", shared.ErrAlreadyExists,
			fmt.Sprintf("student %d", s.ID()), shared.ErrStudentAlreadyExists)
	}
	r.students[s.ID()] = s
	r.studentOrder = append(r.studentOrder, s.ID())
	return nil
}

// FindStudent looks a student up by exact id.
func (r *Registry) FindStudent(id shared.StudentID) (*student.Student, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	return s, ok
}

// FindCourse looks a course up by code, ignoring case.
func (r *Registry) FindCourse(code shared.CourseCode) (*course.Course, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courses[code.Key()]
	return c, ok
}

// Enroll creates the edge between a student and a course.
func (r *Registry) Enroll(id shared.StudentID, code shared.CourseCode) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, c, ok := r.resolve(id, code)
	if !ok {
		return OutcomeNotFound
	}
	return outcomeOf(s.TryEnroll(c))
}

// Drop removes the edge between a student and a course.
func (r *Registry) Drop(id shared.StudentID, code shared.CourseCode) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, c, ok := r.resolve(id, code)
	if !ok {
		return OutcomeNotFound
	}
	return outcomeOf(s.TryDrop(c))
}

func (r *Registry) resolve(id shared.StudentID, code shared.CourseCode) (*student.Student, *course.Course, bool) {
	s, sok := r.students[id]
	c, cok := r.courses[code.Key()]
	return s, c, sok && cok
}

// AvailableSlots reports the free seats of a course, ignoring case in code.
func (r *Registry) AvailableSlots(code shared.CourseCode) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courses[code.Key()]
	if !ok {
		return 0, false
	}
	return c.AvailableSlots(), true
}

// ListCourses returns every course in the order it was added.
func (r *Registry) ListCourses() []CourseListing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CourseListing, 0, len(r.courseOrder))
	for _, key := range r.courseOrder {
		c := r.courses[key]
		out = append(out, CourseListing{Course: c, AvailableSlots: c.AvailableSlots()})
	}
	return out
}

// ListStudents returns every student in the order it was added.
func (r *Registry) ListStudents() []*student.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*student.Student, 0, len(r.studentOrder))
	for _, id := range r.studentOrder {
		out = append(out, r.students[id])
	}
	return out
}

// Roster returns the ids of students holding the course.
func (r *Registry) Roster(code shared.CourseCode) ([]shared.StudentID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courses[code.Key()]
	if !ok {
		return nil, shared.ErrCourseNotFound
	}
	return c.Enrolled(), nil
}

// Schedule returns the codes of courses the student holds.
func (r *Registry) Schedule(id shared.StudentID) ([]shared.CourseCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s.Courses(), nil
}

// Verify checks the capacity bound of every course and that every edge is
// recorded on both of its ends. It returns all violations joined.
func (r *Registry) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	violation := func(format string, args ...any) {
		errs = append(errs, shared.NewDomainError("registration", "Verify",
			shared.ErrInconsistentState, fmt.Sprintf(format, args...)))
	}

	for _, key := range r.courseOrder {
		c := r.courses[key]
		if c.EnrolledCount() > c.Capacity() {
			violation("course %s holds %d students over capacity %d", key, c.EnrolledCount(), c.Capacity())
		}
		for _, id := range c.Enrolled() {
			s, ok := r.students[id]
			if !ok {
				violation("course %s lists unknown student %d", key, id)
				continue
			}
			if !s.Has(key) {
				violation("course %s lists student %d who does not list it back", key, id)
			}
		}
	}

	for _, id := range r.studentOrder {
		s := r.students[id]
		for _, code := range s.Courses() {
			c, ok := r.courses[code.Key()]
			if !ok {
				violation("student %d lists unknown course %s", id, code)
				continue
			}
			if !c.Has(id) {
				violation("student %d lists course %s which does not list them back", id, code)
			}
		}
	}

	return errors.Join(errs...)
}
