// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/alem-hub/course-registration/internal/domain/registration"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST COURSES QUERY
// Lists the catalog with the free seats of each course.
// ══════════════════════════════════════════════════════════════════════════════

// ListCoursesQuery contains the options for listing courses.
type ListCoursesQuery struct {
	// OnlyOpen hides courses with no free seat.
	OnlyOpen bool

	// IncludeRoster fills CourseDTO.Roster.
	IncludeRoster bool
}

// CourseDTO is the read model of one course.
type CourseDTO struct {
	Code           string `json:"code"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Schedule       string `json:"schedule"`
	Capacity       int    `json:"capacity"`
	Enrolled       int    `json:"enrolled"`
	AvailableSlots int    `json:"available_slots"`
	Roster         []int  `json:"roster,omitempty"`

	// Display is the course's one-line text form.
	Display string `json:"-"`
}

// ListCoursesResult contains the courses in catalog order.
type ListCoursesResult struct {
	Courses []CourseDTO
}

// ListCoursesHandler handles ListCoursesQuery.
type ListCoursesHandler struct {
	registry *registration.Registry
}

// NewListCoursesHandler creates a new ListCoursesHandler.
func NewListCoursesHandler(registry *registration.Registry) *ListCoursesHandler {
	return &ListCoursesHandler{registry: registry}
}

// Handle executes the query.
func (h *ListCoursesHandler) Handle(ctx context.Context, q ListCoursesQuery) (*ListCoursesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listings := h.registry.ListCourses()
	result := &ListCoursesResult{Courses: make([]CourseDTO, 0, len(listings))}

	for _, l := range listings {
		if q.OnlyOpen && l.AvailableSlots == 0 {
			continue
		}

		c := l.Course
		dto := CourseDTO{
			Code:           c.Code().String(),
			Title:          c.Title,
			Description:    c.Description,
			Schedule:       c.Schedule,
			Capacity:       c.Capacity(),
			Enrolled:       c.Capacity() - l.AvailableSlots,
			AvailableSlots: l.AvailableSlots,
			Display:        c.String(),
		}

		if q.IncludeRoster {
			ids, err := h.registry.Roster(c.Code())
			if err != nil {
				return nil, err
			}
			dto.Roster = make([]int, 0, len(ids))
			for _, id := range ids {
				dto.Roster = append(dto.Roster, id.Int())
			}
		}

		result.Courses = append(result.Courses, dto)
	}

	return result, nil
}
