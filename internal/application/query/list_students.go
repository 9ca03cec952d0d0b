package query

import (
	"context"

	"github.com/alem-hub/course-registration/internal/domain/registration"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsQuery has no options yet; it exists for symmetry with the
// other handlers.
type ListStudentsQuery struct{}

// StudentDTO is the read model of one student.
type StudentDTO struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Courses []string `json:"courses"`

	// Display is the student's one-line text form.
	Display string `json:"-"`
}

// ListStudentsResult contains the students in registration order.
type ListStudentsResult struct {
	Students []StudentDTO
}

// ListStudentsHandler handles ListStudentsQuery.
type ListStudentsHandler struct {
	registry *registration.Registry
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(registry *registration.Registry) *ListStudentsHandler {
	return &ListStudentsHandler{registry: registry}
}

// Handle executes the query.
func (h *ListStudentsHandler) Handle(ctx context.Context, _ ListStudentsQuery) (*ListStudentsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	students := h.registry.ListStudents()
	result := &ListStudentsResult{Students: make([]StudentDTO, 0, len(students))}

	for _, s := range students {
		codes, err := h.registry.Schedule(s.ID())
		if err != nil {
			return nil, err
		}

		dto := StudentDTO{
			ID:      s.ID().Int(),
			Name:    s.Name,
			Courses: make([]string, 0, len(codes)),
			Display: s.String(),
		}
		for _, code := range codes {
			dto.Courses = append(dto.Courses, code.String())
		}

		result.Students = append(result.Students, dto)
	}

	return result, nil
}
