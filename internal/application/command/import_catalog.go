package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/domain/student"
	"github.com/alem-hub/course-registration/internal/seed"
	"github.com/alem-hub/course-registration/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT CATALOG COMMAND
// Adds the courses and students of a seed catalog to the registry.
// ══════════════════════════════════════════════════════════════════════════════

// ImportCatalogCommand carries a decoded catalog.
type ImportCatalogCommand struct {
	Catalog seed.Catalog

	// Source names where the catalog came from, for logs.
	Source string
}

// Validate validates the command.
func (c ImportCatalogCommand) Validate() error {
	if len(c.Catalog.Courses) == 0 && len(c.Catalog.Students) == 0 {
		return shared.NewDomainError("catalog", "ImportCatalog", shared.ErrValidation, "catalog is empty")
	}
	return nil
}

// ImportCatalogResult reports how much of the catalog was added.
type ImportCatalogResult struct {
	CoursesAdded  int
	StudentsAdded int
}

// ImportCatalogHandler handles the ImportCatalogCommand.
type ImportCatalogHandler struct {
	registry  *registration.Registry
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewImportCatalogHandler creates a new ImportCatalogHandler.
func NewImportCatalogHandler(
	registry *registration.Registry,
	publisher shared.EventPublisher,
	log *slog.Logger,
) *ImportCatalogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ImportCatalogHandler{
		registry:  registry,
		publisher: publisher,
		logger:    log.With(logger.Component("import_catalog")),
	}
}

// Handle adds every entry it can. Invalid or duplicate entries are skipped
// and reported together in the returned error, alongside a non-nil result.
func (h *ImportCatalogHandler) Handle(ctx context.Context, cmd ImportCatalogCommand) (*ImportCatalogResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &ImportCatalogResult{}
	var errs []error

	for i, spec := range cmd.Catalog.Courses {
		c, err := course.NewCourse(spec.Code, spec.Title, spec.Description, spec.Capacity, spec.Schedule)
		if err == nil {
			err = h.registry.AddCourse(c)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("course #%d (%q): %w", i+1, spec.Code, err))
			continue
		}
		result.CoursesAdded++
		h.emit(shared.NewCourseAddedEvent(c.Code(), c.Title, c.Capacity()))
	}

	for i, spec := range cmd.Catalog.Students {
		s := student.NewStudent(shared.StudentID(spec.ID), spec.Name)
		if err := h.registry.AddStudent(s); err != nil {
			errs = append(errs, fmt.Errorf("student #%d (%d): %w", i+1, spec.ID, err))
			continue
		}
		result.StudentsAdded++
		h.emit(shared.NewStudentAddedEvent(s.ID(), s.Name))
	}

	h.logger.InfoContext(ctx, "catalog imported",
		slog.String("source", cmd.Source),
		slog.Int("courses", result.CoursesAdded),
		slog.Int("students", result.StudentsAdded),
		slog.Int("skipped", len(errs)),
	)

	return result, errors.Join(errs...)
}

func (h *ImportCatalogHandler) emit(event shared.Event) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(event); err != nil {
		h.logger.Warn("failed to publish event", logger.EventType(string(event.EventType())), logger.Err(err))
	}
}
