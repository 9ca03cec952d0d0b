// Package console is the interactive menu in front of the registry.
// It owns all input parsing; the core only ever sees typed identifiers.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alem-hub/course-registration/internal/application/command"
	"github.com/alem-hub/course-registration/internal/application/query"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/pkg/logger"
)

// Menu choices.
const (
	ChoiceListCourses  = 1
	ChoiceListStudents = 2
	ChoiceRegister     = 3
	ChoiceDrop         = 4
	ChoiceExit         = 5
)

// errEndOfInput ends the loop when stdin closes mid-prompt.
var errEndOfInput = errors.New("console: end of input")

// Handlers groups the application handlers the shell drives.
type Handlers struct {
	Enroll   *command.EnrollCourseHandler
	Drop     *command.DropCourseHandler
	Courses  *query.ListCoursesHandler
	Students *query.ListStudentsHandler
}

// Shell reads menu choices from in and writes results to out.
type Shell struct {
	in       *bufio.Scanner
	out      io.Writer
	handlers Handlers
	logger   *slog.Logger
	writeErr error
}

// NewShell creates a shell over the given streams.
func NewShell(in io.Reader, out io.Writer, handlers Handlers, log *slog.Logger) *Shell {
	if log == nil {
		log = slog.Default()
	}
	return &Shell{
		in:       bufio.NewScanner(in),
		out:      out,
		handlers: handlers,
		logger:   log.With(logger.Component("console")),
	}
}

// Run loops until the user exits, input ends, or ctx is canceled.
// Only read/write failures and cancellation are returned as errors.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.print(Menu)
		s.print(PromptChoice)

		line, err := s.readLine()
		if err != nil {
			return s.finish(err)
		}

		choice, convErr := strconv.Atoi(line)
		if convErr != nil {
			choice = 0
		}

		switch choice {
		case ChoiceListCourses:
			err = s.listCourses(ctx)
		case ChoiceListStudents:
			err = s.listStudents(ctx)
		case ChoiceRegister:
			err = s.register(ctx)
		case ChoiceDrop:
			err = s.drop(ctx)
		case ChoiceExit:
			s.println(MsgExiting)
			return s.writeErr
		default:
			s.println(MsgInvalidChoice)
		}

		if err != nil {
			return s.finish(err)
		}
		if s.writeErr != nil {
			return s.writeErr
		}
	}
}

func (s *Shell) listCourses(ctx context.Context) error {
	res, err := s.handlers.Courses.Handle(ctx, query.ListCoursesQuery{})
	if err != nil {
		return err
	}
	s.print(FormatCourses(res.Courses))
	return nil
}

func (s *Shell) listStudents(ctx context.Context) error {
	res, err := s.handlers.Students.Handle(ctx, query.ListStudentsQuery{})
	if err != nil {
		return err
	}
	s.print(FormatStudents(res.Students))
	return nil
}

func (s *Shell) register(ctx context.Context) error {
	id, code, ok, err := s.readEdge()
	if err != nil || !ok {
		return err
	}

	res, err := s.handlers.Enroll.Handle(ctx, command.EnrollCourseCommand{StudentID: id, CourseCode: code})
	if err != nil {
		if shared.IsValidation(err) {
			s.println(MsgNotFound)
			return nil
		}
		return err
	}
	s.println(EnrollMessage(res.Outcome))
	return nil
}

func (s *Shell) drop(ctx context.Context) error {
	id, code, ok, err := s.readEdge()
	if err != nil || !ok {
		return err
	}

	res, err := s.handlers.Drop.Handle(ctx, command.DropCourseCommand{StudentID: id, CourseCode: code})
	if err != nil {
		if shared.IsValidation(err) {
			s.println(MsgNotFound)
			return nil
		}
		return err
	}
	s.println(DropMessage(res.Outcome))
	return nil
}

// readEdge prompts for a student id and a course code. ok is false when the
// id was rejected and the user has already been told.
func (s *Shell) readEdge() (shared.StudentID, shared.CourseCode, bool, error) {
	s.print(PromptStudentID)
	rawID, err := s.readLine()
	if err != nil {
		return 0, "", false, err
	}

	id, err := shared.ParseStudentID(rawID)
	if err != nil {
		s.logger.Debug("rejected student id", slog.String("input", rawID), logger.Err(err))
		s.println(MsgInvalidID)
		return 0, "", false, nil
	}

	s.print(PromptCourseCode)
	rawCode, err := s.readLine()
	if err != nil {
		return 0, "", false, err
	}

	// Only the first word is the code; an empty line stays empty and fails validation.
	var code shared.CourseCode
	if fields := strings.Fields(rawCode); len(fields) > 0 {
		code = shared.CourseCode(fields[0])
	}
	return id, code, true, nil
}

func (s *Shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("console: read input: %w", err)
		}
		return "", errEndOfInput
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// finish treats end of input as a normal exit.
func (s *Shell) finish(err error) error {
	if errors.Is(err, errEndOfInput) {
		s.println("")
		s.logger.Debug("input closed")
		return s.writeErr
	}
	return err
}

func (s *Shell) print(text string) {
	if s.writeErr != nil {
		return
	}
	if _, err := io.WriteString(s.out, text); err != nil {
		s.writeErr = fmt.Errorf("console: write output: %w", err)
	}
}

func (s *Shell) println(text string) {
	s.print(text + "\n")
}
