// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"strconv"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentID is the unique integer identifier of a student.
type StudentID int

// Int returns the underlying int value.
func (s StudentID) Int() int {
	return int(s)
}

// String returns the decimal representation.
func (s StudentID) String() string {
	return strconv.Itoa(int(s))
}

// ParseStudentID parses a decimal student identifier as typed by a user.
func ParseStudentID(raw string) (StudentID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, WrapError("student", "Parse", ErrInvalidID, "student id must be an integer", err)
	}
	return StudentID(n), nil
}

// CourseCode identifies a course. Codes compare case-insensitively,
// so every lookup goes through Key.
type CourseCode string

// Key returns the canonical form used for indexing.
func (c CourseCode) Key() CourseCode {
	return CourseCode(strings.ToUpper(strings.TrimSpace(string(c))))
}

// Equal reports whether two codes name the same course.
func (c CourseCode) Equal(other CourseCode) bool {
	return c.Key() == other.Key()
}

// IsValid checks that the code is non-empty and has no inner whitespace.
func (c CourseCode) IsValid() bool {
	s := strings.TrimSpace(string(c))
	return s != "" && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the code as it was written.
func (c CourseCode) String() string {
	return string(c)
}

// NewCourseCode trims and validates a course code.
func NewCourseCode(raw string) (CourseCode, error) {
	code := CourseCode(strings.TrimSpace(raw))
	if !code.IsValid() {
		return "", ErrInvalidCourseCode
	}
	return code, nil
}
