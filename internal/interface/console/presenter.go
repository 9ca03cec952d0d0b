package console

import (
	"fmt"
	"strings"

	"github.com/alem-hub/course-registration/internal/application/query"
	"github.com/alem-hub/course-registration/internal/domain/registration"
)

// User-facing messages.
const (
	MsgRegistered    = "Course registration successful!"
	MsgFullOrHeld    = "Course is full or already registered."
	MsgNotFound      = "Student or Course not found."
	MsgDropped       = "Course dropped successfully!"
	MsgNotRegistered = "Student is not registered in this course."
	MsgInvalidChoice = "Invalid choice. Please try again."
	MsgInvalidID     = "Invalid student ID."
	MsgExiting       = "Exiting..."

	PromptStudentID  = "Enter Student ID: "
	PromptCourseCode = "Enter Course Code: "
	PromptChoice     = "Enter your choice: "
)

// Menu is printed before every choice.
const Menu = `
Course Registration System Menu:
1. Display Available Courses
2. Display Registered Students
3. Register for a Course
4. Drop a Course
5. Exit
`

// EnrollMessage maps an enroll outcome to the line shown to the user.
// Full and AlreadyEnrolled share one message.
func EnrollMessage(o registration.Outcome) string {
	switch o {
	case registration.OutcomeSuccess:
		return MsgRegistered
	case registration.OutcomeFull, registration.OutcomeAlreadyEnrolled:
		return MsgFullOrHeld
	default:
		return MsgNotFound
	}
}

// DropMessage maps a drop outcome to the line shown to the user.
func DropMessage(o registration.Outcome) string {
	switch o {
	case registration.OutcomeSuccess:
		return MsgDropped
	case registration.OutcomeNotEnrolled:
		return MsgNotRegistered
	default:
		return MsgNotFound
	}
}

// FormatCourses renders the course listing.
func FormatCourses(courses []query.CourseDTO) string {
	var sb strings.Builder
	sb.WriteString("Available Courses:\n")
	for _, c := range courses {
		fmt.Fprintf(&sb, "%s - Available Slots: %d\n", c.Display, c.AvailableSlots)
	}
	return sb.String()
}

// FormatStudents renders the student listing.
func FormatStudents(students []query.StudentDTO) string {
	var sb strings.Builder
	sb.WriteString("Registered Students:\n")
	for _, s := range students {
		sb.WriteString(s.Display)
		sb.WriteByte('\n')
	}
	return sb.String()
}
