// Package student contains the student aggregate of the registration system.
//
// A Student knows which courses it holds. The course side keeps the mirror
// set (see package course), and the two are only ever changed together:
//
//	s := student.NewStudent(1, "John Doe")
//	c, _ := course.NewCourse("CSC101", "Introduction to Programming", "", 50, "")
//
//	if err := s.TryEnroll(c); err != nil {
//	    // shared.ErrAlreadyEnrolled or shared.ErrCourseFull, nothing changed
//	}
//
//	if err := s.TryDrop(c); err != nil {
//	    // shared.ErrNotEnrolled, nothing changed
//	}
//
// # Consistency
//
// TryEnroll asks the course for a seat before recording the course on the
// student, so a refused request never leaves a one-sided edge behind.
// TryDrop releases the seat first and forgets the course only once the
// course confirmed the release.
//
// Neither side stores a pointer to the other; lookups go through the
// registry (package registration), which owns every entity by identifier.
package student
