// Package seed describes the courses and students a registrar session starts
// with, either from a YAML file or from the built-in sample catalog.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CourseSpec is one course entry in a catalog file.
type CourseSpec struct {
	Code        string `yaml:"code"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Capacity    int    `yaml:"capacity"`
	Schedule    string `yaml:"schedule"`
}

// StudentSpec is one student entry in a catalog file.
type StudentSpec struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// Catalog is the decoded form of a catalog file.
//
//	courses:
//	  - code: CSC101
//	    title: Introduction to Programming
//	    capacity: 50
//	students:
//	  - id: 1
//	    name: John Doe
type Catalog struct {
	Courses  []CourseSpec  `yaml:"courses"`
	Students []StudentSpec `yaml:"students"`
}

// ErrEmptyCatalog is returned when a file declares neither courses nor students.
var ErrEmptyCatalog = errors.New("seed: catalog has no courses or students")

// Sample returns the catalog used when no file is configured.
func Sample() Catalog {
	return Catalog{
		Courses: []CourseSpec{
			{Code: "CSC101", Title: "Introduction to Programming", Description: "Basic programming concepts", Capacity: 50, Schedule: "Mon/Wed/Fri 10:00-11:00"},
			{Code: "MAT201", Title: "Calculus", Description: "Mathematical analysis", Capacity: 40, Schedule: "Tue/Thu 13:00-14:30"},
			{Code: "ENG101", Title: "English Composition", Description: "Writing and communication skills", Capacity: 60, Schedule: "Mon/Wed 14:00-15:30"},
		},
		Students: []StudentSpec{
			{ID: 1, Name: "John Doe"},
			{ID: 2, Name: "Jane Doe"},
		},
	}
}

// LoadFile reads and decodes a catalog file.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("seed: open catalog: %w", err)
	}
	defer f.Close()

	cat, err := Decode(f)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Decode parses a catalog. Unknown keys are rejected so typos in a file
// do not silently drop data.
func Decode(r io.Reader) (Catalog, error) {
	var cat Catalog

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, ErrEmptyCatalog
		}
		return Catalog{}, fmt.Errorf("seed: decode catalog: %w", err)
	}

	if len(cat.Courses) == 0 && len(cat.Students) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}

	for i := range cat.Courses {
		cat.Courses[i].Code = strings.TrimSpace(cat.Courses[i].Code)
	}

	return cat, nil
}
