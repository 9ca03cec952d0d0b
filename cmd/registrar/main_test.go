package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SampleCatalogSession(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "json")

	var stdout, stderr bytes.Buffer
	input := strings.NewReader("1\n3\n1\nmat201\n3\n1\nMAT201\n2\n4\n2\nMAT201\n5\n")

	require.NoError(t, run(context.Background(), input, &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "Course{courseCode='CSC101', title='Introduction to Programming', description='Basic programming concepts', capacity=50, schedule='Mon/Wed/Fri 10:00-11:00'} - Available Slots: 50")
	assert.Contains(t, out, "Course{courseCode='ENG101', title='English Composition', description='Writing and communication skills', capacity=60, schedule='Mon/Wed 14:00-15:30'} - Available Slots: 60")
	assert.Contains(t, out, "Student{studentID=2, name='Jane Doe'}")
	assert.Equal(t, 1, strings.Count(out, "Course registration successful!"))
	assert.Contains(t, out, "Course is full or already registered.")
	assert.Contains(t, out, "Student is not registered in this course.")
	assert.True(t, strings.HasSuffix(out, "Exiting...\n"))

	logs := stderr.String()
	assert.Contains(t, logs, `"msg":"catalog imported"`)
	assert.Contains(t, logs, `"msg":"event bus metrics"`)
	assert.Contains(t, logs, `"outcome":"success"`)
}

func TestRun_CatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
courses:
  - code: PHY110
    title: Physics I
    description: Mechanics
    capacity: 1
    schedule: Tue
students:
  - id: 7
    name: Ada
`), 0o600))
	t.Setenv("CATALOG_PATH", path)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), strings.NewReader("1\n3\n7\nphy110\n1\n"), &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "Course{courseCode='PHY110', title='Physics I', description='Mechanics', capacity=1, schedule='Tue'} - Available Slots: 1")
	assert.Contains(t, out, "Course{courseCode='PHY110', title='Physics I', description='Mechanics', capacity=1, schedule='Tue'} - Available Slots: 0")
	assert.NotContains(t, out, "CSC101")
}

func TestRun_MissingCatalogFile(t *testing.T) {
	t.Setenv("CATALOG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")

	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_EmptyRegistryWithoutSamples(t *testing.T) {
	t.Setenv("FEATURE_CATALOG_SAMPLES", "false")

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), strings.NewReader("1\n3\n1\nCSC101\n"), &stdout, &bytes.Buffer{}))

	out := stdout.String()
	assert.Contains(t, out, "Available Courses:\n\n")
	assert.Contains(t, out, "Student or Course not found.")
}

func TestRun_CanceledContextIsNotAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, run(ctx, strings.NewReader("5\n"), &bytes.Buffer{}, &bytes.Buffer{}))
}

func TestRun_InvalidDatabaseURLIsNotRetried(t *testing.T) {
	t.Setenv("FEATURE_EVENTS_AUDIT_JOURNAL", "true")
	t.Setenv("DATABASE_URL", "postgres://registrar@localhost:notaport/registrar")

	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid database config")
}
