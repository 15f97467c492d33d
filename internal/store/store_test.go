package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenBootstrapsSchema(t *testing.T) {
	s := openTestStore(t)

	var name string
	err := s.conn.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='jobs'",
	).Scan(&name)
	if err != nil {
		t.Errorf("jobs table not found: %v", err)
	}
}

func TestOpenIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	s2.Close()
}

func TestRecordAndListJobs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	jobs := []Job{
		{Name: "intro", InputPath: "in/intro.job.json", OutputPath: "out/intro.timeline.json", WordCount: 120, SegmentCount: 24, DiagramCount: 2, Status: StatusComplete, DurationMS: 340},
		{Name: "broken", InputPath: "in/broken.job.json", Status: StatusError, Error: "invalid word timing"},
	}
	for _, j := range jobs {
		if err := s.RecordJob(ctx, j); err != nil {
			t.Fatalf("RecordJob(%s) error = %v", j.Name, err)
		}
	}

	got, err := s.RecentJobs(ctx, 10)
	if err != nil {
		t.Fatalf("RecentJobs() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d jobs, want 2", len(got))
	}

	byName := map[string]Job{}
	for _, j := range got {
		if j.ID == "" {
			t.Errorf("job %s has no generated id", j.Name)
		}
		byName[j.Name] = j
	}
	if byName["intro"].DiagramCount != 2 {
		t.Errorf("intro diagram count = %d, want 2", byName["intro"].DiagramCount)
	}
	if byName["broken"].Status != StatusError || byName["broken"].Error == "" {
		t.Errorf("broken job = %+v, want error status with message", byName["broken"])
	}
}

func TestRecentJobsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.RecordJob(ctx, Job{Name: "job", InputPath: "in", Status: StatusComplete}); err != nil {
			t.Fatalf("RecordJob() error = %v", err)
		}
	}

	got, err := s.RecentJobs(ctx, 3)
	if err != nil {
		t.Fatalf("RecentJobs() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d jobs, want 3", len(got))
	}
}
