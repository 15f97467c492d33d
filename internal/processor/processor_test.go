package processor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/rendersync/internal/captions"
	"github.com/nguyentantai21042004/rendersync/internal/config"
	"github.com/nguyentantai21042004/rendersync/internal/diagrams"
	"github.com/nguyentantai21042004/rendersync/internal/logger"
	"github.com/nguyentantai21042004/rendersync/internal/store"
	"github.com/nguyentantai21042004/rendersync/internal/timeline"
	"github.com/nguyentantai21042004/rendersync/internal/timing"
)

type stubEngine struct {
	timeline *timeline.RenderTimeline
	err      error
	lastIn   timeline.Input
}

func (e *stubEngine) Build(ctx context.Context, in timeline.Input) (*timeline.RenderTimeline, error) {
	e.lastIn = in
	if e.err != nil {
		return nil, e.err
	}
	return e.timeline, nil
}

type stubPreparer struct {
	assets []diagrams.Asset
	calls  int
}

func (p *stubPreparer) PrepareAssets(ctx context.Context, text string) []diagrams.Asset {
	p.calls++
	return p.assets
}

func testSetup(t *testing.T) (*config.Config, *store.Store) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Paths: config.PathsConfig{
			Input:    filepath.Join(dir, "input"),
			Output:   filepath.Join(dir, "output"),
			Archived: filepath.Join(dir, "archived"),
			Temp:     filepath.Join(dir, "temp"),
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for _, d := range []string{cfg.Paths.Input, cfg.Paths.Output} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}

	s, err := store.Open(filepath.Join(dir, "jobs.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return cfg, s
}

func writeJobFile(t *testing.T, cfg *config.Config, name string, input timeline.Input) string {
	t.Helper()
	data, err := json.Marshal(input)
	if err != nil {
		t.Fatalf("marshal job: %v", err)
	}
	path := filepath.Join(cfg.Paths.Input, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write job file: %v", err)
	}
	return path
}

func TestProcessSuccess(t *testing.T) {
	cfg, s := testSetup(t)
	eng := &stubEngine{
		timeline: &timeline.RenderTimeline{
			Segments:   []captions.Segment{{Text: "hello world", StartMS: 0, EndMS: 1000}},
			Highlights: []captions.Highlight{{Word: "hello", StartS: 0, DurationS: 0.5}},
		},
	}
	prep := &stubPreparer{assets: []diagrams.Asset{"d0.png"}}
	p := New(cfg, eng, prep, s, logger.NewWithWriter(io.Discard, "error"))

	jobPath := writeJobFile(t, cfg, "intro.job.json", timeline.Input{
		Text: "hello world",
		WordTimings: []timing.WordTiming{
			{Word: "hello", StartMS: 0, EndMS: 500},
			{Word: "world", StartMS: 500, EndMS: 1000},
		},
	})

	if err := p.Process(context.Background(), jobPath); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	outPath := filepath.Join(cfg.Paths.Output, "intro.timeline.json")
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("timeline output missing: %v", err)
	}
	var tl timeline.RenderTimeline
	if err := json.Unmarshal(data, &tl); err != nil {
		t.Fatalf("timeline output not valid JSON: %v", err)
	}
	if len(tl.Segments) != 1 {
		t.Errorf("got %d segments in output, want 1", len(tl.Segments))
	}

	if prep.calls != 1 {
		t.Errorf("preparer called %d times, want 1", prep.calls)
	}
	if len(eng.lastIn.Assets) != 1 || eng.lastIn.Assets[0] != "d0.png" {
		t.Errorf("engine received assets %v, want [d0.png]", eng.lastIn.Assets)
	}

	if _, err := os.Stat(jobPath); !os.IsNotExist(err) {
		t.Error("job file was not moved out of the input directory")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Archived, "intro.job.json")); err != nil {
		t.Errorf("archived job file missing: %v", err)
	}

	jobs, err := s.RecentJobs(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentJobs() error = %v", err)
	}
	if len(jobs) != 1 || jobs[0].Status != store.StatusComplete || jobs[0].Name != "intro" {
		t.Errorf("recorded job = %+v, want complete job named intro", jobs)
	}
}

func TestProcessSkipsAssetPrepWithoutWordTimings(t *testing.T) {
	cfg, s := testSetup(t)
	eng := &stubEngine{timeline: &timeline.RenderTimeline{}}
	prep := &stubPreparer{assets: []diagrams.Asset{"d0.png"}}
	p := New(cfg, eng, prep, s, logger.NewWithWriter(io.Discard, "error"))

	jobPath := writeJobFile(t, cfg, "estimated.json", timeline.Input{
		Text:       "no word timings here",
		DurationMS: 4000,
	})

	if err := p.Process(context.Background(), jobPath); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if prep.calls != 0 {
		t.Errorf("preparer called %d times, want 0 for estimated timing", prep.calls)
	}
}

func TestProcessBuildFailureIsRecorded(t *testing.T) {
	cfg, s := testSetup(t)
	buildErr := errors.New("invalid word timing")
	p := New(cfg, &stubEngine{err: buildErr}, nil, s, logger.NewWithWriter(io.Discard, "error"))

	jobPath := writeJobFile(t, cfg, "broken.job.json", timeline.Input{Text: "x", DurationMS: 100})

	if err := p.Process(context.Background(), jobPath); !errors.Is(err, buildErr) {
		t.Fatalf("Process() error = %v, want wrapped build error", err)
	}

	// Failed jobs stay in the input directory for inspection.
	if _, err := os.Stat(jobPath); err != nil {
		t.Errorf("failed job file should remain: %v", err)
	}

	jobs, err := s.RecentJobs(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentJobs() error = %v", err)
	}
	if len(jobs) != 1 || jobs[0].Status != store.StatusError {
		t.Errorf("recorded jobs = %+v, want one error record", jobs)
	}
}

func TestProcessMalformedJobFile(t *testing.T) {
	cfg, s := testSetup(t)
	p := New(cfg, &stubEngine{timeline: &timeline.RenderTimeline{}}, nil, s, logger.NewWithWriter(io.Discard, "error"))

	path := filepath.Join(cfg.Paths.Input, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write job file: %v", err)
	}

	if err := p.Process(context.Background(), path); err == nil {
		t.Fatal("Process() succeeded on malformed job file")
	}
}

func TestProcessWritesStoryboard(t *testing.T) {
	cfg, s := testSetup(t)
	cfg.Report.Storyboard = true
	eng := &stubEngine{
		timeline: &timeline.RenderTimeline{
			Segments: []captions.Segment{{Text: "hello", StartMS: 0, EndMS: 800}},
		},
	}
	p := New(cfg, eng, nil, s, logger.NewWithWriter(io.Discard, "error"))

	jobPath := writeJobFile(t, cfg, "doc.job.json", timeline.Input{Text: "hello", DurationMS: 800})

	if err := p.Process(context.Background(), jobPath); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Output, "doc.storyboard.docx")); err != nil {
		t.Errorf("storyboard missing: %v", err)
	}
}

func TestJobName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"input/intro.job.json", "intro"},
		{"intro.json", "intro"},
		{"/abs/path/clip_01.job.json", "clip_01"},
	}
	for _, tt := range tests {
		if got := jobName(tt.path); got != tt.want {
			t.Errorf("jobName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
