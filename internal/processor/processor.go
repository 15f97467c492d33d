package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/rendersync/internal/report"
	"github.com/nguyentantai21042004/rendersync/internal/store"
	"github.com/nguyentantai21042004/rendersync/internal/timeline"
)

// Process runs one narration job end to end: parse the job file, build the
// render timeline, write it next to the optional storyboard, record the job
// and archive the input.
func (p *implProcessor) Process(ctx context.Context, jobPath string) error {
	startTime := time.Now()
	name := jobName(jobPath)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting job: %s", jobPath)
	p.logger.Info(ctx, "========================================")

	input, err := readJob(jobPath)
	if err != nil {
		p.recordFailure(ctx, name, jobPath, err)
		return fmt.Errorf("read job: %w", err)
	}

	// Generated diagrams only make sense with real word-level timing; the
	// estimation path never schedules them.
	if len(input.Assets) == 0 && p.assets != nil && len(input.WordTimings) > 0 {
		input.Assets = p.assets.PrepareAssets(ctx, input.Text)
		p.logger.Info(ctx, "Prepared %d diagram asset(s)", len(input.Assets))
	}

	tl, err := p.engine.Build(ctx, input)
	if err != nil {
		p.recordFailure(ctx, name, jobPath, err)
		return fmt.Errorf("build timeline: %w", err)
	}

	outputPath := filepath.Join(p.cfg.Paths.Output, name+".timeline.json")
	if err := writeTimeline(tl, outputPath); err != nil {
		p.recordFailure(ctx, name, jobPath, err)
		return fmt.Errorf("write timeline: %w", err)
	}

	if p.cfg.Report.Storyboard {
		storyboardPath := filepath.Join(p.cfg.Paths.Output, name+".storyboard.docx")
		if err := report.WriteStoryboard(name, tl, storyboardPath); err != nil {
			p.logger.Warn(ctx, "Failed to write storyboard: %v", err)
		}
	}

	duration := time.Since(startTime)
	if p.store != nil {
		job := store.Job{
			Name:         name,
			InputPath:    jobPath,
			OutputPath:   outputPath,
			WordCount:    len(input.WordTimings),
			SegmentCount: len(tl.Segments),
			DiagramCount: len(tl.Diagrams),
			Status:       store.StatusComplete,
			DurationMS:   duration.Milliseconds(),
		}
		if err := p.store.RecordJob(ctx, job); err != nil {
			p.logger.Warn(ctx, "Failed to record job: %v", err)
		}
	}

	if err := p.moveToArchived(ctx, jobPath); err != nil {
		p.logger.Warn(ctx, "Failed to move job to archived folder: %v", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Job completed successfully!")
	p.logger.Info(ctx, "Timeline: %s", outputPath)
	p.logger.Info(ctx, "Segments: %d, highlights: %d, diagrams: %d",
		len(tl.Segments), len(tl.Highlights), len(tl.Diagrams))
	p.logger.Info(ctx, "Processing time: %s", duration)
	p.logger.Info(ctx, "========================================")

	return nil
}

// recordFailure writes an error record for the job; history must never mask
// the original failure.
func (p *implProcessor) recordFailure(ctx context.Context, name, jobPath string, cause error) {
	if p.store == nil {
		return
	}
	job := store.Job{
		Name:      name,
		InputPath: jobPath,
		Status:    store.StatusError,
		Error:     cause.Error(),
	}
	if err := p.store.RecordJob(ctx, job); err != nil {
		p.logger.Warn(ctx, "Failed to record job failure: %v", err)
	}
}

// moveToArchived moves a processed job file out of the input directory so the
// watcher never picks it up twice.
func (p *implProcessor) moveToArchived(ctx context.Context, jobPath string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived directory: %w", err)
	}

	target := filepath.Join(p.cfg.Paths.Archived, filepath.Base(jobPath))
	if err := os.Rename(jobPath, target); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}

	p.logger.Debug(ctx, "Archived job file: %s", target)
	return nil
}

func readJob(path string) (timeline.Input, error) {
	var input timeline.Input

	data, err := os.ReadFile(path)
	if err != nil {
		return input, err
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("parse job file: %w", err)
	}
	return input, nil
}

func writeTimeline(tl *timeline.RenderTimeline, path string) error {
	data, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal timeline: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// jobName strips the .json extension and an optional .job suffix, so
// "intro.job.json" and "intro.json" both become "intro".
func jobName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	return strings.TrimSuffix(name, ".job")
}
