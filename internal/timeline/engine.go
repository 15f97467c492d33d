package timeline

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/rendersync/internal/diagrams"
	"github.com/nguyentantai21042004/rendersync/internal/timing"
)

// Build computes the render timeline for one narration. Malformed word
// timing is the only fatal failure; everything in the diagram path degrades
// to fewer (or zero) diagram assignments while captions and highlights are
// still produced.
func (e *implEngine) Build(ctx context.Context, input Input) (*RenderTimeline, error) {
	entries, wordLevel, err := e.resolveTiming(input)
	if err != nil {
		return nil, err
	}

	segments := e.segmenter.Segment(entries)
	highlights := e.scheduler.Schedule(segments)
	e.logger.Debug(ctx, "Built %d caption segments, %d highlight windows", len(segments), len(highlights))

	var assignments []diagrams.Assignment
	if wordLevel {
		windows := e.detector.Detect(entries)
		if len(windows) == 0 {
			e.logger.Info(ctx, "No architecture keywords found, skipping diagram overlays")
		} else {
			assignments = e.assigner.Assign(ctx, windows, input.Assets, input.Text)
			e.logger.Info(ctx, "Assigned %d diagram overlay(s) across %d window(s)", len(assignments), len(windows))
		}
	} else {
		// Sentence-level estimates carry no usable per-word positions, so
		// keyword detection is skipped on the estimation path.
		e.logger.Debug(ctx, "Estimated timing in use, diagram detection skipped")
	}

	return &RenderTimeline{
		Segments:   segments,
		Highlights: highlights,
		Diagrams:   assignments,
	}, nil
}

// resolveTiming picks the timing authority: validated real word timing when
// supplied, otherwise a sentence-level estimate from the narration text and
// total duration. The bool reports whether timing is word-level.
func (e *implEngine) resolveTiming(input Input) ([]timing.WordTiming, bool, error) {
	if len(input.WordTimings) > 0 {
		words, err := timing.Normalize(input.WordTimings)
		if err != nil {
			return nil, false, fmt.Errorf("normalize word timings: %w", err)
		}
		return words, true, nil
	}

	if input.DurationMS <= 0 {
		return nil, false, fmt.Errorf("%w: neither word timings nor audio duration supplied", timing.ErrInvalidTiming)
	}

	return timing.EstimateFromText(input.Text, input.DurationMS), false, nil
}
