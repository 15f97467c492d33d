package timeline

import (
	"github.com/nguyentantai21042004/rendersync/internal/captions"
	"github.com/nguyentantai21042004/rendersync/internal/diagrams"
	"github.com/nguyentantai21042004/rendersync/internal/timing"
)

// Input carries everything the engine needs for one run. WordTimings and
// DurationMS are mutually exclusive timing authorities: real per-word timing
// from the speech synthesizer wins when present; otherwise timing is
// estimated from Text and DurationMS at sentence granularity. Assets is the
// pool of already-rendered diagram handles, which may be empty.
type Input struct {
	Text        string              `json:"text"`
	WordTimings []timing.WordTiming `json:"word_timings,omitempty"`
	DurationMS  int64               `json:"duration_ms,omitempty"`
	Assets      []diagrams.Asset    `json:"assets,omitempty"`
}

// RenderTimeline is the engine's sole output, consumed by the compositor:
// the background loop is dimmed while any diagram window is active, diagram
// overlays sit above it, and captions render topmost.
type RenderTimeline struct {
	Segments   []captions.Segment    `json:"segments"`
	Highlights []captions.Highlight  `json:"highlights"`
	Diagrams   []diagrams.Assignment `json:"diagrams"`
}
