package timeline

import "context"

// Engine computes the synchronized render timeline for one narration job.
type Engine interface {
	Build(ctx context.Context, input Input) (*RenderTimeline, error)
}
