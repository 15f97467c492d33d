package diagrams

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/rendersync/internal/logger"
)

// Asset is an opaque handle (path or id) to a rendered diagram image. The
// bytes are owned by the generation collaborator; this engine only decides
// which handle shows when.
type Asset string

// Assignment pairs a display window with the asset and label to show.
type Assignment struct {
	Window Window `json:"window"`
	Asset  Asset  `json:"asset"`
	Label  string `json:"label"`
}

// Generator produces a topic-specific diagram asset for a keyword window.
// Implementations call external services; they must honor ctx cancellation
// and may take up to the assigner's per-request timeout.
type Generator interface {
	GenerateTopicAsset(ctx context.Context, keywords []string, contextText string) (Asset, error)
}

// Assigner maps rendered assets onto keyword windows under the cap and
// fallback policy.
type Assigner struct {
	gen           Generator
	logger        logger.Logger
	ContextWords  int           // excerpt radius around each keyword
	Timeout       time.Duration // per generation request
	MaxConcurrent int           // concurrent generation requests
}

// NewAssigner creates an Assigner. gen may be nil, which disables
// topic-specific generation and leaves only round-robin and fallback.
func NewAssigner(gen Generator, log logger.Logger, timeout time.Duration, maxConcurrent int) *Assigner {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &Assigner{
		gen:           gen,
		logger:        log,
		ContextWords:  50,
		Timeout:       timeout,
		MaxConcurrent: maxConcurrent,
	}
}

// Assign gives every window exactly one asset and a label:
//
//  1. Pre-rendered assets are distributed round-robin so a small pool covers
//     all windows.
//  2. Windows beyond the pool request a topic-specific asset scoped to their
//     keywords plus a narration excerpt; a success overrides the tentative
//     round-robin pick.
//  3. A window with no asset falls back to the first rendered one; when none
//     exist at all it is dropped.
//
// Generation requests run concurrently under a semaphore, each with its own
// timeout. One failed request degrades only its own window; there is no
// retry. Results are merged back in window order regardless of completion
// order.
func (a *Assigner) Assign(ctx context.Context, windows []Window, rendered []Asset, narration string) []Assignment {
	if len(windows) == 0 {
		return nil
	}

	generated := make([]Asset, len(windows))
	if a.gen != nil && len(windows) > len(rendered) {
		a.generateTopicAssets(ctx, windows, len(rendered), narration, generated)
	}

	assignments := make([]Assignment, 0, len(windows))
	for i, win := range windows {
		var asset Asset
		if len(rendered) > 0 {
			asset = rendered[i%len(rendered)]
		}
		if i >= len(rendered) && generated[i] != "" {
			asset = generated[i]
		}
		if asset == "" {
			if len(rendered) == 0 {
				a.logger.Warn(ctx, "No asset available for diagram window %d, dropping it", i)
				continue
			}
			asset = rendered[0]
		}

		assignments = append(assignments, Assignment{
			Window: win,
			Asset:  asset,
			Label:  windowLabel(win.Keywords),
		})
	}

	return assignments
}

// generateTopicAssets fans out one generation request per window at index >=
// firstIndex, bounded by MaxConcurrent, and writes successes into generated
// by window index. Only the read-only narration and rendered pool cross task
// boundaries.
func (a *Assigner) generateTopicAssets(ctx context.Context, windows []Window, firstIndex int, narration string, generated []Asset) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.MaxConcurrent)

	for i := firstIndex; i < len(windows); i++ {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			reqCtx, cancel := context.WithTimeout(ctx, a.Timeout)
			defer cancel()

			excerpt := topicContext(windows[i].Keywords, narration, a.ContextWords)
			asset, err := a.gen.GenerateTopicAsset(reqCtx, windows[i].Keywords, excerpt)
			if err != nil {
				a.logger.Warn(ctx, "Topic asset generation failed for window %d (keywords %v): %v",
					i, windows[i].Keywords, err)
				return
			}
			generated[i] = asset
		}(i)
	}

	wg.Wait()
}

// windowLabel builds the human-readable overlay label from the first two
// keywords.
func windowLabel(keywords []string) string {
	head := keywords
	if len(head) > 2 {
		head = head[:2]
	}
	return "Architecture: " + strings.Join(head, ", ")
}
