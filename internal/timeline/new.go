package timeline

import (
	"time"

	"github.com/nguyentantai21042004/rendersync/internal/captions"
	"github.com/nguyentantai21042004/rendersync/internal/config"
	"github.com/nguyentantai21042004/rendersync/internal/diagrams"
	"github.com/nguyentantai21042004/rendersync/internal/logger"
)

type implEngine struct {
	segmenter *captions.Segmenter
	scheduler *captions.Scheduler
	detector  *diagrams.Detector
	assigner  *diagrams.Assigner
	logger    logger.Logger
}

// New creates an Engine from the validated config. gen is the diagram
// generation collaborator and may be nil, in which case windows beyond the
// pre-rendered asset pool fall back or drop.
func New(cfg *config.Config, gen diagrams.Generator, log logger.Logger) Engine {
	return &implEngine{
		segmenter: captions.NewSegmenter(
			cfg.Captions.GroupSize,
			cfg.Captions.MaxLines,
			cfg.Captions.LineWidth,
		),
		scheduler: captions.NewScheduler(
			cfg.Captions.TrailingHoldS,
			cfg.Captions.MinHighlightS,
		),
		detector: diagrams.NewDetector(
			cfg.Diagrams.Keywords,
			cfg.Diagrams.LookaheadWords,
			cfg.Diagrams.MergeWindowS,
			cfg.Diagrams.MinDurationS,
			cfg.Diagrams.MaxWindows,
		),
		assigner: diagrams.NewAssigner(
			gen,
			log,
			time.Duration(cfg.Diagrams.GenerationTimeoutS)*time.Second,
			cfg.Diagrams.MaxConcurrent,
		),
		logger: log,
	}
}
