package processor

import (
	"github.com/nguyentantai21042004/rendersync/internal/config"
	"github.com/nguyentantai21042004/rendersync/internal/logger"
	"github.com/nguyentantai21042004/rendersync/internal/store"
	"github.com/nguyentantai21042004/rendersync/internal/timeline"
)

type implProcessor struct {
	cfg    *config.Config
	engine timeline.Engine
	assets AssetPreparer
	store  *store.Store
	logger logger.Logger
}

// New creates a new Processor instance. assets and st may be nil: jobs then
// run without generated diagrams and without history records.
func New(cfg *config.Config, eng timeline.Engine, assets AssetPreparer, st *store.Store, log logger.Logger) Processor {
	return &implProcessor{
		cfg:    cfg,
		engine: eng,
		assets: assets,
		store:  st,
		logger: log,
	}
}
