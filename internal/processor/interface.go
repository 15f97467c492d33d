package processor

import (
	"context"

	"github.com/nguyentantai21042004/rendersync/internal/diagrams"
)

// Processor defines the interface for narration job processing
type Processor interface {
	Process(ctx context.Context, jobPath string) error
}

// AssetPreparer supplies the pre-rendered diagram pool for one narration.
// A nil preparer means jobs run without generated assets.
type AssetPreparer interface {
	PrepareAssets(ctx context.Context, text string) []diagrams.Asset
}
