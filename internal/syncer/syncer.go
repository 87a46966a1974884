// Package syncer drives the incremental sync pipeline: decide which
// remote units are missing, fetch and parse them one at a time, merge
// the survivors into the stored tables, and persist. A unit that fails
// is logged and skipped; only storage failures abort a run.
package syncer

import (
	"go.uber.org/zap"

	"github.com/courtside-data/atp-cli/internal/dataset"
	"github.com/courtside-data/atp-cli/internal/render"
	"github.com/courtside-data/atp-cli/internal/scrape"
)

// Syncer holds the collaborators shared by the three sync flows.
// Units are processed sequentially; the dataset store is assumed to
// have a single writer, so callers must not run two syncs against the
// same dataset at once.
type Syncer struct {
	store    dataset.Store
	client   *scrape.Client
	renderer render.Renderer
	log      *zap.Logger
}

// New creates a Syncer. The renderer may be nil when bio sync is not
// used.
func New(store dataset.Store, client *scrape.Client, renderer render.Renderer) *Syncer {
	return &Syncer{
		store:    store,
		client:   client,
		renderer: renderer,
		log:      zap.L().With(zap.String("component", "syncer")),
	}
}
