package service

import (
	"resourcegen/internal/service/generation"
	"resourcegen/internal/service/render"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewHealthService,
	NewResourceService,
	NewSnapshotService,
	generation.NewGenerator,
	render.NewRenderer,
)
