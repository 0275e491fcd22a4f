package commands

import (
	"context"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/keylayout"
	"github.com/trackerlab/keylogic/pkg/storage"
)

// loadOracle reads a static oracle file; an empty uri treats every
// location as accessible.
func loadOracle(ctx context.Context, uri string) (keylayout.StaticOracle, error) {
	if uri == "" {
		return keylayout.StaticOracle{Default: access.Normal}, nil
	}
	raw, err := storage.Fetch(ctx, uri)
	if err != nil {
		return keylayout.StaticOracle{}, err
	}
	return keylayout.ParseOracle(raw)
}
