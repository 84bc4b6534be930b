package projection

import (
	"time"

	"github.com/louisbranch/trackspace/internal/storage"
)

// Applier applies event journal entries to projection stores.
type Applier struct {
	// Workspaces writes workspace read models.
	Workspaces storage.WorkspaceStore
	// Projects writes project read models.
	Projects storage.ProjectStore
	// Tasks writes task read models.
	Tasks storage.TaskStore
	// Users writes user read models.
	Users storage.UserStore
}

// ensureTimestamp normalizes timestamps so projections always persist UTC,
// defaulting to now for events that do not set time.
func ensureTimestamp(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now().UTC()
	}
	return ts.UTC()
}
