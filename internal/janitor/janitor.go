package janitor

import (
	"log/slog"
	"time"

	"github.com/crucial707/fileserve/internal/filestore"
	"github.com/robfig/cron/v3"
)

// staleAfter is how old a temp file must be before the sweep removes it.
// Anything younger may still be an in-flight upload.
const staleAfter = time.Hour

// Run starts a background cron that sweeps orphaned upload temp files from
// the store on the given schedule (e.g. "@every 1h"). Returns the cron so
// the caller can Stop it; an invalid schedule is an error.
func Run(store *filestore.Store, schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		removed, err := store.SweepTemp(staleAfter)
		if err != nil {
			slog.Error("janitor: sweep failed", "error", err)
			return
		}
		if removed > 0 {
			slog.Info("janitor: removed stale temp files", "count", removed)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
