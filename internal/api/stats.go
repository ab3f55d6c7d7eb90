package api

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/pulseboard/pulseboard/internal/storage"
)

func handleStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			g     errgroup.Group
			stats storage.Stats
		)

		g.Go(func() error {
			var err error
			stats.Total, err = deps.Store.CountRecords()
			return err
		})
		g.Go(func() error {
			var err error
			stats.Todos, err = deps.Store.CountByTodo(true)
			return err
		})
		g.Go(func() error {
			var err error
			stats.Notifications, err = deps.Store.CountByTodo(false)
			return err
		})
		g.Go(func() error {
			var err error
			stats.BySource, err = deps.Store.CountBySource()
			return err
		})

		if err := g.Wait(); err != nil {
			httpErrorDetails(w, http.StatusInternalServerError, "failed to fetch stats", err.Error())
			return
		}

		if stats.BySource == nil {
			stats.BySource = map[string]int{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    stats,
		})
	}
}
