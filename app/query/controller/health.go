package controller

import (
	"net/http"

	"github.com/brightlake/brightlake/pkg/models"
)

func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := c.App.Docs.Count(ctx, models.CollectionModelMetrics); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		c.writeJSON(w, map[string]string{"status": "errored", "error": "document store connection error"})
		return
	}

	c.writeJSON(w, map[string]string{"status": "ok"})
}
