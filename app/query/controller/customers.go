package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/brightlake/brightlake/pkg/docstore"
	"github.com/brightlake/brightlake/pkg/models"
)

// Customers returns the per-customer metrics table.
func (c *Controller) Customers(w http.ResponseWriter, r *http.Request) {
	c.collection(w, r, models.CollectionCustomerMetrics)
}

// Customer returns the metrics row for one customer id, or 404.
func (c *Controller) Customer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		c.writeError(w, http.StatusBadRequest, errors.New("customer id must be an integer"))
		return
	}

	doc, err := c.App.Docs.FindByCustomerID(r.Context(), models.CollectionCustomerMetrics, id)
	if errors.Is(err, docstore.ErrNotFound) {
		c.writeError(w, http.StatusNotFound, errors.New("customer not found"))
		return
	}
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, err)
		return
	}
	c.writeJSON(w, doc)
}
