package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brightlake/brightlake/app/query/types"
)

type Controller struct {
	App *types.App
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{
		App: app,
	}
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/health", http.HandlerFunc(c.HandleHealth)).Methods("GET")

	r.HandleFunc("/revenue/country", c.RevenueByCountry).Methods("GET")
	r.HandleFunc("/revenue/product", c.RevenueByProduct).Methods("GET")
	r.HandleFunc("/revenue/monthly", c.MonthlyRevenue).Methods("GET")

	r.HandleFunc("/customers", c.Customers).Methods("GET")
	r.HandleFunc("/customers/{id}", c.Customer).Methods("GET")
	r.HandleFunc("/kpis", c.KPIs).Methods("GET")

	r.HandleFunc("/ml/segments", c.Segments).Methods("GET")
	r.HandleFunc("/ml/segments/summary", c.SegmentSummary).Methods("GET")
	r.HandleFunc("/ml/churn", c.ChurnPredictions).Methods("GET")
	r.HandleFunc("/ml/churn/high-risk", c.HighRiskChurn).Methods("GET")
	r.HandleFunc("/ml/clv", c.ValuePredictions).Methods("GET")
	r.HandleFunc("/ml/model-metrics", c.ModelMetrics).Methods("GET")

	return r
}

// WithCORS wraps a handler with permissive CORS headers for the dashboard.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodOptions)

		// Fast-path the preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (c *Controller) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// collection responds with the full contents of one published collection.
func (c *Controller) collection(w http.ResponseWriter, r *http.Request, name string) {
	docs, err := c.App.Docs.All(r.Context(), name)
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, err)
		return
	}
	c.writeJSON(w, docs)
}
