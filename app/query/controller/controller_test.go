package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap/zaptest"

	"github.com/brightlake/brightlake/app/query/types"
	"github.com/brightlake/brightlake/pkg/docstore"
	"github.com/brightlake/brightlake/pkg/models"
)

// fakeReader serves canned collections.
type fakeReader struct {
	collections map[string][]bson.M
	summary     []bson.M
	countErr    error
}

func (f *fakeReader) All(_ context.Context, collection string) ([]bson.M, error) {
	docs, ok := f.collections[collection]
	if !ok {
		return []bson.M{}, nil
	}
	return docs, nil
}

func (f *fakeReader) Filter(_ context.Context, collection string, filter bson.M) ([]bson.M, error) {
	var out []bson.M
	for _, doc := range f.collections[collection] {
		match := true
		for k, v := range filter {
			if doc[k] != v {
				match = false
				break
			}
		}
		if match {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *fakeReader) FindByCustomerID(_ context.Context, collection string, customerID int64) (bson.M, error) {
	for _, doc := range f.collections[collection] {
		if doc["customer_id"] == customerID {
			return doc, nil
		}
	}
	return nil, docstore.ErrNotFound
}

func (f *fakeReader) Count(_ context.Context, collection string) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.collections[collection])), nil
}

func (f *fakeReader) SegmentSummary(_ context.Context) ([]bson.M, error) {
	return f.summary, nil
}

func newTestRouter(t *testing.T, reader *fakeReader) http.Handler {
	t.Helper()
	app := &types.App{Docs: reader, Logger: zaptest.NewLogger(t)}
	return NewController(app).NewRouter()
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	handler := newTestRouter(t, &fakeReader{collections: map[string][]bson.M{}})
	rec := get(t, handler, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	handler = newTestRouter(t, &fakeReader{countErr: errors.New("connection refused")})
	rec = get(t, handler, "/health")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRevenueEndpoints(t *testing.T) {
	reader := &fakeReader{collections: map[string][]bson.M{
		models.CollectionRevenueByCountry: {
			{"country": "France", "total_revenue": 150.0, "total_purchases": int64(3)},
		},
		models.CollectionMonthlyRevenue: {
			{"month": "2024-01", "total_revenue": 100.0},
			{"month": "2024-02", "total_revenue": 50.0},
		},
	}}
	handler := newTestRouter(t, reader)

	rec := get(t, handler, "/revenue/country")
	require.Equal(t, http.StatusOK, rec.Code)
	var countries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &countries))
	require.Len(t, countries, 1)
	assert.Equal(t, "France", countries[0]["country"])

	rec = get(t, handler, "/revenue/monthly")
	require.Equal(t, http.StatusOK, rec.Code)
	var months []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &months))
	assert.Len(t, months, 2)

	// an unpublished collection serves an empty list, not an error
	rec = get(t, handler, "/revenue/product")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCustomerByID(t *testing.T) {
	reader := &fakeReader{collections: map[string][]bson.M{
		models.CollectionCustomerMetrics: {
			{"customer_id": int64(7), "name": "Alice Adams", "total_spent": 150.0},
		},
	}}
	handler := newTestRouter(t, reader)

	rec := get(t, handler, "/customers/7")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Alice Adams", doc["name"])

	rec = get(t, handler, "/customers/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, handler, "/customers/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKPIs(t *testing.T) {
	reader := &fakeReader{collections: map[string][]bson.M{
		models.CollectionRevenueByCountry: {
			{"country": "France", "total_revenue": 150.0, "total_purchases": int64(3)},
			{"country": "Japan", "total_revenue": 50.0, "total_purchases": int64(1)},
		},
		models.CollectionCustomerMetrics: {
			{"customer_id": int64(1), "purchase_count": int64(4)},
			{"customer_id": int64(2), "purchase_count": int64(0)},
		},
	}}
	handler := newTestRouter(t, reader)

	rec := get(t, handler, "/kpis")
	require.Equal(t, http.StatusOK, rec.Code)

	var kpis map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kpis))
	assert.Equal(t, 200.0, kpis["total_revenue"])
	assert.Equal(t, 4.0, kpis["total_purchases"])
	assert.Equal(t, 2.0, kpis["total_customers"])
	assert.Equal(t, 1.0, kpis["active_customers"])
	assert.Equal(t, 50.0, kpis["avg_order_value"])
	assert.Equal(t, 100.0, kpis["revenue_per_customer"])
}

func TestHighRiskChurnFilters(t *testing.T) {
	reader := &fakeReader{collections: map[string][]bson.M{
		models.CollectionChurnPredictions: {
			{"customer_id": int64(1), "churn_risk_level": "High"},
			{"customer_id": int64(2), "churn_risk_level": "Low"},
			{"customer_id": int64(3), "churn_risk_level": "High"},
		},
	}}
	handler := newTestRouter(t, reader)

	rec := get(t, handler, "/ml/churn/high-risk")
	require.Equal(t, http.StatusOK, rec.Code)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	assert.Len(t, docs, 2)
}

func TestSegmentSummary(t *testing.T) {
	reader := &fakeReader{
		collections: map[string][]bson.M{},
		summary: []bson.M{
			{"segment_name": "Champions", "customers": int64(10)},
			{"segment_name": "Lost", "customers": int64(4)},
		},
	}
	handler := newTestRouter(t, reader)

	rec := get(t, handler, "/ml/segments/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "Champions", docs[0]["segment_name"])
}

func TestCORSPreflight(t *testing.T) {
	handler := WithCORS(newTestRouter(t, &fakeReader{collections: map[string][]bson.M{}}))

	req := httptest.NewRequest(http.MethodOptions, "/customers", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
