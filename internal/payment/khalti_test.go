package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinebook/internal/model"
)

func TestKhaltiInitiate(t *testing.T) {
	var got khaltiInitiateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/epayment/initiate/", r.URL.Path)
		assert.Equal(t, "Key secret-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(khaltiInitiateResponse{
			Pidx:       "pidx-123",
			PaymentURL: "https://pay.example/pidx-123",
		})
	}))
	defer srv.Close()

	g := NewKhaltiGateway(KhaltiConfig{
		BaseURL:    srv.URL,
		SecretKey:  "secret-key",
		ReturnURL:  "https://app.example/history",
		WebsiteURL: "https://app.example",
	}, srv.Client())

	intent, err := g.Initiate(context.Background(), &model.Booking{ID: 42, TotalPriceCents: 40000})
	require.NoError(t, err)
	assert.Equal(t, "pidx-123", intent.Ref)
	assert.Equal(t, "https://pay.example/pidx-123", intent.RedirectURL)

	assert.Equal(t, uint64(40000), got.Amount)
	assert.Equal(t, "42", got.PurchaseOrderID)
	assert.Equal(t, "https://app.example/history", got.ReturnURL)
}

func TestKhaltiInitiateIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(khaltiInitiateResponse{Pidx: "pidx-123"})
	}))
	defer srv.Close()

	g := NewKhaltiGateway(KhaltiConfig{BaseURL: srv.URL}, srv.Client())
	_, err := g.Initiate(context.Background(), &model.Booking{ID: 1})
	assert.Error(t, err)
}

func TestKhaltiVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/epayment/lookup/", r.URL.Path)
		var req khaltiLookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status := "Pending"
		if req.Pidx == "pidx-done" {
			status = "Completed"
		}
		json.NewEncoder(w).Encode(khaltiLookupResponse{Pidx: req.Pidx, Status: status})
	}))
	defer srv.Close()

	g := NewKhaltiGateway(KhaltiConfig{BaseURL: srv.URL}, srv.Client())

	res, err := g.Verify(context.Background(), "pidx-done")
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, "Completed", res.Status)

	res, err = g.Verify(context.Background(), "pidx-open")
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, "Pending", res.Status)
}

func TestKhaltiVerifyGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewKhaltiGateway(KhaltiConfig{BaseURL: srv.URL}, srv.Client())
	_, err := g.Verify(context.Background(), "pidx-missing")
	assert.Error(t, err)
}
