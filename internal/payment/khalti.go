// Package payment contains payment gateway clients used to collect money
// for confirmed bookings.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"cinebook/internal/booking"
	"cinebook/internal/model"
)

// statusCompleted is the lookup status Khalti reports once money moved.
const statusCompleted = "Completed"

// KhaltiConfig holds the knobs needed to talk to the Khalti ePayment API.
type KhaltiConfig struct {
	BaseURL    string // e.g. https://a.khalti.com/api/v2
	SecretKey  string
	ReturnURL  string // where Khalti redirects the customer after paying
	WebsiteURL string
}

// KhaltiGateway implements booking.PaymentGateway on top of the Khalti
// ePayment REST API. Initiate creates a payment session and returns its
// pidx as the reference; Verify looks the pidx up and reports whether the
// payment completed.
type KhaltiGateway struct {
	cfg    KhaltiConfig
	client *http.Client
}

// NewKhaltiGateway returns a gateway using the given configuration. A nil
// client falls back to a default with a 10 second timeout.
func NewKhaltiGateway(cfg KhaltiConfig, client *http.Client) *KhaltiGateway {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &KhaltiGateway{cfg: cfg, client: client}
}

type khaltiInitiateRequest struct {
	ReturnURL         string `json:"return_url"`
	WebsiteURL        string `json:"website_url"`
	Amount            uint64 `json:"amount"`
	PurchaseOrderID   string `json:"purchase_order_id"`
	PurchaseOrderName string `json:"purchase_order_name"`
}

type khaltiInitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
}

type khaltiLookupRequest struct {
	Pidx string `json:"pidx"`
}

type khaltiLookupResponse struct {
	Pidx   string `json:"pidx"`
	Status string `json:"status"`
}

// Initiate registers a payment session for the booking and returns the
// session reference together with the URL the customer must visit to pay.
func (g *KhaltiGateway) Initiate(ctx context.Context, b *model.Booking) (*booking.PaymentIntent, error) {
	req := khaltiInitiateRequest{
		ReturnURL:         g.cfg.ReturnURL,
		WebsiteURL:        g.cfg.WebsiteURL,
		Amount:            uint64(b.TotalPriceCents),
		PurchaseOrderID:   strconv.FormatUint(b.ID, 10),
		PurchaseOrderName: fmt.Sprintf("booking #%d", b.ID),
	}

	var resp khaltiInitiateResponse
	if err := g.post(ctx, "/epayment/initiate/", req, &resp); err != nil {
		return nil, err
	}
	if resp.Pidx == "" || resp.PaymentURL == "" {
		return nil, fmt.Errorf("khalti initiate: incomplete response")
	}
	return &booking.PaymentIntent{Ref: resp.Pidx, RedirectURL: resp.PaymentURL}, nil
}

// Verify looks up the payment session behind ref and reports its outcome.
func (g *KhaltiGateway) Verify(ctx context.Context, ref string) (*booking.PaymentResult, error) {
	var resp khaltiLookupResponse
	if err := g.post(ctx, "/epayment/lookup/", khaltiLookupRequest{Pidx: ref}, &resp); err != nil {
		return nil, err
	}
	return &booking.PaymentResult{
		Completed: resp.Status == statusCompleted,
		Status:    resp.Status,
	}, nil
}

func (g *KhaltiGateway) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("khalti: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("khalti: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+g.cfg.SecretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("khalti: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("khalti: %s: unexpected status %d: %s", path, resp.StatusCode, snippet)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("khalti: %s: decode response: %w", path, err)
	}
	return nil
}
