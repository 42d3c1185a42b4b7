package gateways

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

var _ ports.BillingGateway = (*BillingClient)(nil)

// BillingClient calls the external billing service to price an order and
// issue its invoice.
type BillingClient struct {
	client httpClient
	logger *slog.Logger
}

func NewBillingClient(baseURL string, timeout time.Duration, retry RetryConfig, logger *slog.Logger) *BillingClient {
	return &BillingClient{
		client: newHTTPClient(baseURL, timeout, retry),
		logger: logger.With("component", "billing_gateway"),
	}
}

type invoiceRequestBody struct {
	OrderID      string  `json:"order_id"`
	CustomerID   string  `json:"customer_id"`
	DeliveryType string  `json:"delivery_type"`
	Modality     string  `json:"modality"`
	WeightKg     float64 `json:"weight_kg"`
	DistanceKm   float64 `json:"distance_km"`
}

type invoiceResponseBody struct {
	InvoiceID string  `json:"invoice_id"`
	Fare      float64 `json:"fare"`
}

func (c *BillingClient) CreateInvoice(ctx context.Context, request ports.InvoiceRequest) (ports.Invoice, error) {
	body := invoiceRequestBody{
		OrderID:      request.OrderID,
		CustomerID:   request.CustomerID,
		DeliveryType: request.DeliveryType,
		Modality:     request.Modality,
		WeightKg:     request.WeightKg,
		DistanceKm:   request.DistanceKm,
	}

	var resp invoiceResponseBody
	if err := c.client.postJSON(ctx, "/invoices", body, &resp); err != nil {
		c.logger.Warn("invoice request failed", "order_id", request.OrderID, "error", err)
		return ports.Invoice{}, errs.NewUpstreamUnavailableError("billing service", err)
	}

	return ports.Invoice{InvoiceID: resp.InvoiceID, Fare: resp.Fare}, nil
}
