package gateways

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

var _ ports.FleetGateway = (*FleetClient)(nil)

// FleetClient asks the external fleet service for a synchronous assignment
// offer. A well-formed "no capacity" answer is not an error: the async
// matching path takes over.
type FleetClient struct {
	client httpClient
	logger *slog.Logger
}

func NewFleetClient(baseURL string, timeout time.Duration, retry RetryConfig, logger *slog.Logger) *FleetClient {
	return &FleetClient{
		client: newHTTPClient(baseURL, timeout, retry),
		logger: logger.With("component", "fleet_gateway"),
	}
}

type assignmentRequestBody struct {
	OrderID      string  `json:"order_id"`
	Modality     string  `json:"modality"`
	DeliveryType string  `json:"delivery_type"`
	WeightKg     float64 `json:"weight_kg"`
	OriginCity   string  `json:"origin_city"`
	DestCity     string  `json:"dest_city"`
	Priority     int     `json:"priority"`
}

type assignmentResponseBody struct {
	Assigned    bool   `json:"assigned"`
	CourierID   string `json:"courier_id"`
	VehicleID   string `json:"vehicle_id"`
	CourierName string `json:"courier_name"`
	Plate       string `json:"plate"`
}

func (c *FleetClient) RequestAssignment(ctx context.Context, request ports.AssignmentRequest) (ports.AssignmentOffer, error) {
	body := assignmentRequestBody{
		OrderID:      request.OrderID,
		Modality:     request.Modality,
		DeliveryType: request.DeliveryType,
		WeightKg:     request.WeightKg,
		OriginCity:   request.OriginCity,
		DestCity:     request.DestCity,
		Priority:     request.Priority,
	}

	var resp assignmentResponseBody
	if err := c.client.postJSON(ctx, "/assignments", body, &resp); err != nil {
		c.logger.Warn("assignment request failed", "order_id", request.OrderID, "error", err)
		return ports.AssignmentOffer{}, errs.NewUpstreamUnavailableError("fleet service", err)
	}

	return ports.AssignmentOffer{
		Assigned:    resp.Assigned,
		CourierID:   resp.CourierID,
		VehicleID:   resp.VehicleID,
		CourierName: resp.CourierName,
		Plate:       resp.Plate,
	}, nil
}
