// Package http exposes the REST surface: order intake, the read model, the
// lifecycle operations, and the assignment retry endpoint for operators.
package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler  commands.CreateOrderCommandHandler
	changeStatusHandler commands.ChangeOrderStatusCommandHandler
	retryHandler        commands.RetryAssignmentCommandHandler

	getOrderHandler        queries.GetOrderQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler

	verifier ports.TokenVerifier
}

// NewServer creates the HTTP server with the required command and query
// handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	retryHandler commands.RetryAssignmentCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	verifier ports.TokenVerifier,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		changeStatusHandler:    changeStatusHandler,
		retryHandler:           retryHandler,
		getOrderHandler:        getOrderHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
		verifier:               verifier,
	}
}

// RegisterRoutes mounts all endpoints on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	orders := e.Group("/api/v1/orders", authMiddleware(s.verifier))
	orders.POST("", s.CreateOrder)
	orders.GET("", s.GetActiveOrders)
	orders.GET("/:orderId", s.GetOrder)
	orders.POST("/:orderId/status", s.ChangeOrderStatus)
	orders.POST("/:orderId/cancel", s.CancelOrder)
	orders.POST("/:orderId/retry-assignment", s.RetryAssignment, requireRole(RoleOperations))
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type addressPayload struct {
	Street   string  `json:"street"`
	Number   string  `json:"number"`
	City     string  `json:"city"`
	Province string  `json:"province"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type createOrderRequest struct {
	CustomerID    string         `json:"customer_id"`
	Origin        addressPayload `json:"origin"`
	Destination   addressPayload `json:"destination"`
	Modality      string         `json:"modality"`
	DeliveryType  string         `json:"delivery_type"`
	WeightKg      float64        `json:"weight_kg"`
	ContactPhone  string         `json:"contact_phone"`
	RecipientName string         `json:"recipient_name"`
}

type orderResponse struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id"`
	Status         string    `json:"status"`
	Modality       string    `json:"modality"`
	DeliveryType   string    `json:"delivery_type"`
	Priority       int       `json:"priority"`
	WeightKg       float64   `json:"weight_kg"`
	OriginAddress  string    `json:"origin_address"`
	OriginCity     string    `json:"origin_city"`
	DestAddress    string    `json:"dest_address"`
	DestCity       string    `json:"dest_city"`
	ContactPhone   string    `json:"contact_phone,omitempty"`
	RecipientName  string    `json:"recipient_name,omitempty"`
	CourierID      *string   `json:"courier_id,omitempty"`
	VehicleID      *string   `json:"vehicle_id,omitempty"`
	InvoiceID      *string   `json:"invoice_id,omitempty"`
	CalculatedFare *float64  `json:"calculated_fare,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type activeOrderResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	Status       string    `json:"status"`
	Modality     string    `json:"modality"`
	DeliveryType string    `json:"delivery_type"`
	Priority     int       `json:"priority"`
	DestCity     string    `json:"dest_city"`
	CourierID    *string   `json:"courier_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type retryAssignmentRequest struct {
	Reason string `json:"reason"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid request body")
	}

	origin, err := toAddress(req.Origin)
	if err != nil {
		return writeError(c, err)
	}
	destination, err := toAddress(req.Destination)
	if err != nil {
		return writeError(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		req.CustomerID,
		origin,
		destination,
		order.Modality(req.Modality),
		order.DeliveryType(req.DeliveryType),
		req.WeightKg,
		req.ContactPhone,
		req.RecipientName,
	)
	if err != nil {
		return writeError(c, err)
	}

	accepted, err := s.createOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toOrderResponse(accepted))
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(c, err)
	}

	snapshot, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toSnapshotResponse(snapshot))
}

// GetActiveOrders handles GET /api/v1/orders.
func (s *Server) GetActiveOrders(c echo.Context) error {
	query, err := queries.NewGetActiveOrdersQuery(
		c.QueryParam("status"),
		c.QueryParam("customer"),
	)
	if err != nil {
		return writeError(c, err)
	}

	rows, err := s.getActiveOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	response := make([]activeOrderResponse, len(rows))
	for i, row := range rows {
		var courierID *string
		if row.CourierID != nil {
			id := row.CourierID.String()
			courierID = &id
		}

		response[i] = activeOrderResponse{
			ID:           row.ID.String(),
			CustomerID:   row.CustomerID,
			Status:       row.Status,
			Modality:     row.Modality,
			DeliveryType: row.DeliveryType,
			Priority:     row.Priority,
			DestCity:     row.DestCity,
			CourierID:    courierID,
			CreatedAt:    row.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// ChangeOrderStatus handles POST /api/v1/orders/:orderId/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}

	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid request body")
	}

	next, err := order.StatusFromString(req.Status)
	if err != nil {
		return writeError(c, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, next, currentPrincipal(c).Subject)
	if err != nil {
		return writeError(c, err)
	}

	if err := s.changeStatusHandler.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, order.Cancelled, currentPrincipal(c).Subject)
	if err != nil {
		return writeError(c, err)
	}

	if err := s.changeStatusHandler.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RetryAssignment handles POST /api/v1/orders/:orderId/retry-assignment.
func (s *Server) RetryAssignment(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}

	var req retryAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid request body")
	}

	cmd, err := commands.NewRetryAssignmentCommand(orderID, currentPrincipal(c).Subject, req.Reason)
	if err != nil {
		return writeError(c, err)
	}

	if err := s.retryHandler.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}

func toAddress(payload addressPayload) (kernel.Address, error) {
	point, err := kernel.NewGeoPoint(payload.Lat, payload.Lng)
	if err != nil {
		return kernel.Address{}, err
	}

	return kernel.NewAddress(payload.Street, payload.Number, payload.City, payload.Province, point)
}

func toOrderResponse(o *order.Order) orderResponse {
	var courierID, vehicleID *string
	if o.CourierID() != nil {
		id := o.CourierID().String()
		courierID = &id
	}
	if o.VehicleID() != nil {
		id := o.VehicleID().String()
		vehicleID = &id
	}

	return orderResponse{
		ID:             o.ID().String(),
		CustomerID:     o.CustomerID(),
		Status:         o.Status().String(),
		Modality:       o.Modality().String(),
		DeliveryType:   o.DeliveryType().String(),
		Priority:       o.Priority(),
		WeightKg:       o.WeightKg(),
		OriginAddress:  o.Origin().String(),
		OriginCity:     o.Origin().City(),
		DestAddress:    o.Destination().String(),
		DestCity:       o.Destination().City(),
		ContactPhone:   o.ContactPhone(),
		RecipientName:  o.RecipientName(),
		CourierID:      courierID,
		VehicleID:      vehicleID,
		InvoiceID:      o.InvoiceID(),
		CalculatedFare: o.CalculatedFare(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}

func toSnapshotResponse(snapshot queries.GetOrderQueryResponse) orderResponse {
	var courierID, vehicleID *string
	if snapshot.CourierID != nil {
		id := snapshot.CourierID.String()
		courierID = &id
	}
	if snapshot.VehicleID != nil {
		id := snapshot.VehicleID.String()
		vehicleID = &id
	}

	return orderResponse{
		ID:             snapshot.ID.String(),
		CustomerID:     snapshot.CustomerID,
		Status:         snapshot.Status,
		Modality:       snapshot.Modality,
		DeliveryType:   snapshot.DeliveryType,
		Priority:       snapshot.Priority,
		WeightKg:       snapshot.WeightKg,
		OriginAddress:  snapshot.OriginAddress,
		OriginCity:     snapshot.OriginCity,
		DestAddress:    snapshot.DestAddress,
		DestCity:       snapshot.DestCity,
		ContactPhone:   snapshot.ContactPhone,
		RecipientName:  snapshot.RecipientName,
		CourierID:      courierID,
		VehicleID:      vehicleID,
		InvoiceID:      snapshot.InvoiceID,
		CalculatedFare: snapshot.CalculatedFare,
		CreatedAt:      snapshot.CreatedAt,
		UpdatedAt:      snapshot.UpdatedAt,
	}
}
