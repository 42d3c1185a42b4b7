// Package events defines the wire contracts carried on the event bus.
// Every event is immutable and carries a producer-generated message
// identifier plus a timestamp; the message identifier is created once per
// logical event instance and never regenerated on redelivery, which is what
// makes idempotent consumption possible.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types as they travel on the wire. Also used as routing keys on the
// orders topic exchange.
const (
	TypeOrderCreated             = "order.created"
	TypeOrderStatusChanged       = "order.status_changed"
	TypeAssignmentCompleted      = "order.assignment_completed"
	TypeRetryAssignmentRequested = "order.retry_assignment_requested"
	TypeCourierLocationUpdated   = "fleet.courier_location_updated"
	TypeVehicleStatusChanged     = "fleet.vehicle_status_changed"
)

// Event is implemented by every wire contract in this package.
type Event interface {
	// Type returns the wire event type, used as the routing key.
	Type() string
	// ID returns the producer-generated message identifier.
	ID() string
}

// NewMessageID generates a fresh message identifier for a logical event
// instance.
func NewMessageID() string {
	return uuid.NewString()
}

// OrderCreated is published right after an order is persisted in PENDING.
type OrderCreated struct {
	MessageID           string    `json:"message_id"`
	Timestamp           time.Time `json:"timestamp"`
	OrderID             string    `json:"order_id"`
	CustomerID          string    `json:"customer_id"`
	Status              string    `json:"status"`
	DeliveryType        string    `json:"delivery_type"`
	Modality            string    `json:"modality"`
	Priority            int       `json:"priority"`
	WeightKg            float64   `json:"weight_kg"`
	OriginAddress       string    `json:"origin_address"`
	DestAddress         string    `json:"dest_address"`
	OriginCity          string    `json:"origin_city"`
	DestCity            string    `json:"dest_city"`
	EstimatedDistanceKm float64   `json:"estimated_distance_km"`
	CalculatedFare      *float64  `json:"calculated_fare,omitempty"`
}

func (e OrderCreated) Type() string { return TypeOrderCreated }
func (e OrderCreated) ID() string   { return e.MessageID }

// OrderStatusChanged is published on every committed transition, carrying
// the actor for audit.
type OrderStatusChanged struct {
	MessageID      string    `json:"message_id"`
	Timestamp      time.Time `json:"timestamp"`
	OrderID        string    `json:"order_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Actor          string    `json:"actor"`
	CourierID      *string   `json:"courier_id,omitempty"`
	VehicleID      *string   `json:"vehicle_id,omitempty"`
}

func (e OrderStatusChanged) Type() string { return TypeOrderStatusChanged }
func (e OrderStatusChanged) ID() string   { return e.MessageID }

// AssignmentCompleted is published by the fleet side when a courier/vehicle
// pair has been selected for an order.
type AssignmentCompleted struct {
	MessageID       string    `json:"message_id"`
	Timestamp       time.Time `json:"timestamp"`
	OrderID         string    `json:"order_id"`
	CourierID       string    `json:"courier_id"`
	VehicleID       string    `json:"vehicle_id"`
	CourierName     string    `json:"courier_name"`
	Plate           string    `json:"plate"`
	ResultingStatus string    `json:"resulting_status"`
	OriginService   string    `json:"origin_service"`
	Reason          string    `json:"reason,omitempty"`
}

func (e AssignmentCompleted) Type() string { return TypeAssignmentCompleted }
func (e AssignmentCompleted) ID() string   { return e.MessageID }

// RetryAssignmentRequested asks the fleet side to attempt assignment again
// for an order still in PENDING.
type RetryAssignmentRequested struct {
	MessageID     string    `json:"message_id"`
	Timestamp     time.Time `json:"timestamp"`
	OrderID       string    `json:"order_id"`
	CustomerID    string    `json:"customer_id"`
	Requester     string    `json:"requester"`
	Modality      string    `json:"modality"`
	DeliveryType  string    `json:"delivery_type"`
	Priority      int       `json:"priority"`
	WeightKg      float64   `json:"weight_kg"`
	OriginCity    string    `json:"origin_city"`
	DestCity      string    `json:"dest_city"`
	AttemptNumber int       `json:"attempt_number"`
	Reason        string    `json:"reason"`
}

func (e RetryAssignmentRequested) Type() string { return TypeRetryAssignmentRequested }
func (e RetryAssignmentRequested) ID() string   { return e.MessageID }

// CourierLocationUpdated reports a courier position observation.
type CourierLocationUpdated struct {
	MessageID string    `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
	CourierID string    `json:"courier_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

func (e CourierLocationUpdated) Type() string { return TypeCourierLocationUpdated }
func (e CourierLocationUpdated) ID() string   { return e.MessageID }

// VehicleStatusChanged reports a vehicle moving between operational states.
type VehicleStatusChanged struct {
	MessageID      string    `json:"message_id"`
	Timestamp      time.Time `json:"timestamp"`
	VehicleID      string    `json:"vehicle_id"`
	Plate          string    `json:"plate"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
}

func (e VehicleStatusChanged) Type() string { return TypeVehicleStatusChanged }
func (e VehicleStatusChanged) ID() string   { return e.MessageID }
