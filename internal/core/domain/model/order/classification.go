package order

import "orderflow/internal/pkg/errs"

// Modality is the broad delivery class of an order. It drives the coverage
// rules: urban orders are validated against the destination city, and
// intermunicipal orders against the destination province.
type Modality string

const (
	ModalityUrbanFast      Modality = "URBAN_FAST"
	ModalityIntermunicipal Modality = "INTERMUNICIPAL"
	ModalityNational       Modality = "NATIONAL"
)

// Validate checks that the modality is one of the defined classes.
func (m Modality) Validate() error {
	switch m {
	case ModalityUrbanFast, ModalityIntermunicipal, ModalityNational:
		return nil
	}
	return errs.NewValueIsInvalidError("modality")
}

// String returns the wire representation of the modality.
func (m Modality) String() string {
	return string(m)
}

// DeliveryType is the service level requested for an order.
type DeliveryType string

const (
	DeliveryTypeExpress   DeliveryType = "EXPRESS"
	DeliveryTypeNormal    DeliveryType = "NORMAL"
	DeliveryTypeScheduled DeliveryType = "SCHEDULED"
)

// Validate checks that the delivery type is one of the defined levels.
func (d DeliveryType) Validate() error {
	switch d {
	case DeliveryTypeExpress, DeliveryTypeNormal, DeliveryTypeScheduled:
		return nil
	}
	return errs.NewValueIsInvalidError("deliveryType")
}

// String returns the wire representation of the delivery type.
func (d DeliveryType) String() string {
	return string(d)
}

// Priority returns the dispatch priority implied by the delivery type.
// Express orders jump the queue; scheduled orders yield to everything else.
func (d DeliveryType) Priority() int {
	switch d {
	case DeliveryTypeExpress:
		return 10
	case DeliveryTypeScheduled:
		return 1
	default:
		return 5
	}
}
