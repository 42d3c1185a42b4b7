package services

import (
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// Coverage patterns are string-encoded zone descriptors:
//
//	"URBAN-{city}"              urban fast delivery inside one city
//	"INTERMUNICIPAL-{province}" delivery between cities of one province
//	"NATIONAL"                  country-wide delivery
const (
	urbanPrefix          = "URBAN-"
	intermunicipalPrefix = "INTERMUNICIPAL-"
	nationalPattern      = "NATIONAL"
)

// CoveragePattern derives the coverage pattern for an order from its modality
// and destination address.
func CoveragePattern(modality order.Modality, destination kernel.Address) string {
	switch modality {
	case order.ModalityUrbanFast:
		return urbanPrefix + strings.ToUpper(destination.City())
	case order.ModalityIntermunicipal:
		return intermunicipalPrefix + strings.ToUpper(destination.Province())
	default:
		return nationalPattern
	}
}

// IsValidCoverage reports whether a pattern describes a zone the service
// covers. Prefixed patterns require a non-empty zone suffix.
func IsValidCoverage(pattern string) bool {
	if pattern == nationalPattern {
		return true
	}
	if zone, ok := strings.CutPrefix(pattern, urbanPrefix); ok {
		return zone != ""
	}
	if zone, ok := strings.CutPrefix(pattern, intermunicipalPrefix); ok {
		return zone != ""
	}
	return false
}

// IsDeliveryTypeAvailable reports whether a delivery type is offered for a
// coverage pattern. Express and normal service run everywhere; scheduled
// delivery is not offered on urban fast routes, which are same-day by
// definition.
func IsDeliveryTypeAvailable(deliveryType order.DeliveryType, pattern string) bool {
	if !IsValidCoverage(pattern) {
		return false
	}
	if deliveryType.Validate() != nil {
		return false
	}
	if deliveryType == order.DeliveryTypeScheduled && strings.HasPrefix(pattern, urbanPrefix) {
		return false
	}
	return true
}
