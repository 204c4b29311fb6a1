package models

import (
	"strings"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/inventory/domain"
)

// ProductType is the operation mode a product is manufactured under.
// Values are persisted as integers; do not reorder.
type ProductType int

const (
	BuildToPrint ProductType = iota
	BuildToSpecification
	MadeToStock
	MadeToOrder
	MadeToAssemble
)

var productTypeCodes = [...]string{"BTP", "BTS", "MTS", "MTO", "MTA"}

var productTypeNames = [...]string{
	"BuildToPrint",
	"BuildToSpecification",
	"MadeToStock",
	"MadeToOrder",
	"MadeToAssemble",
}

var productTypeDescriptions = [...]string{
	"Built according to drawings",
	"Built according to specifications",
	"Made for stock",
	"Made to order",
	"Made for assembly",
}

// ParseProductType resolves a three-letter code (BTP, BTS, MTS, MTO, MTA),
// ignoring case and surrounding whitespace.
func ParseProductType(code string) (ProductType, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	for i, known := range productTypeCodes {
		if c == known {
			return ProductType(i), nil
		}
	}
	return 0, domainerr.Violation(domain.ErrInvalidProductType,
		"invalid product type abbreviation: %s. Valid values are: %s",
		code, strings.Join(productTypeCodes[:], ", "))
}

// ProductTypeFromInt converts a persisted value back into a ProductType.
func ProductTypeFromInt(v int) (ProductType, error) {
	t := ProductType(v)
	if !t.Valid() {
		return 0, domainerr.Violation(domain.ErrInvalidProductType, "unknown product type %d", v)
	}
	return t, nil
}

func (t ProductType) Valid() bool {
	return t >= BuildToPrint && t <= MadeToAssemble
}

// Code returns the three-letter abbreviation.
func (t ProductType) Code() string {
	if !t.Valid() {
		return ""
	}
	return productTypeCodes[t]
}

// String returns the full name, e.g. "MadeToStock".
func (t ProductType) String() string {
	if !t.Valid() {
		return "Unknown"
	}
	return productTypeNames[t]
}

// Description returns a human-readable operation mode.
func (t ProductType) Description() string {
	if !t.Valid() {
		return "Unknown type"
	}
	return productTypeDescriptions[t]
}
