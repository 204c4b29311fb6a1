package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/inventory/domain"
)

// MaxProductNameLength is the longest accepted product name, in characters.
const MaxProductNameLength = 60

// ProductName is a trimmed, non-blank product name of at most 60 characters.
type ProductName string

// NewProductName trims s and validates it.
func NewProductName(s string) (ProductName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", domainerr.Wrap(domain.ErrInvalidProductName, errors.New("product name is required"))
	}
	if utf8.RuneCountInString(s) > MaxProductNameLength {
		return "", domainerr.Wrap(domain.ErrInvalidProductName,
			fmt.Errorf("product name must not exceed %d characters", MaxProductNameLength))
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", domainerr.Wrap(domain.ErrInvalidProductName,
				errors.New("product name must not contain control characters"))
		}
	}
	return ProductName(s), nil
}

// Key returns the case-folded form used for uniqueness checks, so "Widget"
// and "WIDGET" collide.
func (n ProductName) Key() string {
	return cases.Fold().String(string(n))
}

func (n ProductName) String() string {
	return string(n)
}
