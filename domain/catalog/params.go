package catalog

import (
	"fmt"
	"strings"

	"storefront/domain/shared"
)

const (
	MaxPageSize     = 50
	DefaultPageSize = 6
)

// ProductSpecParams is the caller-supplied query for the product list.
type ProductSpecParams struct {
	PageIndex int    `form:"pageIndex" json:"pageIndex"`
	PageSize  int    `form:"pageSize" json:"pageSize"`
	BrandID   *int   `form:"brandId" json:"brandId,omitempty"`
	TypeID    *int   `form:"typeId" json:"typeId,omitempty"`
	Sort      string `form:"sort" json:"sort"`
	Search    string `form:"search" json:"search"`
}

// Normalize fills defaults, caps the page size and lower-cases the search text.
// Negative values are rejected rather than clamped.
func (p *ProductSpecParams) Normalize() error {
	if p.PageIndex == 0 {
		p.PageIndex = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageIndex < 1 {
		return shared.NewValidationError("product", "pageIndex", fmt.Sprintf("pageIndex must be >= 1, got %d", p.PageIndex))
	}
	if p.PageSize < 1 {
		return shared.NewValidationError("product", "pageSize", fmt.Sprintf("pageSize must be >= 1, got %d", p.PageSize))
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.BrandID != nil && *p.BrandID <= 0 {
		return shared.NewValidationError("product", "brandId", "brandId must be positive")
	}
	if p.TypeID != nil && *p.TypeID <= 0 {
		return shared.NewValidationError("product", "typeId", "typeId must be positive")
	}
	p.Search = strings.ToLower(strings.TrimSpace(p.Search))
	return nil
}
