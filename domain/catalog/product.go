/*
Package catalog 定义商品目录领域：商品、品牌、类型、图片，以及商品查询规格。
*/
package catalog

import (
	"strings"

	"storefront/domain/shared"
)

const (
	KindProduct      shared.EntityKind = "product"
	KindProductBrand shared.EntityKind = "product_brand"
	KindProductType  shared.EntityKind = "product_type"
	KindPhoto        shared.EntityKind = "photo"
)

// Relation names usable with Specification.Include.
const (
	IncludeProductType  = "ProductType"
	IncludeProductBrand = "ProductBrand"
	IncludePhotos       = "Photos"
)

type ProductBrand struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (b ProductBrand) GetID() int { return b.ID }

type ProductType struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (t ProductType) GetID() int { return t.ID }

type Photo struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	PictureURL string `gorm:"size:255" json:"pictureUrl"`
	FileName   string `gorm:"size:255" json:"fileName"`
	IsMain     bool   `json:"isMain"`
	ProductID  int    `gorm:"index;not null" json:"-"`
}

func (p Photo) GetID() int { return p.ID }

// Product 商品实体。ProductType、ProductBrand、Photos 只有在规格声明 Include 时才会加载。
type Product struct {
	ID             int           `gorm:"primaryKey"`
	Name           string        `gorm:"size:100;not null"`
	Description    string        `gorm:"size:180"`
	Price          float64       `gorm:"type:decimal(18,2);not null"`
	ProductTypeID  int           `gorm:"index;not null"`
	ProductType    *ProductType  `gorm:"foreignKey:ProductTypeID"`
	ProductBrandID int           `gorm:"index;not null"`
	ProductBrand   *ProductBrand `gorm:"foreignKey:ProductBrandID"`
	Photos         []Photo       `gorm:"constraint:OnDelete:CASCADE"`
}

func (p Product) GetID() int { return p.ID }

// MainPhoto returns the photo flagged as main, else the first one.
func (p Product) MainPhoto() (Photo, bool) {
	for _, ph := range p.Photos {
		if ph.IsMain {
			return ph, true
		}
	}
	if len(p.Photos) > 0 {
		return p.Photos[0], true
	}
	return Photo{}, false
}

// BrandName is empty when the brand was not loaded.
func (p Product) BrandName() string {
	if p.ProductBrand == nil {
		return ""
	}
	return p.ProductBrand.Name
}

// TypeName is empty when the type was not loaded.
func (p Product) TypeName() string {
	if p.ProductType == nil {
		return ""
	}
	return p.ProductType.Name
}

// Validate checks the fields a caller supplies when creating or editing a product.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewValidationError("product", "name", "name is required")
	}
	if p.Price <= 0 {
		return shared.NewValidationError("product", "price", "price must be greater than zero")
	}
	if p.ProductBrandID <= 0 {
		return shared.NewValidationError("product", "productBrandId", "product brand is required")
	}
	if p.ProductTypeID <= 0 {
		return shared.NewValidationError("product", "productTypeId", "product type is required")
	}
	return nil
}
