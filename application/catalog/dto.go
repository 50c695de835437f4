package catalog

// ProductRequest 表示创建或修改商品的入参。
type ProductRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	Description    string  `json:"description" binding:"max=180"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	ProductTypeID  int     `json:"productTypeId" binding:"required,min=1"`
	ProductBrandID int     `json:"productBrandId" binding:"required,min=1"`
}

// ProductResponse 表示商品返回模型。
type ProductResponse struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        float64         `json:"price"`
	PictureURL   string          `json:"pictureUrl"`
	ProductType  string          `json:"productType"`
	ProductBrand string          `json:"productBrand"`
	Photos       []PhotoResponse `json:"photos"`
}

// PhotoResponse 表示商品图片返回模型。
type PhotoResponse struct {
	ID         int    `json:"id"`
	PictureURL string `json:"pictureUrl"`
	FileName   string `json:"fileName"`
	IsMain     bool   `json:"isMain"`
}
