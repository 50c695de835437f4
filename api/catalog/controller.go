package catalog

import (
	"strconv"

	"storefront/api/response"
	catalogapp "storefront/application/catalog"
	"storefront/domain/catalog"

	"github.com/gin-gonic/gin"
)

// Controller Product catalog controller
type Controller struct {
	catalogService *catalogapp.Service
}

// NewController Create product catalog controller
func NewController(catalogService *catalogapp.Service) *Controller {
	return &Controller{catalogService: catalogService}
}

// RegisterRoutes Register product routes. admin guards the write endpoints.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup, admin ...gin.HandlerFunc) {
	products := router.Group("/products")
	{
		products.GET("", c.GetProducts)
		products.GET("/brands", c.GetBrands)
		products.GET("/types", c.GetTypes)
		products.GET("/:id", c.GetProduct)
	}

	guarded := products.Group("", admin...)
	{
		guarded.POST("", c.CreateProduct)
		guarded.PUT("/:id", c.UpdateProduct)
		guarded.DELETE("/:id", c.DeleteProduct)
	}
}

// GetProducts Product list with filter, sort and paging
func (c *Controller) GetProducts(ctx *gin.Context) {
	var params catalog.ProductSpecParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		response.HandleBindError(ctx, err, "Invalid query parameters")
		return
	}

	page, err := c.catalogService.GetProducts(ctx.Request.Context(), params)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, page, "Products retrieved successfully")
}

func (c *Controller) GetProduct(ctx *gin.Context) {
	id, ok := productID(ctx)
	if !ok {
		return
	}

	product, err := c.catalogService.GetProduct(ctx.Request.Context(), id)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, product, "Product retrieved successfully")
}

func (c *Controller) GetBrands(ctx *gin.Context) {
	brands, err := c.catalogService.GetBrands(ctx.Request.Context())
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, brands, "Brands retrieved successfully")
}

func (c *Controller) GetTypes(ctx *gin.Context) {
	types, err := c.catalogService.GetTypes(ctx.Request.Context())
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, types, "Types retrieved successfully")
}

// CreateProduct Create product (Admin)
func (c *Controller) CreateProduct(ctx *gin.Context) {
	var req catalogapp.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err, "Invalid request parameters")
		return
	}

	product, err := c.catalogService.CreateProduct(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, product, "Product created successfully")
}

// UpdateProduct Update product (Admin)
func (c *Controller) UpdateProduct(ctx *gin.Context) {
	id, ok := productID(ctx)
	if !ok {
		return
	}

	var req catalogapp.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err, "Invalid request parameters")
		return
	}

	product, err := c.catalogService.UpdateProduct(ctx.Request.Context(), id, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, product, "Product updated successfully")
}

// DeleteProduct Delete product (Admin)
func (c *Controller) DeleteProduct(ctx *gin.Context) {
	id, ok := productID(ctx)
	if !ok {
		return
	}

	if err := c.catalogService.DeleteProduct(ctx.Request.Context(), id); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, nil, "Product deleted successfully")
}

func productID(ctx *gin.Context) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		response.HandleBindError(ctx, err, "Product ID must be a positive integer")
		return 0, false
	}
	return id, true
}
