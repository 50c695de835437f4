package account

import (
	"net/http"

	"storefront/api/middleware"
	"storefront/api/response"
	accountapp "storefront/application/account"
	"storefront/application/admin"
	"storefront/domain/identity"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller Account controller: sign-in, profile address and user administration
type Controller struct {
	accountService *accountapp.Service
	adminService   *admin.Service
}

// NewController Create account controller
func NewController(accountService *accountapp.Service, adminService *admin.Service) *Controller {
	return &Controller{accountService: accountService, adminService: adminService}
}

// RegisterRoutes Register account routes.
// authenticated guards the profile endpoints; adminOnly is appended for the administration endpoints.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup, authenticated, adminOnly gin.HandlerFunc) {
	accountGroup := router.Group("/account")
	{
		accountGroup.POST("/register", c.Register)
		accountGroup.POST("/login", c.Login)
		accountGroup.GET("/emailexists", c.EmailExists)
	}

	self := accountGroup.Group("", authenticated)
	{
		self.GET("", c.CurrentUser)
		self.GET("/address", c.GetAddress)
		self.PUT("/address", c.UpdateAddress)
	}

	admins := accountGroup.Group("", authenticated, adminOnly)
	{
		admins.GET("/userslist", c.ListUsers)
		admins.GET("/user/:id", c.GetUser)
		admins.PUT("/:id/update", c.UpdateUser)
		admins.POST("/:id/lock", c.LockUser)
		admins.POST("/:id/unlock", c.UnlockUser)
	}
}

func (c *Controller) Register(ctx *gin.Context) {
	var req accountapp.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err, "Invalid request parameters")
		return
	}

	user, err := c.accountService.Register(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, user, "User registered successfully")
}

func (c *Controller) Login(ctx *gin.Context) {
	var req accountapp.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err, "Invalid request parameters")
		return
	}

	user, err := c.accountService.Login(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, user, "Signed in successfully")
}

func (c *Controller) EmailExists(ctx *gin.Context) {
	email := ctx.Query("email")
	if email == "" {
		response.HandleBindError(ctx, nil, "email is required")
		return
	}

	exists, err := c.accountService.EmailExists(ctx.Request.Context(), email)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, exists, "Email checked successfully")
}

func (c *Controller) CurrentUser(ctx *gin.Context) {
	email, ok := currentEmail(ctx)
	if !ok {
		return
	}

	user, err := c.accountService.CurrentUser(ctx.Request.Context(), email)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, user, "User retrieved successfully")
}

func (c *Controller) GetAddress(ctx *gin.Context) {
	email, ok := currentEmail(ctx)
	if !ok {
		return
	}

	address, err := c.accountService.GetAddress(ctx.Request.Context(), email)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, address, "Address retrieved successfully")
}

func (c *Controller) UpdateAddress(ctx *gin.Context) {
	email, ok := currentEmail(ctx)
	if !ok {
		return
	}

	var req accountapp.AddressDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err, "Invalid request parameters")
		return
	}

	address, err := c.accountService.UpdateAddress(ctx.Request.Context(), email, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, address, "Address updated successfully")
}

// ListUsers User list with roles (Admin)
func (c *Controller) ListUsers(ctx *gin.Context) {
	var params identity.UserSpecParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		response.HandleBindError(ctx, err, "Invalid query parameters")
		return
	}

	page, err := c.adminService.ListUsers(ctx.Request.Context(), params)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, page, "Users retrieved successfully")
}

func (c *Controller) GetUser(ctx *gin.Context) {
	user, err := c.adminService.GetUser(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, user, "User retrieved successfully")
}

func (c *Controller) UpdateUser(ctx *gin.Context) {
	var req admin.UserToUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err, "Invalid request parameters")
		return
	}

	if err := c.adminService.UpdateUser(ctx.Request.Context(), ctx.Param("id"), req); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, nil, "User updated successfully")
}

func (c *Controller) LockUser(ctx *gin.Context) {
	var req admin.LockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err, "Invalid request parameters")
		return
	}

	if err := c.adminService.LockUser(ctx.Request.Context(), ctx.Param("id"), req); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, nil, "User locked successfully")
}

func (c *Controller) UnlockUser(ctx *gin.Context) {
	var req admin.LockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err, "Invalid request parameters")
		return
	}

	if err := c.adminService.UnlockUser(ctx.Request.Context(), ctx.Param("id"), req); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, nil, "User unlocked successfully")
}

func currentEmail(ctx *gin.Context) (string, bool) {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		response.Abort(ctx, errors.New(errors.CodeUnauthorized, http.StatusText(http.StatusUnauthorized)))
		return "", false
	}
	return claims.Email, true
}
