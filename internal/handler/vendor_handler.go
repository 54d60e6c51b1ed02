package handler

import (
	"net/http"
	"strconv"

	"vims/internal/middleware"
	"vims/internal/model"
	"vims/internal/service"
	"vims/pkg/response"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	vendorService service.VendorService
	riskService   service.RiskService
}

func NewVendorHandler(vendorService service.VendorService, riskService service.RiskService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService, riskService: riskService}
}

// RegisterRoutes binds the vendor endpoints to the router group
func (h *VendorHandler) RegisterRoutes(router *gin.RouterGroup) {
	vendors := router.Group("/vendors")
	{
		vendors.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleFinance, model.RoleUser), h.ListVendors)
		vendors.GET("/high-risk", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleFinance), h.GetHighRiskVendors)
		vendors.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleFinance, model.RoleUser), h.GetVendorByID)
		vendors.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateVendor)
		vendors.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateVendor)
		vendors.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteVendor)
		vendors.POST("/:id/risk-score", middleware.RequireRole(model.RoleAdmin, model.RoleFinance), h.RecalculateRiskScore)
	}
}

// CreateVendor handles POST /vendors
// @Summary      Create a new vendor
// @Description  Registers a vendor with a unique email and GSTIN
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.VendorRequest  true  "Vendor Payload"
// @Success      201      {object}  response.Response{data=service.VendorResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /vendors [post]
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req service.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, vendor))
}

// ListVendors handles GET /vendors
// @Summary      List vendors
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.VendorResponse}
// @Router       /vendors [get]
func (h *VendorHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendorService.GetVendors(c.Request.Context())
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendors))
}

// GetVendorByID handles GET /vendors/:id
// @Summary      Get vendor by ID
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vendor ID"
// @Success      200  {object}  response.Response{data=service.VendorResponse}
// @Failure      404  {object}  response.Response
// @Router       /vendors/{id} [get]
func (h *VendorHandler) GetVendorByID(c *gin.Context) {
	vendor, err := h.vendorService.GetVendorByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendor))
}

// UpdateVendor handles PUT /vendors/:id
// @Summary      Update vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Vendor ID"
// @Param        payload  body      service.VendorRequest  true  "Vendor Payload"
// @Success      200      {object}  response.Response{data=service.VendorResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /vendors/{id} [put]
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	var req service.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendor))
}

// DeleteVendor handles DELETE /vendors/:id
// @Summary      Delete vendor
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vendor ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /vendors/{id} [delete]
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	if err := h.vendorService.DeleteVendor(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Vendor deleted"}))
}

// RecalculateRiskScore handles POST /vendors/:id/risk-score
// @Summary      Recalculate vendor risk score
// @Description  Recomputes and persists the vendor's risk score from its invoice and payment history
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vendor ID"
// @Success      200  {object}  response.Response{data=service.VendorRiskResponse}
// @Failure      404  {object}  response.Response
// @Router       /vendors/{id}/risk-score [post]
func (h *VendorHandler) RecalculateRiskScore(c *gin.Context) {
	risk, err := h.riskService.UpdateVendorRiskScore(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, risk))
}

// GetHighRiskVendors handles GET /vendors/high-risk
// @Summary      List high risk vendors
// @Description  Returns vendors whose stored risk score exceeds the threshold (default 70)
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        threshold  query     number  false  "Risk score threshold"
// @Success      200        {object}  response.Response{data=[]service.VendorRiskResponse}
// @Router       /vendors/high-risk [get]
func (h *VendorHandler) GetHighRiskVendors(c *gin.Context) {
	threshold := 70.0
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid threshold: "+raw))
			return
		}
		threshold = parsed
	}

	vendors, err := h.riskService.GetHighRiskVendors(c.Request.Context(), threshold)
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendors))
}
