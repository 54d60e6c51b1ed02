package handler

import (
	"net/http"
	"time"

	"vims/internal/middleware"
	"vims/internal/model"
	"vims/internal/service"
	"vims/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

type approveInvoiceRequest struct {
	ApprovalLevel int    `json:"approval_level" binding:"required,min=1"`
	Comments      string `json:"comments"`
}

type rejectInvoiceRequest struct {
	Comments string `json:"comments" binding:"required"`
}

// RegisterRoutes binds the invoice endpoints to the router group
func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	allRoles := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleFinance, model.RoleUser)

	invoices := router.Group("/invoices")
	{
		invoices.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleUser), h.CreateInvoice)
		invoices.GET("", allRoles, h.ListInvoices)
		invoices.GET("/overdue", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleFinance), h.ListOverdueInvoices)
		invoices.GET("/by-date-range", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleFinance), h.ListInvoicesByDateRange)
		invoices.GET("/:id", allRoles, h.GetInvoiceByID)
		invoices.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateInvoice)
		invoices.POST("/:id/approve", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ApproveInvoice)
		invoices.POST("/:id/reject", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.RejectInvoice)
		invoices.GET("/:id/approval-info", allRoles, h.GetApprovalInfo)
	}
}

// CreateInvoice handles POST /invoices
// @Summary      Create an invoice
// @Description  Creates an invoice with line items, computes GST and assigns an invoice number
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateInvoiceRequest  true  "Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices handles GET /invoices
// @Summary      List invoices
// @Description  Returns invoices visible to the caller's role
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.InvoiceResponse}
// @Router       /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.GetInvoices(c.Request.Context(), actorFrom(c))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoices))
}

// GetInvoiceByID handles GET /invoices/:id
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// UpdateInvoice handles PUT /invoices/:id
// @Summary      Update invoice
// @Description  Replaces line items and recomputes GST. Editing a rejected invoice resets it to pending.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Invoice ID"
// @Param        payload  body      service.UpdateInvoiceRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ApproveInvoice handles POST /invoices/:id/approve
// @Summary      Approve an invoice at a level
// @Description  Records an approval at the given level. Duplicate approvals are no-ops.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Invoice ID"
// @Param        payload  body      approveInvoiceRequest  true  "Approval Payload"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /invoices/{id}/approve [post]
func (h *InvoiceHandler) ApproveInvoice(c *gin.Context) {
	var req approveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actor := actorFrom(c)
	invoice, err := h.invoiceService.ApproveInvoice(c.Request.Context(), c.Param("id"), req.ApprovalLevel, actor.Username, req.Comments)
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// RejectInvoice handles POST /invoices/:id/reject
// @Summary      Reject an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true  "Invoice ID"
// @Param        payload  body      rejectInvoiceRequest  true  "Rejection Payload"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404      {object}  response.Response
// @Router       /invoices/{id}/reject [post]
func (h *InvoiceHandler) RejectInvoice(c *gin.Context) {
	var req rejectInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actor := actorFrom(c)
	invoice, err := h.invoiceService.RejectInvoice(c.Request.Context(), c.Param("id"), actor.Username, req.Comments)
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// GetApprovalInfo handles GET /invoices/:id/approval-info
// @Summary      Get approval progress for an invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.ApprovalInfoResponse}
// @Failure      404  {object}  response.Response
// @Router       /invoices/{id}/approval-info [get]
func (h *InvoiceHandler) GetApprovalInfo(c *gin.Context) {
	info, err := h.invoiceService.GetApprovalInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, info))
}

// ListOverdueInvoices handles GET /invoices/overdue
// @Summary      List overdue invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.InvoiceResponse}
// @Router       /invoices/overdue [get]
func (h *InvoiceHandler) ListOverdueInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.GetOverdueInvoices(c.Request.Context())
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoices))
}

// ListInvoicesByDateRange handles GET /invoices/by-date-range
// @Summary      List invoices in a date range
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  true  "Start date (YYYY-MM-DD)"
// @Param        end    query     string  true  "End date (YYYY-MM-DD)"
// @Success      200    {object}  response.Response{data=[]service.InvoiceResponse}
// @Failure      400    {object}  response.Response
// @Router       /invoices/by-date-range [get]
func (h *InvoiceHandler) ListInvoicesByDateRange(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid start date"))
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid end date"))
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "End date must not precede start date"))
		return
	}

	invoices, err := h.invoiceService.GetInvoicesByDateRange(c.Request.Context(), start, end)
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoices))
}
