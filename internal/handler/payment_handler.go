package handler

import (
	"net/http"

	"vims/internal/middleware"
	"vims/internal/model"
	"vims/internal/service"
	"vims/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes binds the payment endpoints to the router group.
// Managers are excluded: payments are a finance concern.
func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	paymentRoles := middleware.RequireRole(model.RoleAdmin, model.RoleFinance, model.RoleUser)

	payments := router.Group("/payments")
	{
		payments.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleFinance), h.CreatePayment)
		payments.GET("", paymentRoles, h.ListPayments)
		payments.GET("/:id", paymentRoles, h.GetPaymentByID)
		payments.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleFinance), h.DeletePayment)
	}

	router.GET("/invoices/:id/payments", paymentRoles, h.GetPaymentsByInvoice)
}

// CreatePayment handles POST /payments
// @Summary      Record a payment
// @Description  Records a payment against an approved invoice and updates its settlement status
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePaymentRequest  true  "Payment Payload"
// @Success      201      {object}  response.Response{data=service.PaymentResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payment))
}

// ListPayments handles GET /payments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.PaymentResponse}
// @Router       /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.GetPayments(c.Request.Context(), actorFrom(c))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, payments))
}

// GetPaymentByID handles GET /payments/:id
// @Summary      Get payment by ID
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response{data=service.PaymentResponse}
// @Failure      404  {object}  response.Response
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPaymentByID(c *gin.Context) {
	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}

// GetPaymentsByInvoice handles GET /invoices/:id/payments
// @Summary      List payments for an invoice
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=[]service.PaymentResponse}
// @Router       /invoices/{id}/payments [get]
func (h *PaymentHandler) GetPaymentsByInvoice(c *gin.Context) {
	payments, err := h.paymentService.GetPaymentsByInvoiceID(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, payments))
}

// DeletePayment handles DELETE /payments/:id
// @Summary      Delete a payment
// @Description  Removes a payment and re-derives the invoice settlement status
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	if err := h.paymentService.DeletePayment(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Payment deleted"}))
}
