package handler

import (
	"net/http"

	"vims/internal/middleware"
	"vims/internal/model"
	"vims/internal/service"
	"vims/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApprovalRuleHandler struct {
	ruleService service.ApprovalRuleService
}

func NewApprovalRuleHandler(ruleService service.ApprovalRuleService) *ApprovalRuleHandler {
	return &ApprovalRuleHandler{ruleService: ruleService}
}

// RegisterRoutes binds the approval rule endpoints to the router group
func (h *ApprovalRuleHandler) RegisterRoutes(router *gin.RouterGroup) {
	viewRoles := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleFinance)

	rules := router.Group("/approval-rules")
	{
		rules.GET("", viewRoles, h.ListApprovalRules)
		rules.GET("/active", viewRoles, h.ListActiveApprovalRules)
		rules.GET("/:id", viewRoles, h.GetApprovalRuleByID)
		rules.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateApprovalRule)
		rules.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateApprovalRule)
		rules.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteApprovalRule)
		rules.PATCH("/:id/toggle", middleware.RequireRole(model.RoleAdmin), h.ToggleApprovalRuleStatus)
	}
}

// CreateApprovalRule handles POST /approval-rules
// @Summary      Create an approval rule
// @Description  Creates an amount-banded approval rule. Bands of active rules must not overlap.
// @Tags         approval-rules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ApprovalRuleRequest  true  "Rule Payload"
// @Success      201      {object}  response.Response{data=service.ApprovalRuleResponse}
// @Failure      400      {object}  response.Response
// @Router       /approval-rules [post]
func (h *ApprovalRuleHandler) CreateApprovalRule(c *gin.Context) {
	var req service.ApprovalRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.ruleService.CreateApprovalRule(c.Request.Context(), req, actorFrom(c).Username)
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// ListApprovalRules handles GET /approval-rules
// @Summary      List approval rules
// @Tags         approval-rules
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.ApprovalRuleResponse}
// @Router       /approval-rules [get]
func (h *ApprovalRuleHandler) ListApprovalRules(c *gin.Context) {
	rules, err := h.ruleService.GetApprovalRules(c.Request.Context())
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rules))
}

// ListActiveApprovalRules handles GET /approval-rules/active
// @Summary      List active approval rules ordered by priority
// @Tags         approval-rules
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.ApprovalRuleResponse}
// @Router       /approval-rules/active [get]
func (h *ApprovalRuleHandler) ListActiveApprovalRules(c *gin.Context) {
	rules, err := h.ruleService.GetActiveApprovalRules(c.Request.Context())
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rules))
}

// GetApprovalRuleByID handles GET /approval-rules/:id
// @Summary      Get approval rule by ID
// @Tags         approval-rules
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}  response.Response{data=service.ApprovalRuleResponse}
// @Failure      404  {object}  response.Response
// @Router       /approval-rules/{id} [get]
func (h *ApprovalRuleHandler) GetApprovalRuleByID(c *gin.Context) {
	rule, err := h.ruleService.GetApprovalRuleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}

// UpdateApprovalRule handles PUT /approval-rules/:id
// @Summary      Update approval rule
// @Tags         approval-rules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Rule ID"
// @Param        payload  body      service.ApprovalRuleRequest  true  "Rule Payload"
// @Success      200      {object}  response.Response{data=service.ApprovalRuleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /approval-rules/{id} [put]
func (h *ApprovalRuleHandler) UpdateApprovalRule(c *gin.Context) {
	var req service.ApprovalRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.ruleService.UpdateApprovalRule(c.Request.Context(), c.Param("id"), req, actorFrom(c).Username)
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}

// DeleteApprovalRule handles DELETE /approval-rules/:id
// @Summary      Delete approval rule
// @Tags         approval-rules
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /approval-rules/{id} [delete]
func (h *ApprovalRuleHandler) DeleteApprovalRule(c *gin.Context) {
	if err := h.ruleService.DeleteApprovalRule(c.Request.Context(), c.Param("id"), actorFrom(c).Username); err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Approval rule deleted"}))
}

// ToggleApprovalRuleStatus handles PATCH /approval-rules/:id/toggle
// @Summary      Toggle approval rule active flag
// @Tags         approval-rules
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}  response.Response{data=service.ApprovalRuleResponse}
// @Failure      404  {object}  response.Response
// @Router       /approval-rules/{id}/toggle [patch]
func (h *ApprovalRuleHandler) ToggleApprovalRuleStatus(c *gin.Context) {
	rule, err := h.ruleService.ToggleApprovalRuleStatus(c.Request.Context(), c.Param("id"), actorFrom(c).Username)
	if err != nil {
		status, resp := response.FromError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}
