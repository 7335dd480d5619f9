package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/models"
	"cashflow/internal/namecache"
	"cashflow/internal/realtime"
	"cashflow/internal/services"
)

// TemplateHandler handles budget template requests.
type TemplateHandler struct {
	templateService services.TemplateServicer
	membership      services.MembershipServicer
	activityService services.ActivityServicer
	hub             *realtime.Hub
	names           *namecache.Cache
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService services.TemplateServicer, membership services.MembershipServicer, activityService services.ActivityServicer, hub *realtime.Hub, names *namecache.Cache) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		membership:      membership,
		activityService: activityService,
		hub:             hub,
		names:           names,
	}
}

// CreateTemplateRequest represents the request payload for creating a template.
type CreateTemplateRequest struct {
	HouseholdID string `json:"household_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
}

// RenameTemplateRequest represents the request payload for renaming a template.
type RenameTemplateRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// IncomeItemRequest represents an income line item payload.
type IncomeItemRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=100"`
	Amount         float64 `json:"amount" binding:"required,gte=0"`
	Frequency      string  `json:"frequency" binding:"omitempty,max=50"`
	AssignedUserID *string `json:"assigned_user_id" binding:"omitempty,uuid"`
}

// ExpenseItemRequest represents an expense line item payload.
type ExpenseItemRequest struct {
	Name            string             `json:"name" binding:"required,min=1,max=100"`
	Amount          float64            `json:"amount" binding:"required,gte=0"`
	Category        string             `json:"category" binding:"required,min=1,max=100"`
	Type            models.ExpenseType `json:"type" binding:"omitempty,expense_type"`
	SpendingAccount *string            `json:"spending_account" binding:"omitempty,max=100"`
	Frequency       string             `json:"frequency" binding:"omitempty,max=50"`
}

// AllocationItemRequest represents an allocation line item payload.
type AllocationItemRequest struct {
	Name           string                `json:"name" binding:"required,min=1,max=100"`
	Amount         float64               `json:"amount" binding:"required,gte=0"`
	Type           models.AllocationType `json:"type" binding:"required,allocation_type"`
	AssignedUserID *string               `json:"assigned_user_id" binding:"omitempty,uuid"`
}

// CreateTemplate creates a new budget template.
// @Summary     Create a template
// @Description Create an empty budget template in a household (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTemplateRequest true "Template details"
// @Success     201 {object} models.BudgetTemplate "Template created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	template, err := h.templateService.CreateTemplate(userID, req.HouseholdID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Log(template.HouseholdID, userID, services.ActivityEntry{
		Action:      "create",
		TableName:   "budget_templates",
		RecordID:    template.ID,
		Description: "Created template " + template.Name,
		TemplateID:  &template.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"template": template})
}

// GetTemplates lists templates for the caller's active household.
// @Summary     List templates
// @Description List budget templates for the active household, newest first
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.BudgetTemplate "Templates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No active household"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates [get]
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	member, err := h.membership.ActiveMembership(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templates, err := h.templateService.GetHouseholdTemplates(userID, member.HouseholdID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// GetTemplate retrieves a template with all of its line items.
// @Summary     Get template by ID
// @Description Get a template with its income, expense, and allocation items
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template ID"
// @Success     200 {object} models.BudgetTemplate "Template details"
// @Failure     400 {object} ErrorResponse "Invalid template ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	template, err := h.templateService.GetTemplateByID(userID, templateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// RenameTemplate renames a template.
// @Summary     Rename template
// @Description Rename a budget template (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Template ID"
// @Param       request body RenameTemplateRequest true "New name"
// @Success     200 {object} models.BudgetTemplate "Renamed template"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id} [put]
func (h *TemplateHandler) RenameTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RenameTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	template, err := h.templateService.RenameTemplate(userID, templateID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Log(template.HouseholdID, userID, services.ActivityEntry{
		Action:      "update",
		TableName:   "budget_templates",
		RecordID:    template.ID,
		Description: "Renamed template to " + template.Name,
		TemplateID:  &template.ID,
	})

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// DeleteTemplate deletes a template and its line items.
// @Summary     Delete template
// @Description Delete a template; monthly budgets built from it survive
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template ID"
// @Success     200 {object} MessageResponse "Template deleted"
// @Failure     400 {object} ErrorResponse "Invalid template ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Resolve the household before the row disappears.
	template, err := h.templateService.GetTemplateByID(userID, templateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.templateService.DeleteTemplate(userID, templateID); err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Log(template.HouseholdID, userID, services.ActivityEntry{
		Action:      "delete",
		TableName:   "budget_templates",
		RecordID:    templateID,
		Description: "Deleted template " + template.Name,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// CreateTemplateIncome adds an income item to a template.
// @Summary     Add template income
// @Description Add an income line item to a template (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Template ID"
// @Param       request body IncomeItemRequest true "Income item"
// @Success     201 {object} models.TemplateIncome "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id}/incomes [post]
func (h *TemplateHandler) CreateTemplateIncome(c *gin.Context) {
	h.withTemplate(c, func(userID, templateID string) (itemResult, error) {
		var req IncomeItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.templateService.CreateIncome(userID, templateID, models.TemplateIncome{
			Name:           req.Name,
			Amount:         req.Amount,
			Frequency:      req.Frequency,
			AssignedUserID: req.AssignedUserID,
		})
		if err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusCreated, body: gin.H{"income": item},
			action: "create", table: "template_incomes", itemID: item.ID, itemName: item.Name}, nil
	})
}

// UpdateTemplateIncome updates an income item on a template.
// @Summary     Update template income
// @Description Update an income line item on a template (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Template ID"
// @Param       itemID  path string            true "Item ID"
// @Param       request body IncomeItemRequest true "Income item"
// @Success     200 {object} models.TemplateIncome "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id}/incomes/{itemID} [put]
func (h *TemplateHandler) UpdateTemplateIncome(c *gin.Context) {
	h.withTemplateItem(c, func(userID, templateID, itemID string) (itemResult, error) {
		var req IncomeItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.templateService.UpdateIncome(userID, templateID, itemID, models.TemplateIncome{
			Name:           req.Name,
			Amount:         req.Amount,
			Frequency:      req.Frequency,
			AssignedUserID: req.AssignedUserID,
		})
		if err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"income": item},
			action: "update", table: "template_incomes", itemID: item.ID, itemName: req.Name}, nil
	})
}

// DeleteTemplateIncome removes an income item from a template.
// @Summary     Delete template income
// @Description Remove an income line item from a template (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Template ID"
// @Param       itemID path string true "Item ID"
// @Success     200 {object} MessageResponse "Item deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id}/incomes/{itemID} [delete]
func (h *TemplateHandler) DeleteTemplateIncome(c *gin.Context) {
	h.withTemplateItem(c, func(userID, templateID, itemID string) (itemResult, error) {
		if err := h.templateService.DeleteIncome(userID, templateID, itemID); err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"message": "Income deleted successfully"},
			action: "delete", table: "template_incomes", itemID: itemID}, nil
	})
}

// CreateTemplateExpense adds an expense item to a template.
// @Summary     Add template expense
// @Description Add an expense line item to a template (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Template ID"
// @Param       request body ExpenseItemRequest true "Expense item"
// @Success     201 {object} models.TemplateExpense "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id}/expenses [post]
func (h *TemplateHandler) CreateTemplateExpense(c *gin.Context) {
	h.withTemplate(c, func(userID, templateID string) (itemResult, error) {
		var req ExpenseItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.templateService.CreateExpense(userID, templateID, models.TemplateExpense{
			Name:            req.Name,
			Amount:          req.Amount,
			Category:        req.Category,
			Type:            req.Type,
			SpendingAccount: req.SpendingAccount,
			Frequency:       req.Frequency,
		})
		if err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusCreated, body: gin.H{"expense": item},
			action: "create", table: "template_expenses", itemID: item.ID, itemName: item.Name}, nil
	})
}

// UpdateTemplateExpense updates an expense item on a template.
// @Summary     Update template expense
// @Description Update an expense line item on a template (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Template ID"
// @Param       itemID  path string             true "Item ID"
// @Param       request body ExpenseItemRequest true "Expense item"
// @Success     200 {object} models.TemplateExpense "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id}/expenses/{itemID} [put]
func (h *TemplateHandler) UpdateTemplateExpense(c *gin.Context) {
	h.withTemplateItem(c, func(userID, templateID, itemID string) (itemResult, error) {
		var req ExpenseItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.templateService.UpdateExpense(userID, templateID, itemID, models.TemplateExpense{
			Name:            req.Name,
			Amount:          req.Amount,
			Category:        req.Category,
			Type:            req.Type,
			SpendingAccount: req.SpendingAccount,
			Frequency:       req.Frequency,
		})
		if err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"expense": item},
			action: "update", table: "template_expenses", itemID: item.ID, itemName: req.Name}, nil
	})
}

// DeleteTemplateExpense removes an expense item from a template.
// @Summary     Delete template expense
// @Description Remove an expense line item from a template (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Template ID"
// @Param       itemID path string true "Item ID"
// @Success     200 {object} MessageResponse "Item deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id}/expenses/{itemID} [delete]
func (h *TemplateHandler) DeleteTemplateExpense(c *gin.Context) {
	h.withTemplateItem(c, func(userID, templateID, itemID string) (itemResult, error) {
		if err := h.templateService.DeleteExpense(userID, templateID, itemID); err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"message": "Expense deleted successfully"},
			action: "delete", table: "template_expenses", itemID: itemID}, nil
	})
}

// CreateTemplateAllocation adds an allocation item to a template.
// @Summary     Add template allocation
// @Description Add an allocation line item to a template (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Template ID"
// @Param       request body AllocationItemRequest true "Allocation item"
// @Success     201 {object} models.TemplateAllocation "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id}/allocations [post]
func (h *TemplateHandler) CreateTemplateAllocation(c *gin.Context) {
	h.withTemplate(c, func(userID, templateID string) (itemResult, error) {
		var req AllocationItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.templateService.CreateAllocation(userID, templateID, models.TemplateAllocation{
			Name:           req.Name,
			Amount:         req.Amount,
			Type:           req.Type,
			AssignedUserID: req.AssignedUserID,
		})
		if err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusCreated, body: gin.H{"allocation": item},
			action: "create", table: "template_allocations", itemID: item.ID, itemName: item.Name}, nil
	})
}

// UpdateTemplateAllocation updates an allocation item on a template.
// @Summary     Update template allocation
// @Description Update an allocation line item on a template (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Template ID"
// @Param       itemID  path string                true "Item ID"
// @Param       request body AllocationItemRequest true "Allocation item"
// @Success     200 {object} models.TemplateAllocation "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id}/allocations/{itemID} [put]
func (h *TemplateHandler) UpdateTemplateAllocation(c *gin.Context) {
	h.withTemplateItem(c, func(userID, templateID, itemID string) (itemResult, error) {
		var req AllocationItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.templateService.UpdateAllocation(userID, templateID, itemID, models.TemplateAllocation{
			Name:           req.Name,
			Amount:         req.Amount,
			Type:           req.Type,
			AssignedUserID: req.AssignedUserID,
		})
		if err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"allocation": item},
			action: "update", table: "template_allocations", itemID: item.ID, itemName: req.Name}, nil
	})
}

// DeleteTemplateAllocation removes an allocation item from a template.
// @Summary     Delete template allocation
// @Description Remove an allocation line item from a template (owner-only)
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Template ID"
// @Param       itemID path string true "Item ID"
// @Success     200 {object} MessageResponse "Item deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id}/allocations/{itemID} [delete]
func (h *TemplateHandler) DeleteTemplateAllocation(c *gin.Context) {
	h.withTemplateItem(c, func(userID, templateID, itemID string) (itemResult, error) {
		if err := h.templateService.DeleteAllocation(userID, templateID, itemID); err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"message": "Allocation deleted successfully"},
			action: "delete", table: "template_allocations", itemID: itemID}, nil
	})
}

// itemResult carries the outcome of a line-item mutation back to the shared
// wrapper, which responds, records activity, and broadcasts the change.
type itemResult struct {
	status   int
	body     gin.H
	action   string
	table    string
	itemID   string
	itemName string
}

func (h *TemplateHandler) withTemplate(c *gin.Context, fn func(userID, templateID string) (itemResult, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	res, err := fn(userID, templateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.finish(c, userID, templateID, res)
}

func (h *TemplateHandler) withTemplateItem(c *gin.Context, fn func(userID, templateID, itemID string) (itemResult, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "itemID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	res, err := fn(userID, templateID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.finish(c, userID, templateID, res)
}

func (h *TemplateHandler) finish(c *gin.Context, userID, templateID string, res itemResult) {
	template, err := h.templateService.GetTemplateByID(userID, templateID)
	if err == nil {
		h.activityService.Log(template.HouseholdID, userID, services.ActivityEntry{
			Action:      res.action,
			TableName:   res.table,
			RecordID:    res.itemID,
			Description: describeItemChange(res.action, res.itemName),
			TemplateID:  &template.ID,
		})
		publishChange(h.hub, h.names, template.HouseholdID, userID, res.table, res.action, res.itemID, res.itemName)
	}

	c.JSON(res.status, res.body)
}

func describeItemChange(action, name string) string {
	switch action {
	case "create":
		return "Added " + name
	case "update":
		return "Updated " + name
	default:
		return "Deleted a line item"
	}
}
