package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/models"
	"cashflow/internal/namecache"
	"cashflow/internal/pagination"
	"cashflow/internal/realtime"
	"cashflow/internal/services"
)

// BudgetHandler handles monthly budget requests.
type BudgetHandler struct {
	budgetService   services.BudgetServicer
	copyService     services.CopyServicer
	membership      services.MembershipServicer
	activityService services.ActivityServicer
	hub             *realtime.Hub
	names           *namecache.Cache
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, copyService services.CopyServicer, membership services.MembershipServicer, activityService services.ActivityServicer, hub *realtime.Hub, names *namecache.Cache) *BudgetHandler {
	return &BudgetHandler{
		budgetService:   budgetService,
		copyService:     copyService,
		membership:      membership,
		activityService: activityService,
		hub:             hub,
		names:           names,
	}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	HouseholdID string  `json:"household_id" binding:"required,uuid"`
	Year        int     `json:"year" binding:"required,min=2000,max=2200"`
	Month       int     `json:"month" binding:"required,month"`
	TemplateID  *string `json:"template_id" binding:"omitempty,uuid"`
}

// CopyTemplateRequest represents the request payload for materializing a
// template into a month.
type CopyTemplateRequest struct {
	HouseholdID string `json:"household_id" binding:"required,uuid"`
	TemplateID  string `json:"template_id" binding:"required,uuid"`
	Year        int    `json:"year" binding:"required,min=2000,max=2200"`
	Month       int    `json:"month" binding:"required,month"`
}

// DuplicateBudgetRequest represents the request payload for duplicating a
// budget into another month.
type DuplicateBudgetRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2200"`
	Month int `json:"month" binding:"required,month"`
}

// CreateBudget creates an empty monthly budget.
// @Summary     Create a budget
// @Description Create an empty monthly budget (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.MonthlyBudget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     409 {object} ErrorResponse "Budget exists for this month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(userID, req.HouseholdID, req.Year, req.Month, req.TemplateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logBudgetActivity(budget, userID, "create", "Created budget for "+monthLabel(budget.Year, budget.Month))

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets lists budgets for the caller's active household.
// @Summary     List budgets
// @Description Paginated budgets for the active household, most recent first
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.MonthlyBudget] "Paginated budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No active household"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.GetHouseholdBudgets(userID, member.HouseholdID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget retrieves a budget with line items and baseline variances.
// @Summary     Get budget by ID
// @Description Get a budget with its line items, template baseline, and variances
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetDetail "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	detail, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetBudgetByMonth resolves the active household's budget for one month.
// @Summary     Get budget by month
// @Description Resolve the active household's budget for a calendar month
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int true "Year"
// @Param       month query int true "Month (1-12)"
// @Success     200 {object} services.BudgetDetail "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid year or month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No budget for this month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/month [get]
func (h *BudgetHandler) GetBudgetByMonth(c *gin.Context) {
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

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be an integer"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be an integer"))
		return
	}

	detail, err := h.budgetService.GetBudgetByMonth(userID, member.HouseholdID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteBudget deletes a budget and its line items.
// @Summary     Delete budget
// @Description Delete a monthly budget and its line items (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Resolve the household before the row disappears.
	detail, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.logBudgetActivity(detail.Budget, userID, "delete", "Deleted budget for "+monthLabel(detail.Budget.Year, detail.Budget.Month))

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// CopyTemplate materializes a template into a new monthly budget.
// @Summary     Copy template into month
// @Description Create a monthly budget from a template in one transaction (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CopyTemplateRequest true "Copy parameters"
// @Success     201 {object} models.MonthlyBudget "Budget created from template"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     409 {object} ErrorResponse "Budget exists for this month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/copy-template [post]
func (h *BudgetHandler) CopyTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CopyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.copyService.CopyTemplate(userID, req.HouseholdID, req.TemplateID, req.Year, req.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logBudgetActivity(budget, userID, "create", "Created budget for "+monthLabel(budget.Year, budget.Month)+" from template")
	publishChange(h.hub, h.names, budget.HouseholdID, userID, "monthly_budgets", "create", budget.ID, monthLabel(budget.Year, budget.Month))

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// DuplicateBudget copies an existing budget into another month.
// @Summary     Duplicate budget
// @Description Copy a budget into another month, keeping original template lineage (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Source budget ID"
// @Param       request body DuplicateBudgetRequest true "Target month"
// @Success     201 {object} models.MonthlyBudget "Duplicated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget exists for target month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/duplicate [post]
func (h *BudgetHandler) DuplicateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sourceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DuplicateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.copyService.DuplicateBudget(userID, sourceID, req.Year, req.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logBudgetActivity(budget, userID, "create", "Duplicated budget into "+monthLabel(budget.Year, budget.Month))
	publishChange(h.hub, h.names, budget.HouseholdID, userID, "monthly_budgets", "create", budget.ID, monthLabel(budget.Year, budget.Month))

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// CreateBudgetIncome adds an income item to a budget.
// @Summary     Add budget income
// @Description Add an income line item to a monthly budget (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Budget ID"
// @Param       request body IncomeItemRequest true "Income item"
// @Success     201 {object} models.MonthlyIncome "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/incomes [post]
func (h *BudgetHandler) CreateBudgetIncome(c *gin.Context) {
	h.withBudget(c, func(userID, budgetID string) (itemResult, error) {
		var req IncomeItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.budgetService.CreateIncome(userID, budgetID, models.MonthlyIncome{
			Name:           req.Name,
			Amount:         req.Amount,
			Frequency:      req.Frequency,
			AssignedUserID: req.AssignedUserID,
		})
		if err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusCreated, body: gin.H{"income": item},
			action: "create", table: "monthly_incomes", itemID: item.ID, itemName: item.Name}, nil
	})
}

// UpdateBudgetIncome updates an income item on a budget.
// @Summary     Update budget income
// @Description Update an income line item on a monthly budget (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Budget ID"
// @Param       itemID  path string            true "Item ID"
// @Param       request body IncomeItemRequest true "Income item"
// @Success     200 {object} models.MonthlyIncome "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/incomes/{itemID} [put]
func (h *BudgetHandler) UpdateBudgetIncome(c *gin.Context) {
	h.withBudgetItem(c, func(userID, budgetID, itemID string) (itemResult, error) {
		var req IncomeItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.budgetService.UpdateIncome(userID, budgetID, itemID, models.MonthlyIncome{
			Name:           req.Name,
			Amount:         req.Amount,
			Frequency:      req.Frequency,
			AssignedUserID: req.AssignedUserID,
		})
		if err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"income": item},
			action: "update", table: "monthly_incomes", itemID: item.ID, itemName: req.Name}, nil
	})
}

// DeleteBudgetIncome removes an income item from a budget.
// @Summary     Delete budget income
// @Description Remove an income line item from a monthly budget (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Budget ID"
// @Param       itemID path string true "Item ID"
// @Success     200 {object} MessageResponse "Item deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/incomes/{itemID} [delete]
func (h *BudgetHandler) DeleteBudgetIncome(c *gin.Context) {
	h.withBudgetItem(c, func(userID, budgetID, itemID string) (itemResult, error) {
		if err := h.budgetService.DeleteIncome(userID, budgetID, itemID); err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"message": "Income deleted successfully"},
			action: "delete", table: "monthly_incomes", itemID: itemID}, nil
	})
}

// CreateBudgetExpense adds an expense item to a budget.
// @Summary     Add budget expense
// @Description Add an expense line item to a monthly budget (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Budget ID"
// @Param       request body ExpenseItemRequest true "Expense item"
// @Success     201 {object} models.MonthlyExpense "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/expenses [post]
func (h *BudgetHandler) CreateBudgetExpense(c *gin.Context) {
	h.withBudget(c, func(userID, budgetID string) (itemResult, error) {
		var req ExpenseItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.budgetService.CreateExpense(userID, budgetID, models.MonthlyExpense{
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
			action: "create", table: "monthly_expenses", itemID: item.ID, itemName: item.Name}, nil
	})
}

// UpdateBudgetExpense updates an expense item on a budget.
// @Summary     Update budget expense
// @Description Update an expense line item on a monthly budget (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Budget ID"
// @Param       itemID  path string             true "Item ID"
// @Param       request body ExpenseItemRequest true "Expense item"
// @Success     200 {object} models.MonthlyExpense "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/expenses/{itemID} [put]
func (h *BudgetHandler) UpdateBudgetExpense(c *gin.Context) {
	h.withBudgetItem(c, func(userID, budgetID, itemID string) (itemResult, error) {
		var req ExpenseItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.budgetService.UpdateExpense(userID, budgetID, itemID, models.MonthlyExpense{
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
			action: "update", table: "monthly_expenses", itemID: item.ID, itemName: req.Name}, nil
	})
}

// DeleteBudgetExpense removes an expense item from a budget.
// @Summary     Delete budget expense
// @Description Remove an expense line item from a monthly budget (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Budget ID"
// @Param       itemID path string true "Item ID"
// @Success     200 {object} MessageResponse "Item deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/expenses/{itemID} [delete]
func (h *BudgetHandler) DeleteBudgetExpense(c *gin.Context) {
	h.withBudgetItem(c, func(userID, budgetID, itemID string) (itemResult, error) {
		if err := h.budgetService.DeleteExpense(userID, budgetID, itemID); err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"message": "Expense deleted successfully"},
			action: "delete", table: "monthly_expenses", itemID: itemID}, nil
	})
}

// CreateBudgetAllocation adds an allocation item to a budget.
// @Summary     Add budget allocation
// @Description Add an allocation line item to a monthly budget (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Budget ID"
// @Param       request body AllocationItemRequest true "Allocation item"
// @Success     201 {object} models.MonthlyAllocation "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/allocations [post]
func (h *BudgetHandler) CreateBudgetAllocation(c *gin.Context) {
	h.withBudget(c, func(userID, budgetID string) (itemResult, error) {
		var req AllocationItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.budgetService.CreateAllocation(userID, budgetID, models.MonthlyAllocation{
			Name:           req.Name,
			Amount:         req.Amount,
			Type:           req.Type,
			AssignedUserID: req.AssignedUserID,
		})
		if err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusCreated, body: gin.H{"allocation": item},
			action: "create", table: "monthly_allocations", itemID: item.ID, itemName: item.Name}, nil
	})
}

// UpdateBudgetAllocation updates an allocation item on a budget.
// @Summary     Update budget allocation
// @Description Update an allocation line item on a monthly budget (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Budget ID"
// @Param       itemID  path string                true "Item ID"
// @Param       request body AllocationItemRequest true "Allocation item"
// @Success     200 {object} models.MonthlyAllocation "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/allocations/{itemID} [put]
func (h *BudgetHandler) UpdateBudgetAllocation(c *gin.Context) {
	h.withBudgetItem(c, func(userID, budgetID, itemID string) (itemResult, error) {
		var req AllocationItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return itemResult{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		item, err := h.budgetService.UpdateAllocation(userID, budgetID, itemID, models.MonthlyAllocation{
			Name:           req.Name,
			Amount:         req.Amount,
			Type:           req.Type,
			AssignedUserID: req.AssignedUserID,
		})
		if err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"allocation": item},
			action: "update", table: "monthly_allocations", itemID: item.ID, itemName: req.Name}, nil
	})
}

// DeleteBudgetAllocation removes an allocation item from a budget.
// @Summary     Delete budget allocation
// @Description Remove an allocation line item from a monthly budget (owner-only)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Budget ID"
// @Param       itemID path string true "Item ID"
// @Success     200 {object} MessageResponse "Item deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/allocations/{itemID} [delete]
func (h *BudgetHandler) DeleteBudgetAllocation(c *gin.Context) {
	h.withBudgetItem(c, func(userID, budgetID, itemID string) (itemResult, error) {
		if err := h.budgetService.DeleteAllocation(userID, budgetID, itemID); err != nil {
			return itemResult{}, err
		}
		return itemResult{status: http.StatusOK, body: gin.H{"message": "Allocation deleted successfully"},
			action: "delete", table: "monthly_allocations", itemID: itemID}, nil
	})
}

func (h *BudgetHandler) withBudget(c *gin.Context, fn func(userID, budgetID string) (itemResult, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	res, err := fn(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.finish(c, userID, budgetID, res)
}

func (h *BudgetHandler) withBudgetItem(c *gin.Context, fn func(userID, budgetID, itemID string) (itemResult, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "itemID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	res, err := fn(userID, budgetID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.finish(c, userID, budgetID, res)
}

func (h *BudgetHandler) finish(c *gin.Context, userID, budgetID string, res itemResult) {
	detail, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err == nil {
		budget := detail.Budget
		h.activityService.Log(budget.HouseholdID, userID, services.ActivityEntry{
			Action:          res.action,
			TableName:       res.table,
			RecordID:        res.itemID,
			Description:     describeItemChange(res.action, res.itemName),
			MonthlyBudgetID: &budget.ID,
			Year:            &budget.Year,
			Month:           &budget.Month,
		})
		publishChange(h.hub, h.names, budget.HouseholdID, userID, res.table, res.action, res.itemID, res.itemName)
	}

	c.JSON(res.status, res.body)
}

func (h *BudgetHandler) logBudgetActivity(budget *models.MonthlyBudget, userID, action, description string) {
	h.activityService.Log(budget.HouseholdID, userID, services.ActivityEntry{
		Action:          action,
		TableName:       "monthly_budgets",
		RecordID:        budget.ID,
		Description:     description,
		MonthlyBudgetID: &budget.ID,
		Year:            &budget.Year,
		Month:           &budget.Month,
	})
}

func monthLabel(year, month int) string {
	return strconv.Itoa(year) + "-" + twoDigits(month)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
