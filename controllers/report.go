package controllers

import (
	"net/http"
	"salonbook-backend/services"
	"salonbook-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportController handles financial reporting and the expense ledger.
type ReportController struct {
	Reports  *services.ReportService
	Expenses *services.ExpenseService
	Log      *zap.Logger
}

type ExpenseInput struct {
	Category    *string          `json:"category" binding:"omitempty,oneof=personnel rent utility other"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	ExpenseDate *string          `json:"expense_date"`
}

// GetReport returns the rollup for ?start_date=&end_date= (default: this month).
func (rc *ReportController) GetReport(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	fields := fieldErrors{}
	start := fields.parseDate("start_date", c.Query("start_date"))
	end := fields.parseDate("end_date", c.Query("end_date"))
	if fields.respond(c) {
		return
	}

	report, err := rc.Reports.Report(c.Request.Context(), actor, start, end)
	if err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (rc *ReportController) ListExpenses(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}

	fields := fieldErrors{}
	start := fields.parseDate("start_date", c.Query("start_date"))
	end := fields.parseDate("end_date", c.Query("end_date"))
	if fields.respond(c) {
		return
	}
	from, to := services.ResolveRange(utils.StripZone(time.Now()), start, end)

	expenses, err := rc.Expenses.List(c.Request.Context(), actor, from, to)
	if err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	views := make([]expenseView, 0, len(expenses))
	for i := range expenses {
		views = append(views, newExpenseView(&expenses[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (rc *ReportController) expenseInput(c *gin.Context) (services.ExpenseInput, bool) {
	var input ExpenseInput
	if !bindJSON(c, &input) {
		return services.ExpenseInput{}, false
	}

	fields := fieldErrors{}
	var date *time.Time
	if input.ExpenseDate != nil {
		date = fields.parseDate("expense_date", *input.ExpenseDate)
	}
	if fields.respond(c) {
		return services.ExpenseInput{}, false
	}

	return services.ExpenseInput{
		Category:    input.Category,
		Amount:      input.Amount,
		Description: input.Description,
		ExpenseDate: date,
	}, true
}

func (rc *ReportController) CreateExpense(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	input, ok := rc.expenseInput(c)
	if !ok {
		return
	}
	if input.ExpenseDate == nil {
		today := utils.BeginningOfDay(utils.StripZone(time.Now()))
		input.ExpenseDate = &today
	}

	expense, err := rc.Expenses.Create(c.Request.Context(), actor, input)
	if err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	c.JSON(http.StatusCreated, newExpenseView(expense))
}

func (rc *ReportController) UpdateExpense(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	input, ok := rc.expenseInput(c)
	if !ok {
		return
	}

	expense, err := rc.Expenses.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	c.JSON(http.StatusOK, newExpenseView(expense))
}

func (rc *ReportController) DeleteExpense(c *gin.Context) {
	actor, ok := salonActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := rc.Expenses.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
