package routes

import (
	"net/http"
	"time"

	"Grana/internal/contracts"
	"Grana/internal/domain/transaction"
	appErrors "Grana/internal/errors"
	"Grana/internal/pkg"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

func (h *Handler) CreateTransaction(c *gin.Context) {
	var body contracts.TransactionCreateRequest

	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	transactionEntity := transaction.Transaction{
		Type:          transaction.Types(body.Type),
		UserId:        userID,
		Amount:        body.Amount,
		Description:   body.Description,
		Notes:         body.Notes,
		Tags:          datatypes.JSONSlice[string](body.Tags),
		PaymentMethod: body.PaymentMethod,
		Reference:     body.Reference,
		Date:          body.Date,
	}

	if body.CategoryId != "" {
		categoryID, err := pkg.ParseULID(body.CategoryId)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("category_id", "formato inválido"))
			return
		}
		transactionEntity.CategoryId = &categoryID
	}

	ctx := c.Request.Context()
	if err := h.TransactionService.CreateTransaction(ctx, &transactionEntity); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.TransactionCreateResponse{
		Message:     "Transação criada com sucesso",
		Transaction: transactionEntity,
	})
}

func (h *Handler) GetTransactions(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filters, err := parseTransactionFilters(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)

	ctx := c.Request.Context()
	transactions, total, err := h.TransactionService.GetAllTransactions(ctx, userID, filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := pkg.NewPaginatedResponse(transactions, pagination.Page, pagination.Limit, total)
	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetTransaction(c *gin.Context) {
	transactionID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	transactionEntity, err := h.TransactionService.GetTransactionByID(ctx, transactionID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.TransactionSingleResponse{Transaction: transactionEntity})
}

func (h *Handler) UpdateTransaction(c *gin.Context) {
	transactionID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body contracts.TransactionUpdateRequest
	if err = c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	transactionEntity := transaction.Transaction{
		Id:            transactionID,
		UserId:        userID,
		Type:          transaction.Types(body.Type),
		Amount:        body.Amount,
		Description:   body.Description,
		Notes:         body.Notes,
		Tags:          datatypes.JSONSlice[string](body.Tags),
		PaymentMethod: body.PaymentMethod,
		Reference:     body.Reference,
	}

	if body.CategoryId != "" {
		categoryID, err := pkg.ParseULID(body.CategoryId)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("category_id", "formato inválido"))
			return
		}
		transactionEntity.CategoryId = &categoryID
	}

	if body.Date != nil {
		transactionEntity.Date = *body.Date
	}

	ctx := c.Request.Context()
	if err := h.TransactionService.UpdateTransaction(ctx, &transactionEntity); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Transação atualizada com sucesso"})
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	transactionID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.TransactionService.DeleteTransaction(ctx, transactionID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Transação removida com sucesso"})
}

func (h *Handler) ExportTransactions(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filters, err := parseTransactionFilters(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)

	ctx := c.Request.Context()
	if err := h.TransactionService.ExportCSV(ctx, userID, filters, c.Writer); err != nil {
		h.respondError(c, err)
		return
	}
}

func (h *Handler) ImportTransactions(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("file", "arquivo é obrigatório"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	result, err := h.TransactionService.ImportCSV(ctx, userID, file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.TransactionImportResponse{
		Message: "Importação concluída",
		Result:  result,
	})
}

func parseTransactionFilters(c *gin.Context) (*transaction.Filters, error) {
	filters := &transaction.Filters{}

	if raw := c.Query("type"); raw != "" {
		flow := transaction.Types(raw)
		if !flow.IsValid() {
			return nil, appErrors.NewValidationError("type", "deve ser INCOME ou EXPENSE")
		}
		filters.Type = &flow
	}

	if raw := c.Query("category_id"); raw != "" {
		parsed, err := pkg.ParseULID(raw)
		if err != nil {
			return nil, appErrors.NewValidationError("category_id", "formato inválido")
		}
		filters.CategoryId = &parsed
	}

	if raw := c.Query("recurrence_rule_id"); raw != "" {
		parsed, err := pkg.ParseULID(raw)
		if err != nil {
			return nil, appErrors.NewValidationError("recurrence_rule_id", "formato inválido")
		}
		filters.RecurrenceRuleId = &parsed
	}

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, appErrors.NewValidationError("from", "use o formato AAAA-MM-DD")
		}
		filters.From = &parsed
	}

	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, appErrors.NewValidationError("to", "use o formato AAAA-MM-DD")
		}
		filters.To = &parsed
	}

	return filters, nil
}
