package routes

import (
	"errors"
	"io"
	"net/http"
	"time"

	"Grana/internal/contracts"
	"Grana/internal/domain/recurring"
	"Grana/internal/domain/transaction"
	appErrors "Grana/internal/errors"
	"Grana/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateRecurring(c *gin.Context) {
	var body contracts.RecurrenceCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	req := &recurring.CreateRecurrenceRequest{
		UserId:        userID,
		Type:          transaction.Types(body.Type),
		Amount:        body.Amount,
		Description:   body.Description,
		Notes:         body.Notes,
		Tags:          body.Tags,
		PaymentMethod: body.PaymentMethod,
		Reference:     body.Reference,
		Frequency:     recurring.FrequencyType(body.Frequency),
		Interval:      body.Interval,
		StartDate:     body.StartDate,
		EndDate:       body.EndDate,
	}

	if body.CategoryId != "" {
		categoryID, err := pkg.ParseULID(body.CategoryId)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("category_id", "formato invalido"))
			return
		}
		req.CategoryId = &categoryID
	}

	ctx := c.Request.Context()
	rule, err := h.RecurringService.CreateRecurrence(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Regra que ja nasce vencida acorda o agendador sem esperar o tick.
	if h.Scheduler != nil && !rule.NextRunDate.After(time.Now()) {
		h.Scheduler.Notify()
	}

	c.JSON(http.StatusCreated, contracts.RecurrenceCreateResponse{
		Message:    "Recorrencia criada com sucesso",
		Recurrence: contracts.NewRecurrenceView(rule),
	})
}

func (h *Handler) ListRecurrings(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)

	ctx := c.Request.Context()
	rules, total, err := h.RecurringService.ListRecurrences(ctx, userID, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]*contracts.RecurrenceView, 0, len(rules))
	for _, rule := range rules {
		views = append(views, contracts.NewRecurrenceView(rule))
	}

	response := pkg.NewPaginatedResponse(views, pagination.Page, pagination.Limit, total)
	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetRecurring(c *gin.Context) {
	ruleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	rule, err := h.RecurringService.GetRecurrenceByID(ctx, ruleID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.RecurrenceSingleResponse{Recurrence: contracts.NewRecurrenceView(rule)})
}

func (h *Handler) UpdateRecurring(c *gin.Context) {
	ruleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body contracts.RecurrenceUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	req := &recurring.UpdateRecurrenceRequest{
		Description:   body.Description,
		Notes:         body.Notes,
		Tags:          body.Tags,
		PaymentMethod: body.PaymentMethod,
		Reference:     body.Reference,
		EndDate:       body.EndDate,
		ClearEndDate:  body.ClearEndDate,
	}

	ctx := c.Request.Context()
	rule, err := h.RecurringService.UpdateRecurrence(ctx, ruleID, userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.RecurrenceActionResponse{
		Message:    "Recorrencia atualizada com sucesso",
		Recurrence: contracts.NewRecurrenceView(rule),
	})
}

func (h *Handler) DeleteRecurring(c *gin.Context) {
	ruleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.RecurringService.DeleteRecurrence(ctx, ruleID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Recorrencia removida com sucesso"})
}

func (h *Handler) PauseRecurring(c *gin.Context) {
	ruleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	rule, err := h.RecurringService.Pause(ctx, ruleID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.RecurrenceActionResponse{
		Message:    "Recorrencia pausada com sucesso",
		Recurrence: contracts.NewRecurrenceView(rule),
	})
}

func (h *Handler) ResumeRecurring(c *gin.Context) {
	ruleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	rule, err := h.RecurringService.Resume(ctx, ruleID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.RecurrenceActionResponse{
		Message:    "Recorrencia reativada com sucesso",
		Recurrence: contracts.NewRecurrenceView(rule),
	})
}

func (h *Handler) SkipRecurring(c *gin.Context) {
	ruleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	rule, err := h.RecurringService.SkipNext(ctx, ruleID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.RecurrenceActionResponse{
		Message:    "Proxima ocorrencia pulada com sucesso",
		Recurrence: contracts.NewRecurrenceView(rule),
	})
}

func (h *Handler) SplitRecurring(c *gin.Context) {
	ruleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body contracts.RecurrenceSplitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	req := &recurring.EditFutureRequest{
		Amount:        body.Amount,
		Description:   body.Description,
		ClearCategory: body.ClearCategory,
		Notes:         body.Notes,
		Tags:          body.Tags,
		PaymentMethod: body.PaymentMethod,
		Reference:     body.Reference,
		Interval:      body.Interval,
		EndDate:       body.EndDate,
		ClearEndDate:  body.ClearEndDate,
		IsActive:      body.IsActive,
	}

	if body.Type != nil {
		flow := transaction.Types(*body.Type)
		req.Type = &flow
	}

	if body.Frequency != nil {
		frequency := recurring.FrequencyType(*body.Frequency)
		req.Frequency = &frequency
	}

	categoryID, err := pkg.ParseULIDPtr(body.CategoryId)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("category_id", "formato invalido"))
		return
	}
	req.CategoryId = categoryID

	endCurrent := true
	if body.EndCurrent != nil {
		endCurrent = *body.EndCurrent
	}

	ctx := c.Request.Context()
	result, err := h.RecurringService.EditFuture(ctx, ruleID, userID, req, endCurrent)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.RecurrenceSplitResponse{
		Message:   "Serie dividida com sucesso",
		Original:  contracts.NewRecurrenceView(result.Original),
		Successor: contracts.NewRecurrenceView(result.Successor),
	})
}

func (h *Handler) GenerateRecurring(c *gin.Context) {
	ruleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body contracts.RecurrenceGenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	asOf := time.Now()
	if body.GenerateUntilDate != nil {
		asOf = *body.GenerateUntilDate
	}

	ctx := c.Request.Context()
	result, err := h.RecurringService.Generate(ctx, ruleID, userID, asOf)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.RecurrenceGenerateResponse{
		Message:      "Transacoes geradas com sucesso",
		Generated:    result.Generated,
		Transactions: result.Transactions,
		Recurrence:   contracts.NewRecurrenceView(result.Rule),
	})
}

func (h *Handler) PreviewRecurring(c *gin.Context) {
	ruleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	count := 0
	if raw := c.Query("count"); raw != "" {
		parsed, err := pkg.ParseInt(raw)
		if err != nil || parsed < 1 {
			h.respondError(c, appErrors.NewValidationError("count", "deve ser um inteiro positivo"))
			return
		}
		count = parsed
	}

	ctx := c.Request.Context()
	occurrences, err := h.RecurringService.Preview(ctx, ruleID, userID, count)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.RecurrencePreviewResponse{
		RuleId:      ruleID.String(),
		Occurrences: occurrences,
	})
}

func (h *Handler) ListRecurrenceTransactions(c *gin.Context) {
	ruleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)

	ctx := c.Request.Context()
	transactions, total, err := h.TransactionService.GetTransactionsByRecurrence(ctx, ruleID, userID, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := pkg.NewPaginatedResponse(transactions, pagination.Page, pagination.Limit, total)
	c.JSON(http.StatusOK, response)
}
