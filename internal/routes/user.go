package routes

import (
	"net/http"

	"Grana/internal/contracts"
	appErrors "Grana/internal/errors"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetUserProfile(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	userEntity, err := h.UserService.GetByID(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	counts := contracts.ResourceCounts{}
	if counts.Transactions, err = h.ResourceCounter.CountTransactions(ctx, userID.String()); err != nil {
		h.respondError(c, appErrors.NewDatabaseError(err))
		return
	}
	if counts.Categories, err = h.ResourceCounter.CountCategories(ctx, userID.String()); err != nil {
		h.respondError(c, appErrors.NewDatabaseError(err))
		return
	}
	if counts.Recurrences, err = h.ResourceCounter.CountRecurrences(ctx, userID.String()); err != nil {
		h.respondError(c, appErrors.NewDatabaseError(err))
		return
	}

	c.JSON(http.StatusOK, contracts.UserProfileResponse{
		User:   userEntity,
		Counts: counts,
	})
}

func (h *Handler) UpdateUserName(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body contracts.UserUpdateNameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	ctx := c.Request.Context()
	if err := h.UserService.UpdateName(ctx, userID, body.Name); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Nome atualizado com sucesso"})
}

func (h *Handler) UpdateUserPassword(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body contracts.UserUpdatePasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	ctx := c.Request.Context()
	if err := h.UserService.UpdatePassword(ctx, userID, body.CurrentPassword, body.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Senha atualizada com sucesso"})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.UserService.Delete(ctx, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.UserDeletionResponse{Message: "Conta removida com sucesso"})
}
