package routes

import (
	"net/http"

	"Grana/internal/contracts"
	"Grana/internal/domain/auth"
	"Grana/internal/domain/user"
	appErrors "Grana/internal/errors"
	"Grana/internal/logger"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Registration(c *gin.Context) {
	var body contracts.RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	entity := user.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	}

	ctx := c.Request.Context()
	if err := h.AuthService.Register(ctx, &entity); err != nil {
		h.respondError(c, err)
		return
	}

	// Categorias padrão são cortesia: falhar aqui não desfaz o registro.
	if err := h.CategoryService.CreateDefaults(ctx, entity.Id); err != nil {
		logger.Warn().Err(err).Str("user_id", entity.Id.String()).Msg("Falha ao semear categorias padrão")
	}

	token, expiresAt, err := h.JwtService.GenerateToken(entity.Id.String())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.AuthResponse{
		Message:   "Usuário registrado com sucesso",
		Token:     token,
		ExpiresAt: expiresAt,
		User:      &entity,
	})
}

func (h *Handler) Authenticate(c *gin.Context) {
	var body contracts.LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	ctx := c.Request.Context()
	entity, err := h.AuthService.Login(ctx, auth.Login{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, expiresAt, err := h.JwtService.GenerateToken(entity.Id.String())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.AuthResponse{
		Message:   "Login realizado com sucesso",
		Token:     token,
		ExpiresAt: expiresAt,
		User:      entity,
	})
}
