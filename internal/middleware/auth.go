package middleware

import (
	"context"
	"strings"
	"time"

	"Grana/config"
	"Grana/internal/domain/user"
	appErrors "Grana/internal/errors"
	"Grana/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type JwtService struct {
	secret          []byte
	issuer          string
	expirationHours int
	userService     *user.Service
}

func NewJwtService(cfg config.JWTConfig, userService *user.Service) (*JwtService, error) {
	if cfg.Secret == "" {
		return nil, appErrors.NewAuthError("JWT_SECRET_MISSING", "Segredo JWT não configurado")
	}

	expirationHours := cfg.ExpirationHours
	if expirationHours <= 0 {
		expirationHours = 24
	}

	return &JwtService{
		secret:          []byte(cfg.Secret),
		issuer:          cfg.Issuer,
		expirationHours: expirationHours,
		userService:     userService,
	}, nil
}

// GenerateToken emite um token HS256 com o id do usuário no subject.
func (s *JwtService) GenerateToken(userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.expirationHours) * time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, appErrors.ErrInternalServer.WithError(err)
	}

	return signed, expiresAt, nil
}

// ValidateToken confere assinatura e expiração e devolve o id do usuário.
// Tokens de usuários removidos são rejeitados.
func (s *JwtService) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.NewAuthError("INVALID_SIGNING_METHOD", "Método de assinatura inválido")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", appErrors.NewAuthError("INVALID_TOKEN", "Token inválido ou expirado")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", appErrors.NewAuthError("INVALID_TOKEN", "Token inválido ou expirado")
	}

	userID, err := pkg.ParseULID(claims.Subject)
	if err != nil {
		return "", appErrors.NewAuthError("INVALID_TOKEN", "Token inválido ou expirado")
	}

	if s.userService != nil {
		if err := s.userService.Exists(ctx, userID); err != nil {
			return "", appErrors.NewAuthError("USER_NOT_FOUND", "Usuário do token não existe mais")
		}
	}

	return claims.Subject, nil
}

func AuthMiddleware(jwtService *JwtService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithAuthError(c, appErrors.NewAuthError("MISSING_TOKEN", "Token de autenticação não informado"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithAuthError(c, appErrors.NewAuthError("INVALID_AUTH_HEADER", "Cabeçalho Authorization deve ser 'Bearer {token}'"))
			return
		}

		userID, err := jwtService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			appErr := appErrors.FromError(err)
			abortWithAuthError(c, appErr)
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

func abortWithAuthError(c *gin.Context, appErr *appErrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}
