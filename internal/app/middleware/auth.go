package middleware

import (
	"net/http"
	"strings"

	"labservices/internal/app/config"
	"labservices/internal/app/ds"
	"labservices/internal/app/redis"
	"labservices/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const bearerPrefix = "Bearer "

type AuthMiddleware struct {
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthMiddleware(redisClient *redis.Client, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// WithAuthCheck проверяет JWT из заголовка Authorization и роль пользователя.
// Данные пользователя кладутся в контекст: userID, userLogin, userRole
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		jwtStr := strings.TrimPrefix(gCtx.GetHeader("Authorization"), bearerPrefix)
		if jwtStr == "" {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// отозванные при выходе токены лежат в blacklist;
		// без redis-клиента проверка пропускается
		if am.RedisClient != nil {
			if err := am.RedisClient.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr); err == nil {
				gCtx.AbortWithStatus(http.StatusUnauthorized)
				return
			}
		}

		token, err := jwt.ParseWithClaims(jwtStr, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(am.Config.JWT.Token), nil
		})
		if err != nil {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(*ds.JWTClaims)
		if !ok || !token.Valid {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		allowed := len(assignedRoles) == 0
		for _, assignedRole := range assignedRoles {
			if claims.Role == assignedRole {
				allowed = true
				break
			}
		}
		if !allowed {
			gCtx.AbortWithStatus(http.StatusForbidden)
			return
		}

		gCtx.Set("userID", claims.UserID)
		gCtx.Set("userLogin", claims.Login)
		gCtx.Set("userRole", claims.Role)

		gCtx.Next()
	}
}
