package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

var errNoToken = errors.New("token manquant")

// parseBearer vérifie le jeton d'accès émis par le backend hébergé (HS256).
func parseBearer(header string, secret []byte) (jwt.MapClaims, error) {
	if header == "" {
		return nil, errNoToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errors.New("format Authorization invalide")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("token invalide")
	}
	if sub, _ := claims["sub"].(string); sub == "" {
		return nil, errors.New("sub manquant")
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims jwt.MapClaims) {
	c.Set(ContextUserID, claims["sub"].(string))
	if email, ok := claims["email"].(string); ok {
		c.Set(ContextEmail, email)
	}
}

// OptionalAuth renseigne user_id quand un jeton valide est présent ;
// sinon la requête continue en visiteur anonyme.
func OptionalAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		claims, err := parseBearer(c.GetHeader("Authorization"), key)
		if err == nil {
			setClaims(c, claims)
		} else if !errors.Is(err, errNoToken) {
			zap.L().Debug("Jeton ignoré", zap.Error(err))
		}
		c.Next()
	}
}

func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if c.GetString(ContextUserID) != "" {
			c.Next()
			return
		}
		claims, err := parseBearer(c.GetHeader("Authorization"), key)
		if err != nil {
			zap.L().Info("❌ Authentification refusée", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}
