package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	SessionName    = "lera_session"
	ContextVisitor = "visitor_id"

	sessionMaxAge = 86400 * 30
)

// NewCookieStore prépare le store de session signé par secret.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Session attribue un identifiant de visiteur stable, conservé dans un cookie.
func Session(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Un cookie illisible (secret changé) donne une nouvelle session.
		session, err := store.Get(c.Request, SessionName)
		if err != nil {
			zap.L().Debug("Session illisible, nouvelle session", zap.Error(err))
		}
		if session == nil {
			session = sessions.NewSession(store, SessionName)
		}

		visitor, _ := session.Values[ContextVisitor].(string)
		if visitor == "" {
			visitor = uuid.NewString()
			session.Values[ContextVisitor] = visitor
			if err := session.Save(c.Request, c.Writer); err != nil {
				zap.L().Warn("⚠️ Sauvegarde de session impossible", zap.Error(err))
			}
		}

		c.Set(ContextVisitor, visitor)
		c.Next()
	}
}

// CartOwner retourne l'identité du panier : l'utilisateur connecté s'il y en
// a un, sinon le visiteur de la session.
func CartOwner(c *gin.Context) string {
	if id := c.GetString(ContextUserID); id != "" {
		return "user:" + id
	}
	if v := c.GetString(ContextVisitor); v != "" {
		return "visitor:" + v
	}
	return ""
}
