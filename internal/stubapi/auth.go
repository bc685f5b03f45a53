package stubapi

import (
	"net/http"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	sessionCookie = "token"
	sessionMaxAge = 86400

	userContextKey = "user"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return apperr.NewValidation("Usuario y contraseña requeridos")
	}

	pass, ok := a.cfg.Users[req.Username]
	if !ok || pass != req.Password {
		return &apperr.HTTPStatusError{Code: http.StatusUnauthorized, Message: "Credenciales inválidas"}
	}

	token := uuid.NewString()
	a.mu.Lock()
	a.sessions[token] = req.Username
	a.mu.Unlock()

	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   sessionMaxAge,
	})

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Login exitoso",
		"user": map[string]any{
			"id":       a.userIDs[req.Username],
			"username": req.Username,
		},
	})
}

func (a *API) logout(c echo.Context) error {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		a.mu.Lock()
		delete(a.sessions, cookie.Value)
		a.mu.Unlock()
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	return c.JSON(http.StatusOK, map[string]string{"message": "Sesión cerrada exitosamente"})
}

func (a *API) verifyToken(c echo.Context) error {
	user, ok := a.sessionUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]bool{"valid": false})
	}
	return c.JSON(http.StatusOK, map[string]any{"valid": true, "user_id": a.userIDs[user]})
}

func (a *API) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := a.sessionUser(c)
		if !ok {
			return &apperr.HTTPStatusError{Code: http.StatusUnauthorized, Message: "Sesión no válida"}
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

func (a *API) sessionUser(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	user, ok := a.sessions[cookie.Value]
	return user, ok
}

// currentUser is the username requireAuth resolved for this request.
func currentUser(c echo.Context) string {
	user, _ := c.Get(userContextKey).(string)
	return user
}
