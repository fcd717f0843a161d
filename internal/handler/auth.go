package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendhub/internal/auth"
	"attendhub/internal/model"
	"attendhub/internal/users"
)

// Login validates credentials and mints a session token bounded by the
// configured session TTL.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if err == users.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	session, err := auth.Issue(user.ID, user.FullName, user.Role, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt.Unix(),
		"user":       user,
	})
}

// Logout revokes the presented session token.
func (h *Handler) Logout(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if err := h.revoker.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		log.Printf("logout: revoke failed: %v", err)
	}
	h.audit.Append(c.Request.Context(), "LOGOUT", claims.Subject, nil)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims.Role == model.RoleStation {
		c.JSON(http.StatusOK, gin.H{"station_id": claims.Subject, "role": claims.Role})
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), claims.Subject)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RegisterStation registers a kiosk and issues a station-scoped token.
func (h *Handler) RegisterStation(c *gin.Context) {
	var req struct {
		StationID string `json:"station_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.att.RegisterStation(c.Request.Context(), req.StationID); err != nil {
		badRequest(c, err)
		return
	}
	session, err := auth.Issue(req.StationID, req.StationID, model.RoleStation, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt.Unix(),
	})
}

// ListUsers returns the active directory. Admin only.
func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.users.ListActive(c.Request.Context(), c.Query("role"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

// ListTeachers returns active teachers, the reviewer pool for requests.
func (h *Handler) ListTeachers(c *gin.Context) {
	list, err := h.users.Teachers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"teachers": list})
}

// UpdateUser replaces a user's profile fields. Admin only.
func (h *Handler) UpdateUser(c *gin.Context) {
	var u model.User
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, err)
		return
	}
	u.ID = c.Param("id")
	if err := h.users.Update(c.Request.Context(), u, auth.ClaimsFrom(c).Subject); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
