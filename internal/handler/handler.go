package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendhub/internal/attendance"
	"attendhub/internal/auth"
	"attendhub/internal/config"
	"attendhub/internal/hr"
	"attendhub/internal/model"
	"attendhub/internal/queue"
	"attendhub/internal/users"
)

// AuditTrail is the audit surface the handler needs.
type AuditTrail interface {
	Append(ctx context.Context, action, actorID string, details map[string]any)
	List(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

// Handler owns the HTTP surface of the API server.
type Handler struct {
	cfg     config.App
	users   *users.Service
	att     *attendance.Service
	hr      *hr.Service
	audit   AuditTrail
	queue   queue.Queue
	revoker *auth.Revoker
}

// New wires a handler over the service layer.
func New(cfg config.App, us *users.Service, att *attendance.Service, hrs *hr.Service, al AuditTrail, q queue.Queue, revoker *auth.Revoker) *Handler {
	return &Handler{cfg: cfg, users: us, att: att, hr: hrs, audit: al, queue: q, revoker: revoker}
}

// Register mounts all routes on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/stations/register", h.RegisterStation)

	authed := r.Group("/v1", auth.Middleware(h.cfg.JWTSigningKey, h.cfg.JWTIssuer, h.revoker))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)

	authed.POST("/attendance/checkin", auth.RequireRole(model.RoleStation, model.RoleAdmin), h.CheckIn)
	authed.POST("/attendance/checkout", auth.RequireRole(model.RoleStation, model.RoleAdmin), h.CheckOut)
	authed.GET("/attendance", h.ListAttendance)

	admin := authed.Group("", auth.RequireRole(model.RoleAdmin))
	admin.GET("/attendance/integrity", h.IntegrityReport)
	admin.GET("/attendance/export", h.ExportData)
	admin.POST("/attendance/import", h.ImportData)
	admin.GET("/attendance/report.xlsx", h.AttendanceReport)
	admin.GET("/audit", h.ListAudit)
	admin.GET("/users", h.ListUsers)
	admin.PUT("/users/:id", h.UpdateUser)

	authed.GET("/teachers", h.ListTeachers)

	authed.POST("/leaves", h.SubmitLeave)
	authed.GET("/leaves", h.ListLeaves)
	authed.GET("/leaves/balance", h.LeaveBalance)
	authed.POST("/leaves/:id/review", auth.RequireRole(model.RoleAdmin, model.RoleTeacher), h.ReviewLeave)

	authed.POST("/od", h.SubmitOD)
	authed.GET("/od", h.ListODs)
	authed.POST("/od/:id/review", auth.RequireRole(model.RoleAdmin, model.RoleTeacher), h.ReviewOD)

	authed.POST("/incidents", auth.RequireRole(model.RoleAdmin, model.RoleTeacher), h.CreateIncident)
	authed.GET("/incidents", h.ListIncidents)
	authed.PATCH("/incidents/:id", auth.RequireRole(model.RoleAdmin, model.RoleTeacher), h.UpdateIncident)

	authed.GET("/calendar", h.ListCalendar)
}

// reviewer builds the acting user from verified claims.
func reviewer(c *gin.Context) model.User {
	claims := auth.ClaimsFrom(c)
	return model.User{ID: claims.Subject, FullName: claims.Name, Role: claims.Role}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
