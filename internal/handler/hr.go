package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendhub/internal/hr"
	"attendhub/internal/model"
)

// SubmitLeave files a pending leave application.
func (h *Handler) SubmitLeave(c *gin.Context) {
	var req struct {
		EmployeeID             string `json:"employeeId" binding:"required"`
		EmployeeName           string `json:"employeeName" binding:"required"`
		RequestedToTeacherID   string `json:"requestedToTeacherId"`
		RequestedToTeacherName string `json:"requestedToTeacherName"`
		LeaveType              string `json:"leaveType" binding:"required,oneof=sick casual annual maternity emergency"`
		StartDate              string `json:"startDate" binding:"required"`
		EndDate                string `json:"endDate" binding:"required"`
		Reason                 string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.hr.SubmitLeave(c.Request.Context(), model.LeaveApplication{
		EmployeeID:             req.EmployeeID,
		EmployeeName:           req.EmployeeName,
		RequestedToTeacherID:   req.RequestedToTeacherID,
		RequestedToTeacherName: req.RequestedToTeacherName,
		LeaveType:              req.LeaveType,
		StartDate:              req.StartDate,
		EndDate:                req.EndDate,
		Reason:                 req.Reason,
	})
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// ListLeaves returns applications, optionally for one employee.
func (h *Handler) ListLeaves(c *gin.Context) {
	apps, err := h.hr.Leaves(c.Request.Context(), c.Query("employee_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// LeaveBalance returns remaining leave days for an employee this year.
func (h *Handler) LeaveBalance(c *gin.Context) {
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		badRequest(c, errors.New("employee_id required"))
		return
	}
	balance, err := h.hr.Balance(c.Request.Context(), employeeID, time.Now().Year())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, balance)
}

type reviewRequest struct {
	Status   string `json:"status" binding:"required,oneof=approved rejected"`
	Comments string `json:"comments"`
}

// ReviewLeave approves or rejects a pending leave application.
func (h *Handler) ReviewLeave(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.hr.ReviewLeave(c.Request.Context(), c.Param("id"), req.Status, req.Comments, reviewer(c))
	if err != nil {
		reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// SubmitOD files a pending on-duty application.
func (h *Handler) SubmitOD(c *gin.Context) {
	var req struct {
		EmployeeID             string `json:"employeeId" binding:"required"`
		EmployeeName           string `json:"employeeName" binding:"required"`
		RequestedToTeacherID   string `json:"requestedToTeacherId"`
		RequestedToTeacherName string `json:"requestedToTeacherName"`
		Date                   string `json:"date" binding:"required"`
		StartTime              string `json:"startTime" binding:"required"`
		EndTime                string `json:"endTime" binding:"required"`
		Purpose                string `json:"purpose" binding:"required"`
		Location               string `json:"location" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.hr.SubmitOD(c.Request.Context(), model.ODApplication{
		EmployeeID:             req.EmployeeID,
		EmployeeName:           req.EmployeeName,
		RequestedToTeacherID:   req.RequestedToTeacherID,
		RequestedToTeacherName: req.RequestedToTeacherName,
		Date:                   req.Date,
		StartTime:              req.StartTime,
		EndTime:                req.EndTime,
		Purpose:                req.Purpose,
		Location:               req.Location,
	})
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// ListODs returns on-duty applications, optionally for one employee.
func (h *Handler) ListODs(c *gin.Context) {
	apps, err := h.hr.ODs(c.Request.Context(), c.Query("employee_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// ReviewOD approves or rejects a pending on-duty application.
func (h *Handler) ReviewOD(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.hr.ReviewOD(c.Request.Context(), c.Param("id"), req.Status, req.Comments, reviewer(c))
	if err != nil {
		reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// CreateIncident records a new incident.
func (h *Handler) CreateIncident(c *gin.Context) {
	var inc model.Incident
	if err := c.ShouldBindJSON(&inc); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.hr.CreateIncident(c.Request.Context(), inc, reviewer(c).ID)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"incident": created})
}

// ListIncidents returns incidents, optionally for one employee.
func (h *Handler) ListIncidents(c *gin.Context) {
	incidents, err := h.hr.Incidents(c.Request.Context(), c.Query("employee_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"incidents": incidents})
}

// UpdateIncident applies a patch to an incident.
func (h *Handler) UpdateIncident(c *gin.Context) {
	var patch model.Incident
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	inc, err := h.hr.UpdateIncident(c.Request.Context(), c.Param("id"), patch, reviewer(c).ID)
	if err != nil {
		reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"incident": inc})
}

// ListCalendar returns materialized events filtered by employee and month.
func (h *Handler) ListCalendar(c *gin.Context) {
	events, err := h.hr.Calendar(c.Request.Context(), c.Query("employee_id"), c.Query("month"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func reviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, hr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, hr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, hr.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		badRequest(c, err)
	}
}
