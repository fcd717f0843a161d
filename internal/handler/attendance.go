package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"attendhub/internal/attendance"
	"attendhub/internal/model"
	"attendhub/internal/queue"
	"attendhub/internal/report"
)

type attendanceRequest struct {
	Name       string   `json:"name" binding:"required"`
	Confidence *float64 `json:"confidence"`
}

// CheckIn records a new attendance session and queues it for verification.
func (h *Handler) CheckIn(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rec, err := h.att.CheckIn(c.Request.Context(), req.Name, req.Confidence)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.queue.Publish(c.Request.Context(), queue.Message{Type: "verify", Body: []byte(rec.ID)}); err != nil {
		log.Printf("queue publish failed: %v", err)
	}
	c.JSON(http.StatusCreated, gin.H{"record": rec})
}

// CheckOut closes today's open session for the subject. With no open
// session nothing is mutated and the caller gets a 404.
func (h *Handler) CheckOut(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rec, err := h.att.CheckOut(c.Request.Context(), req.Name, req.Confidence)
	if err != nil {
		if errors.Is(err, attendance.ErrNoOpenCheckIn) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec})
}

// ListAttendance returns verified records, optionally filtered by name and
// date prefix (yyyy-mm-dd or yyyy-mm).
func (h *Handler) ListAttendance(c *gin.Context) {
	limit, offset := 100, 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	recs, err := h.att.Records(c.Request.Context(), c.Query("name"), c.Query("date"), limit, offset)
	if err != nil {
		// Storage failures degrade to an empty result, not an error page.
		log.Printf("list attendance failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"records": []model.AttendanceRecord{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": recs})
}

// IntegrityReport summarizes seal verification across all records.
func (h *Handler) IntegrityReport(c *gin.Context) {
	rep, err := h.att.Integrity(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// ExportData returns a JSON backup of verified records and the audit trail.
func (h *Handler) ExportData(c *gin.Context) {
	recs, err := h.att.Records(c.Request.Context(), "", "", 1<<30, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logs, err := h.audit.List(c.Request.Context(), 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": recs, "auditLogs": logs})
}

// ImportData replaces the record set with the verified subset of a backup.
func (h *Handler) ImportData(c *gin.Context) {
	var req struct {
		Records []model.AttendanceRecord `json:"records" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	accepted, rejected, err := h.att.Import(c.Request.Context(), req.Records, reviewer(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": accepted, "rejected": rejected})
}

// AttendanceReport streams the verified records as a spreadsheet.
func (h *Handler) AttendanceReport(c *gin.Context) {
	recs, err := h.att.Records(c.Request.Context(), c.Query("name"), c.Query("date"), 1<<30, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="attendance.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := report.WriteAttendanceXLSX(c.Writer, recs); err != nil {
		log.Printf("attendance report failed: %v", err)
	}
}

// ListAudit returns the newest audit entries. Admin only.
func (h *Handler) ListAudit(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	entries, err := h.audit.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
