package hr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"attendhub/internal/model"
)

var (
	// ErrNotFound means the application id does not exist.
	ErrNotFound = errors.New("application not found")
	// ErrForbidden means the actor's role may not review applications.
	ErrForbidden = errors.New("reviewer must be an admin or teacher")
	// ErrAlreadyReviewed guards the terminal states: approved and rejected
	// applications accept no further transitions.
	ErrAlreadyReviewed = errors.New("application already reviewed")
	// ErrBadDateRange means the range does not parse or ends before it starts.
	ErrBadDateRange = errors.New("invalid date range")
)

// Annual leave quotas per calendar year, in days.
const (
	quotaAnnual = 21
	quotaSick   = 12
	quotaCasual = 12
)

// Store is the persistence surface the service needs.
type Store interface {
	InsertLeave(ctx context.Context, app model.LeaveApplication) error
	GetLeave(ctx context.Context, id string) (*model.LeaveApplication, error)
	ListLeaves(ctx context.Context, employeeID string) ([]model.LeaveApplication, error)
	UpdateLeaveReview(ctx context.Context, app model.LeaveApplication) error

	InsertOD(ctx context.Context, app model.ODApplication) error
	GetOD(ctx context.Context, id string) (*model.ODApplication, error)
	ListODs(ctx context.Context, employeeID string) ([]model.ODApplication, error)
	UpdateODReview(ctx context.Context, app model.ODApplication) error

	InsertIncident(ctx context.Context, inc model.Incident) error
	GetIncident(ctx context.Context, id string) (*model.Incident, error)
	ListIncidents(ctx context.Context, employeeID string) ([]model.Incident, error)
	UpdateIncident(ctx context.Context, inc model.Incident) error

	ListEvents(ctx context.Context, employeeID, monthPrefix string) ([]model.CalendarEvent, error)
	ReplaceEvent(ctx context.Context, ev model.CalendarEvent) error
	DeleteEventsByPrefix(ctx context.Context, prefix string) error
}

// Auditor appends entries to the audit trail.
type Auditor interface {
	Append(ctx context.Context, action, actorID string, details map[string]any)
}

// Service runs the leave/OD approval workflows, incident tracking, and the
// materialized calendar.
type Service struct {
	store Store
	audit Auditor
	now   func() time.Time
}

// NewService creates a service backed by a store.
func NewService(store Store, audit Auditor) *Service {
	return &Service{store: store, audit: audit, now: time.Now}
}

// SubmitLeave files a pending leave application and materializes one
// calendar event per covered day.
func (s *Service) SubmitLeave(ctx context.Context, app model.LeaveApplication) (model.LeaveApplication, error) {
	days, err := walkDates(app.StartDate, app.EndDate)
	if err != nil {
		return model.LeaveApplication{}, err
	}
	app.ID = "leave_" + uuid.NewString()
	app.TotalDays = len(days)
	app.Status = model.ApplicationPending
	app.AppliedDate = s.now().Format("2006-01-02")
	app.ReviewedBy, app.ReviewedDate, app.ReviewComments = "", "", ""

	if err := s.store.InsertLeave(ctx, app); err != nil {
		return model.LeaveApplication{}, err
	}
	if err := s.materializeLeave(ctx, app, days); err != nil {
		return model.LeaveApplication{}, err
	}
	s.audit.Append(ctx, "LEAVE_SUBMITTED", app.EmployeeID, map[string]any{
		"applicationId": app.ID, "days": app.TotalDays,
	})
	return app, nil
}

// ReviewLeave moves a pending application to approved or rejected and
// regenerates the covered calendar days with the final status.
func (s *Service) ReviewLeave(ctx context.Context, id, status, comments string, reviewer model.User) (model.LeaveApplication, error) {
	if err := checkReview(status, reviewer); err != nil {
		return model.LeaveApplication{}, err
	}
	app, err := s.store.GetLeave(ctx, id)
	if err != nil {
		return model.LeaveApplication{}, err
	}
	if app == nil {
		return model.LeaveApplication{}, ErrNotFound
	}
	if app.Status != model.ApplicationPending {
		return model.LeaveApplication{}, ErrAlreadyReviewed
	}

	app.Status = status
	app.ReviewedBy = reviewer.FullName
	app.ReviewedDate = s.now().Format("2006-01-02")
	app.ReviewComments = comments
	if err := s.store.UpdateLeaveReview(ctx, *app); err != nil {
		return model.LeaveApplication{}, err
	}

	days, err := walkDates(app.StartDate, app.EndDate)
	if err != nil {
		return model.LeaveApplication{}, err
	}
	if err := s.materializeLeave(ctx, *app, days); err != nil {
		return model.LeaveApplication{}, err
	}
	s.audit.Append(ctx, "LEAVE_REVIEWED", reviewer.ID, map[string]any{
		"applicationId": app.ID, "status": status,
	})
	return *app, nil
}

// materializeLeave prunes the leave's existing calendar days and rewrites
// one event per covered day carrying the application's current status.
func (s *Service) materializeLeave(ctx context.Context, app model.LeaveApplication, days []string) error {
	if err := s.store.DeleteEventsByPrefix(ctx, "leave_"+app.ID+"_"); err != nil {
		return err
	}
	title := titleCase(app.LeaveType) + " Leave"
	for _, day := range days {
		ev := model.CalendarEvent{
			ID:          fmt.Sprintf("leave_%s_%s", app.ID, day),
			EmployeeID:  app.EmployeeID,
			Date:        day,
			Type:        "leave",
			Title:       title,
			Description: app.Reason,
			Status:      app.Status,
		}
		if err := s.store.ReplaceEvent(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Leaves lists applications, optionally for one employee.
func (s *Service) Leaves(ctx context.Context, employeeID string) ([]model.LeaveApplication, error) {
	return s.store.ListLeaves(ctx, employeeID)
}

// LeaveBalance summarizes remaining leave days for an employee's current year.
type LeaveBalance struct {
	Annual int `json:"annual"`
	Sick   int `json:"sick"`
	Casual int `json:"casual"`
}

// Balance subtracts approved leave starting in the given year from the quotas.
func (s *Service) Balance(ctx context.Context, employeeID string, year int) (LeaveBalance, error) {
	apps, err := s.store.ListLeaves(ctx, employeeID)
	if err != nil {
		return LeaveBalance{}, err
	}
	prefix := fmt.Sprintf("%04d", year)
	used := map[string]int{}
	for _, app := range apps {
		if app.Status == model.ApplicationApproved && strings.HasPrefix(app.StartDate, prefix) {
			used[app.LeaveType] += app.TotalDays
		}
	}
	return LeaveBalance{
		Annual: max(0, quotaAnnual-used["annual"]),
		Sick:   max(0, quotaSick-used["sick"]),
		Casual: max(0, quotaCasual-used["casual"]),
	}, nil
}

// SubmitOD files a pending on-duty application.
func (s *Service) SubmitOD(ctx context.Context, app model.ODApplication) (model.ODApplication, error) {
	if app.Date == "" {
		return model.ODApplication{}, errors.New("date required")
	}
	app.ID = "od_" + uuid.NewString()
	app.Status = model.ApplicationPending
	app.AppliedDate = s.now().Format("2006-01-02")
	app.ReviewedBy, app.ReviewedDate, app.RejectionReason, app.ApprovalComments = "", "", "", ""

	if err := s.store.InsertOD(ctx, app); err != nil {
		return model.ODApplication{}, err
	}
	s.audit.Append(ctx, "OD_SUBMITTED", app.EmployeeID, map[string]any{"applicationId": app.ID})
	return app, nil
}

// ReviewOD moves a pending OD application to approved or rejected. The same
// role gate as leave review applies.
func (s *Service) ReviewOD(ctx context.Context, id, status, comments string, reviewer model.User) (model.ODApplication, error) {
	if err := checkReview(status, reviewer); err != nil {
		return model.ODApplication{}, err
	}
	app, err := s.store.GetOD(ctx, id)
	if err != nil {
		return model.ODApplication{}, err
	}
	if app == nil {
		return model.ODApplication{}, ErrNotFound
	}
	if app.Status != model.ApplicationPending {
		return model.ODApplication{}, ErrAlreadyReviewed
	}

	app.Status = status
	app.ReviewedBy = reviewer.FullName
	app.ReviewedDate = s.now().Format("2006-01-02")
	if status == model.ApplicationApproved {
		app.ApprovalComments = comments
	} else {
		app.RejectionReason = comments
	}
	if err := s.store.UpdateODReview(ctx, *app); err != nil {
		return model.ODApplication{}, err
	}
	s.audit.Append(ctx, "OD_REVIEWED", reviewer.ID, map[string]any{
		"applicationId": app.ID, "status": status,
	})
	return *app, nil
}

// ODs lists on-duty applications, optionally for one employee.
func (s *Service) ODs(ctx context.Context, employeeID string) ([]model.ODApplication, error) {
	return s.store.ListODs(ctx, employeeID)
}

// CreateIncident records a new incident.
func (s *Service) CreateIncident(ctx context.Context, inc model.Incident, actorID string) (model.Incident, error) {
	if inc.Title == "" || inc.EmployeeID == "" {
		return model.Incident{}, errors.New("employee and title required")
	}
	inc.ID = "incident_" + uuid.NewString()
	if inc.Status == "" {
		inc.Status = model.IncidentOpen
	}
	if inc.Date == "" {
		inc.Date = s.now().Format("2006-01-02")
	}
	if err := s.store.InsertIncident(ctx, inc); err != nil {
		return model.Incident{}, err
	}
	s.audit.Append(ctx, "INCIDENT_CREATED", actorID, map[string]any{"incidentId": inc.ID})
	return inc, nil
}

// UpdateIncident applies a patch to an incident. Zero-valued patch fields
// leave the stored value untouched.
func (s *Service) UpdateIncident(ctx context.Context, id string, patch model.Incident, actorID string) (model.Incident, error) {
	inc, err := s.store.GetIncident(ctx, id)
	if err != nil {
		return model.Incident{}, err
	}
	if inc == nil {
		return model.Incident{}, ErrNotFound
	}
	if patch.Status != "" {
		inc.Status = patch.Status
	}
	if patch.ActionTaken != "" {
		inc.ActionTaken = patch.ActionTaken
	}
	if patch.Severity != "" {
		inc.Severity = patch.Severity
	}
	if patch.Description != "" {
		inc.Description = patch.Description
	}
	if patch.FollowUpDate != "" {
		inc.FollowUpDate = patch.FollowUpDate
		inc.FollowUpRequired = true
	}
	if err := s.store.UpdateIncident(ctx, *inc); err != nil {
		return model.Incident{}, err
	}
	s.audit.Append(ctx, "INCIDENT_UPDATED", actorID, map[string]any{"incidentId": inc.ID})
	return *inc, nil
}

// Incidents lists incidents, optionally for one employee.
func (s *Service) Incidents(ctx context.Context, employeeID string) ([]model.Incident, error) {
	return s.store.ListIncidents(ctx, employeeID)
}

// Calendar lists materialized events filtered by employee and yyyy-mm month.
func (s *Service) Calendar(ctx context.Context, employeeID, month string) ([]model.CalendarEvent, error) {
	return s.store.ListEvents(ctx, employeeID, month)
}

func checkReview(status string, reviewer model.User) error {
	if status != model.ApplicationApproved && status != model.ApplicationRejected {
		return fmt.Errorf("status must be %q or %q", model.ApplicationApproved, model.ApplicationRejected)
	}
	if reviewer.Role != model.RoleAdmin && reviewer.Role != model.RoleTeacher {
		return ErrForbidden
	}
	return nil
}

// walkDates expands an inclusive yyyy-mm-dd range into its days.
func walkDates(start, end string) ([]string, error) {
	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, ErrBadDateRange
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, ErrBadDateRange
	}
	if to.Before(from) {
		return nil, ErrBadDateRange
	}
	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
