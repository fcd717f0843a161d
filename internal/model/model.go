package model

import "time"

// Attendance record status values. "absent" is inferred by calendar
// consumers and never stored on a record.
const (
	StatusCheckedIn  = "checked-in"
	StatusLate       = "late"
	StatusCheckedOut = "checked-out"
)

// Verification status stamped by the worker after re-scoring.
const (
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationUnverified = "unverified"
)

// AttendanceRecord is one check-in/check-out session for a subject on a date.
type AttendanceRecord struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Date              string     `json:"date"`        // yyyy-mm-dd
	CheckInTime       string     `json:"checkInTime"` // HH:MM:SS
	CheckOutTime      *string    `json:"checkOutTime,omitempty"`
	Timestamp         time.Time  `json:"timestamp"`
	CheckOutTimestamp *time.Time `json:"checkOutTimestamp,omitempty"`
	IsLate            bool       `json:"isLate"`
	Status            string     `json:"status"`
	WorkingHours      *float64   `json:"workingHours,omitempty"`
	AuthMethod        string     `json:"authMethod"`
	FaceConfidence    *float64   `json:"faceConfidence,omitempty"`
	Verification      string     `json:"verification"`
	Hash              string     `json:"hash"`
	Signature         string     `json:"signature"`
}

// User roles.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleStation = "station"
)

// User is a directory entry; EmployeeID doubles as student/teacher id.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Position   string `json:"position"`
	JoinDate   string `json:"joinDate"`
	EmployeeID string `json:"employeeId"`
	IsActive   bool   `json:"isActive"`
}

// Application review outcomes. Both terminal.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// LeaveApplication is a dated leave request reviewed by an admin or teacher.
type LeaveApplication struct {
	ID                     string `json:"id"`
	EmployeeID             string `json:"employeeId"`
	EmployeeName           string `json:"employeeName"`
	RequestedToTeacherID   string `json:"requestedToTeacherId,omitempty"`
	RequestedToTeacherName string `json:"requestedToTeacherName,omitempty"`
	LeaveType              string `json:"leaveType"` // sick|casual|annual|maternity|emergency
	StartDate              string `json:"startDate"`
	EndDate                string `json:"endDate"`
	TotalDays              int    `json:"totalDays"`
	Reason                 string `json:"reason"`
	Status                 string `json:"status"`
	AppliedDate            string `json:"appliedDate"`
	ReviewedBy             string `json:"reviewedBy,omitempty"`
	ReviewedDate           string `json:"reviewedDate,omitempty"`
	ReviewComments         string `json:"reviewComments,omitempty"`
}

// ODApplication is an on-duty request for a single date and time range.
type ODApplication struct {
	ID                     string `json:"id"`
	EmployeeID             string `json:"employeeId"`
	EmployeeName           string `json:"employeeName"`
	RequestedToTeacherID   string `json:"requestedToTeacherId,omitempty"`
	RequestedToTeacherName string `json:"requestedToTeacherName,omitempty"`
	Date                   string `json:"date"`
	StartTime              string `json:"startTime"`
	EndTime                string `json:"endTime"`
	Purpose                string `json:"purpose"`
	Location               string `json:"location"`
	Status                 string `json:"status"`
	AppliedDate            string `json:"appliedDate"`
	ReviewedBy             string `json:"reviewedBy,omitempty"`
	ReviewedDate           string `json:"reviewedDate,omitempty"`
	RejectionReason        string `json:"rejectionReason,omitempty"`
	ApprovalComments       string `json:"approvalComments,omitempty"`
}

// Incident lifecycle states.
const (
	IncidentOpen          = "open"
	IncidentInvestigating = "investigating"
	IncidentResolved      = "resolved"
	IncidentClosed        = "closed"
)

// Incident is a reported event tied to an employee.
type Incident struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employeeId"`
	EmployeeName     string `json:"employeeName"`
	IncidentType     string `json:"incidentType"` // disciplinary|safety|performance|attendance|other
	Severity         string `json:"severity"`     // low|medium|high|critical
	Title            string `json:"title"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	ReportedBy       string `json:"reportedBy"`
	Status           string `json:"status"`
	ActionTaken      string `json:"actionTaken,omitempty"`
	FollowUpRequired bool   `json:"followUpRequired"`
	FollowUpDate     string `json:"followUpDate,omitempty"`
}

// CalendarEvent is a materialized per-day entry derived from applications.
type CalendarEvent struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employeeId"`
	Date        string `json:"date"`
	Type        string `json:"type"` // leave|od|absent|present|late|holiday
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// AuditEntry is one line of the append-only administrative audit trail.
type AuditEntry struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	ActorID   string          `json:"userId"`
	Timestamp time.Time       `json:"timestamp"`
	Details   map[string]any  `json:"details,omitempty"`
	IPAddress string          `json:"ipAddress,omitempty"`
	UserAgent string          `json:"userAgent,omitempty"`
}
