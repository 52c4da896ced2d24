package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ReportService handles admin dashboard and reporting queries. It reads
// straight off the database; these are aggregate views, not lifecycle
// operations, so no repository indirection.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// DashboardData represents admin dashboard data
type DashboardData struct {
	// User statistics
	TotalUsers    int64 `json:"total_users"`
	TotalStudents int64 `json:"total_students"`
	TotalAdmins   int64 `json:"total_admins"`

	// Request statistics
	TotalRequests    int64 `json:"total_requests"`
	PendingRequests  int64 `json:"pending_requests"`
	ApprovedRequests int64 `json:"approved_requests"`
	RejectedRequests int64 `json:"rejected_requests"`

	// Today
	VisitsToday    int64 `json:"visits_today"`
	SubmittedToday int64 `json:"submitted_today"`
	CheckinsToday  int64 `json:"checkins_today"`

	// Approved requests whose visit date is today or later
	ActiveVisitors int64 `json:"active_visitors"`

	// Recent activity
	RecentRequests []RequestSummary `json:"recent_requests"`
}

// RequestSummary represents a request summary row
type RequestSummary struct {
	ID          uint      `json:"id"`
	VisitorName string    `json:"visitor_name"`
	RequestedBy string    `json:"requested_by"`
	VisitDate   time.Time `json:"visit_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetDashboard returns admin dashboard data
func (s *ReportService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	// User counts by role
	s.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL").Count(&data.TotalUsers)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "student").Count(&data.TotalStudents)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "admin").Count(&data.TotalAdmins)

	// Request counts by status
	s.db.WithContext(ctx).Table("visitor_requests").Count(&data.TotalRequests)
	s.db.WithContext(ctx).Table("visitor_requests").Where("status = ?", "PENDING_REVIEW").Count(&data.PendingRequests)
	s.db.WithContext(ctx).Table("visitor_requests").Where("status = ?", "APPROVED").Count(&data.ApprovedRequests)
	s.db.WithContext(ctx).Table("visitor_requests").Where("status = ?", "REJECTED").Count(&data.RejectedRequests)

	// Today's activity
	today := time.Now().Format("2006-01-02")
	s.db.WithContext(ctx).Table("visitor_requests").
		Where("visit_date = ? AND status = ?", today, "APPROVED").
		Count(&data.VisitsToday)
	s.db.WithContext(ctx).Table("visitor_requests").
		Where("DATE(created_at) = ?", today).
		Count(&data.SubmittedToday)
	s.db.WithContext(ctx).Table("entry_events").
		Where("DATE(created_at) = ? AND kind = ?", today, "checkin").
		Count(&data.CheckinsToday)
	s.db.WithContext(ctx).Table("visitor_requests").
		Where("visit_date >= ? AND status = ?", today, "APPROVED").
		Count(&data.ActiveVisitors)

	// Last 10 requests
	s.db.WithContext(ctx).Table("visitor_requests").
		Select("visitor_requests.id, visitor_requests.visitor_name, users.name AS requested_by, visitor_requests.visit_date, visitor_requests.status, visitor_requests.created_at").
		Joins("LEFT JOIN users ON users.id = visitor_requests.user_id").
		Order("visitor_requests.created_at DESC").
		Limit(10).
		Scan(&data.RecentRequests)

	return data, nil
}

// DailyVolume represents one day's request volume in a report
type DailyVolume struct {
	Day      string `json:"day"`
	Total    int64  `json:"total"`
	Approved int64  `json:"approved"`
	Rejected int64  `json:"rejected"`
}

// RequesterVolume represents one requester's share of a report
type RequesterVolume struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Total  int64  `json:"total"`
}

// OverviewReport represents the requests report over a date range
type OverviewReport struct {
	From          string            `json:"from"`
	To            string            `json:"to"`
	Total         int64             `json:"total"`
	Approved      int64             `json:"approved"`
	Rejected      int64             `json:"rejected"`
	Pending       int64             `json:"pending"`
	ApprovalRate  float64           `json:"approval_rate"`
	Daily         []DailyVolume     `json:"daily"`
	TopRequesters []RequesterVolume `json:"top_requesters"`
}

// GetOverview builds a request volume report for [from, to] inclusive.
// Zero times default to the trailing 30 days.
func (s *ReportService) GetOverview(ctx context.Context, from, to time.Time) (*OverviewReport, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}

	report := &OverviewReport{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
	}

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Table("visitor_requests").
			Where("DATE(created_at) BETWEEN ? AND ?", report.From, report.To)
	}

	base().Count(&report.Total)
	base().Where("status = ?", "APPROVED").Count(&report.Approved)
	base().Where("status = ?", "REJECTED").Count(&report.Rejected)
	base().Where("status = ?", "PENDING_REVIEW").Count(&report.Pending)

	if decided := report.Approved + report.Rejected; decided > 0 {
		report.ApprovalRate = float64(report.Approved) / float64(decided)
	}

	base().
		Select("DATE(created_at) AS day, COUNT(*) AS total, SUM(status = 'APPROVED') AS approved, SUM(status = 'REJECTED') AS rejected").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&report.Daily)

	base().
		Select("visitor_requests.user_id, users.name, users.email, COUNT(*) AS total").
		Joins("LEFT JOIN users ON users.id = visitor_requests.user_id").
		Group("visitor_requests.user_id, users.name, users.email").
		Order("total DESC").
		Limit(5).
		Scan(&report.TopRequesters)

	return report, nil
}

// CountPending returns the size of the review queue. Used by the morning
// digest job.
func (s *ReportService) CountPending(ctx context.Context) (int64, error) {
	var pending int64
	err := s.db.WithContext(ctx).Table("visitor_requests").
		Where("status = ?", "PENDING_REVIEW").
		Count(&pending).Error
	return pending, err
}
