package models

import (
	"time"

	"campus-visitpass/internal/core/domain"

	"gorm.io/gorm"
)

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;not null;default:'student'" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Deleting a user cascades to their requests (explicit design choice)
	Requests []VisitorRequest `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RequestCount int64     `json:"request_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// VisitorRequest represents visitor_requests table
type VisitorRequest struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	UserID                  uint       `gorm:"not null;index" json:"user_id"`
	VisitorName             string     `gorm:"size:100;not null" json:"visitor_name"`
	Relationship            string     `gorm:"size:50;not null" json:"relationship"`
	Mobile                  string     `gorm:"size:10;not null" json:"mobile"`
	VehicleType             string     `gorm:"size:30" json:"vehicle_type"`
	VehicleNo               *string    `gorm:"size:20" json:"vehicle_no"`
	AdditionalVisitors      int        `gorm:"not null;default:0" json:"additional_visitors"`
	VisitDate               time.Time  `gorm:"type:date;not null" json:"visit_date"`
	VisitTime               string     `gorm:"size:20;not null" json:"visit_time"`
	Purpose                 string     `gorm:"type:text;not null" json:"purpose"`
	GuestHouse              bool       `gorm:"default:false" json:"guest_house"`
	GuestHouseApprovalEmail *string    `gorm:"size:100" json:"guest_house_approval_email"`
	Status                  string     `gorm:"size:20;not null;default:'PENDING_REVIEW';index" json:"status"`
	QRCode                  *string    `gorm:"type:text" json:"qr_code"`
	ApprovedBy              *uint      `json:"approved_by"`
	ApprovedAt              *time.Time `json:"approved_at"`
	RejectReason            *string    `gorm:"size:500" json:"reject_reason"`
	CreatedAt               time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User     *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Approver *User `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
}

func (VisitorRequest) TableName() string {
	return "visitor_requests"
}

// VisitorRequestResponse DTO
type VisitorRequestResponse struct {
	ID                 uint       `json:"id"`
	VisitorName        string     `json:"visitor_name"`
	Relationship       string     `json:"relationship"`
	Mobile             string     `json:"mobile"`
	VehicleType        string     `json:"vehicle_type,omitempty"`
	VehicleNo          *string    `json:"vehicle_no,omitempty"`
	AdditionalVisitors int        `json:"additional_visitors"`
	VisitDate          string     `json:"visit_date"`
	VisitTime          string     `json:"visit_time"`
	Purpose            string     `json:"purpose"`
	GuestHouse         bool       `json:"guest_house"`
	Status             string     `json:"status"`
	QRCode             *string    `json:"qr_code,omitempty"`
	RejectReason       *string    `json:"reject_reason,omitempty"`
	RequestedBy        string     `json:"requested_by,omitempty"`
	RequesterEmail     string     `json:"requester_email,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (r *VisitorRequest) ToResponse() *VisitorRequestResponse {
	resp := &VisitorRequestResponse{
		ID:                 r.ID,
		VisitorName:        r.VisitorName,
		Relationship:       r.Relationship,
		Mobile:             r.Mobile,
		VehicleType:        r.VehicleType,
		VehicleNo:          r.VehicleNo,
		AdditionalVisitors: r.AdditionalVisitors,
		VisitDate:          r.VisitDate.Format("2006-01-02"),
		VisitTime:          r.VisitTime,
		Purpose:            r.Purpose,
		GuestHouse:         r.GuestHouse,
		Status:             r.Status,
		QRCode:             r.QRCode,
		RejectReason:       r.RejectReason,
		ApprovedAt:         r.ApprovedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if r.User != nil {
		resp.RequestedBy = r.User.Name
		resp.RequesterEmail = r.User.Email
	}

	return resp
}

// IsApproved reports whether the request is in the APPROVED state
func (r *VisitorRequest) IsApproved() bool {
	return domain.RequestStatus(r.Status) == domain.StatusApproved
}

// EntryEvent represents entry_events table (gate check-in/out audit log)
type EntryEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestID  uint      `gorm:"not null;index" json:"request_id"`
	Kind       string    `gorm:"size:10;not null" json:"kind"`
	RecordedBy *uint     `json:"recorded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Request *VisitorRequest `gorm:"foreignKey:RequestID" json:"request,omitempty"`
}

func (EntryEvent) TableName() string {
	return "entry_events"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&VisitorRequest{},
		&EntryEvent{},
	)
}
