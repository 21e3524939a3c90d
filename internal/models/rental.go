package models

import (
	"time"
)

// FlatStatus describes whether a flat is available for tenancy.
type FlatStatus int

const (
	FlatVacant   FlatStatus = 0
	FlatOccupied FlatStatus = 1
)

// TenancyType is the household type a flat accepts.
// 1=Family, 2=Bachelor is the single source of truth for this mapping.
type TenancyType int

const (
	TenancyTypeFamily   TenancyType = 1
	TenancyTypeBachelor TenancyType = 2
)

// Label returns the display name for a tenancy type.
func (t TenancyType) Label() string {
	switch t {
	case TenancyTypeFamily:
		return "Family"
	case TenancyTypeBachelor:
		return "Bachelor"
	default:
		return "Unknown"
	}
}

// ApplicationStatus is the lifecycle state of a tenancy application.
type ApplicationStatus int

const (
	ApplicationPending  ApplicationStatus = 0
	ApplicationApproved ApplicationStatus = 1
	ApplicationDenied   ApplicationStatus = 2
)

// TenancyStatus is the lifecycle state of a tenancy.
type TenancyStatus int

const (
	TenancyEnded  TenancyStatus = 0
	TenancyActive TenancyStatus = 1
)

// PaymentStatus encodes how much of a payment has been settled.
// 1=paid, 2=partial, 3=unpaid everywhere.
type PaymentStatus int

const (
	PaymentPaid    PaymentStatus = 1
	PaymentPartial PaymentStatus = 2
	PaymentUnpaid  PaymentStatus = 3
)

// Label returns the display name for a payment status.
func (p PaymentStatus) Label() string {
	switch p {
	case PaymentPaid:
		return "Paid"
	case PaymentPartial:
		return "Partial"
	case PaymentUnpaid:
		return "Unpaid"
	default:
		return "Unknown"
	}
}

// NotificationStatus marks a notification as read or unread.
type NotificationStatus int

const (
	NotificationUnread NotificationStatus = 0
	NotificationRead   NotificationStatus = 1
)

// ServiceRequestStatus is the lifecycle state of a service request.
type ServiceRequestStatus int

const (
	ServiceRequestPending  ServiceRequestStatus = 0
	ServiceRequestApproved ServiceRequestStatus = 1
	ServiceRequestDenied   ServiceRequestStatus = 2
)

// Audit is the audit-column quartet every entity carries.
// ChangeNumber is a write-side version counter bumped on every update.
type Audit struct {
	CreatedBy      string    `json:"created_by" gorm:"size:120"`
	CreationDate   time.Time `json:"creation_date" gorm:"autoCreateTime"`
	LastUpdatedBy  string    `json:"last_updated_by" gorm:"size:120"`
	LastUpdateDate time.Time `json:"last_update_date" gorm:"autoUpdateTime"`
	ChangeNumber   int       `json:"change_number" gorm:"default:1"`
}

// Stamp records who performed the current write and bumps the version counter.
func (a *Audit) Stamp(by string) {
	if a.CreatedBy == "" {
		a.CreatedBy = by
	}
	a.LastUpdatedBy = by
	a.ChangeNumber++
}

// Owner is a user who lists buildings/flats and manages tenants.
type Owner struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:120;not null"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password string `json:"-" gorm:"size:255;not null"`
	Phone    string `json:"phone" gorm:"size:32"`
	Address  string `json:"address" gorm:"size:255"`
	Audit
}

// User is a tenant: a user who applies for and occupies flats.
// Owners and tenants are separate tables and separate auth domains.
type User struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Username   string `json:"username" gorm:"size:120;not null"`
	Email      string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password   string `json:"-" gorm:"size:255;not null"`
	Phone      string `json:"phone" gorm:"size:32"`
	Occupation string `json:"occupation" gorm:"size:120"`
	Audit
}

// Building belongs to one owner. VacantFlats is a cached vacancy counter
// maintained by write-side increments/decrements, never computed on read.
type Building struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	OwnerID     uint   `json:"owner_id" gorm:"index;not null"`
	Name        string `json:"name" gorm:"size:120;not null"`
	Address     string `json:"address" gorm:"size:255;not null"`
	TotalFlats  int    `json:"total_flats"`
	VacantFlats int    `json:"vacant_flats"`
	Audit

	Owner *Owner `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
}

// Flat belongs to one building.
type Flat struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	BuildingID  uint        `json:"building_id" gorm:"index;not null"`
	Name        string      `json:"name" gorm:"size:120;not null"`
	Floor       int         `json:"floor"`
	Rent        int64       `json:"rent"`
	Status      FlatStatus  `json:"status" gorm:"default:0;index"`
	TenancyType TenancyType `json:"tenancy_type" gorm:"default:1"`
	Audit

	Building *Building `json:"building,omitempty" gorm:"foreignKey:BuildingID;constraint:OnDelete:RESTRICT"`
}

// FlatCode is a short self-identification code, at most one active per flat.
type FlatCode struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	FlatID uint   `json:"flat_id" gorm:"uniqueIndex;not null"`
	Code   string `json:"code" gorm:"size:16;uniqueIndex;not null"`
	Audit

	Flat *Flat `json:"-" gorm:"foreignKey:FlatID;constraint:OnDelete:CASCADE"`
}

// Application is a tenant's request to occupy a flat.
type Application struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	FlatID     uint              `json:"flat_id" gorm:"index;not null"`
	BuildingID uint              `json:"building_id" gorm:"index;not null"`
	UserID     uint              `json:"user_id" gorm:"index;not null"`
	OwnerID    uint              `json:"owner_id" gorm:"index;not null"`
	Message    string            `json:"message" gorm:"size:500"`
	Status     ApplicationStatus `json:"status" gorm:"default:0;index"`
	Audit

	Flat     *Flat     `json:"flat,omitempty" gorm:"foreignKey:FlatID;constraint:OnDelete:RESTRICT"`
	Building *Building `json:"-" gorm:"foreignKey:BuildingID;constraint:OnDelete:RESTRICT"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Owner    *Owner    `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
}

// Tenancy is the active occupancy record linking a user, a flat and an owner.
// At most one active tenancy per user, enforced by a partial unique index
// created during migration (see database.Migrate).
type Tenancy struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	UserID    uint          `json:"user_id" gorm:"index;not null"`
	FlatID    uint          `json:"flat_id" gorm:"index;not null"`
	OwnerID   uint          `json:"owner_id" gorm:"index;not null"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Status    TenancyStatus `json:"status" gorm:"default:1;index"`
	Audit

	User *User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Flat *Flat  `json:"flat,omitempty" gorm:"foreignKey:FlatID;constraint:OnDelete:RESTRICT"`
	Own  *Owner `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
}

// Payment belongs to a tenancy.
type Payment struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	TenancyID uint          `json:"tenancy_id" gorm:"index;not null"`
	OwnerID   uint          `json:"owner_id" gorm:"index;not null"`
	Amount    int64         `json:"amount" gorm:"not null"`
	PaidOn    time.Time     `json:"paid_on"`
	Type      string        `json:"type" gorm:"size:32"`
	Status    PaymentStatus `json:"status" gorm:"default:3"`
	Audit

	Tenancy *Tenancy `json:"tenancy,omitempty" gorm:"foreignKey:TenancyID;constraint:OnDelete:RESTRICT"`
}

// Notification is addressed to a user from an owner.
type Notification struct {
	ID      uint               `json:"id" gorm:"primaryKey"`
	UserID  uint               `json:"user_id" gorm:"index;not null"`
	OwnerID uint               `json:"owner_id" gorm:"index;not null"`
	Title   string             `json:"title" gorm:"size:200;not null"`
	Body    string             `json:"body" gorm:"size:1000"`
	Status  NotificationStatus `json:"status" gorm:"default:0;index"`
	Audit

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

// ServiceRequest is a tenant-raised issue tied to a flat.
type ServiceRequest struct {
	ID      uint                 `json:"id" gorm:"primaryKey"`
	FlatID  uint                 `json:"flat_id" gorm:"index;not null"`
	UserID  uint                 `json:"user_id" gorm:"index;not null"`
	OwnerID uint                 `json:"owner_id" gorm:"index;not null"`
	Subject string               `json:"subject" gorm:"size:200;not null"`
	Details string               `json:"details" gorm:"size:1000"`
	Status  ServiceRequestStatus `json:"status" gorm:"default:0;index"`
	Audit

	Flat *Flat `json:"flat,omitempty" gorm:"foreignKey:FlatID;constraint:OnDelete:RESTRICT"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}
