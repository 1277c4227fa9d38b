package notifications

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadySent          = errors.New("notification already sent")
	ErrInvalidSchedule      = errors.New("scheduled time must be in the future")
	ErrNoRecipients         = errors.New("no recipients for target audience")
)

type Type string

const (
	TypeInfo      Type = "info"
	TypeSuccess   Type = "success"
	TypeWarning   Type = "warning"
	TypeError     Type = "error"
	TypePromotion Type = "promotion"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "in-app"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusScheduled Status = "scheduled"
	StatusFailed    Status = "failed"
)

// Audience selects recipients by role
type Audience string

const (
	AudienceAll       Audience = "all"
	AudienceUsers     Audience = "users"
	AudienceOperators Audience = "operators"
	AudienceAdmins    Audience = "admins"
)

type Notification struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string     `json:"title" gorm:"not null"`
	Message         string     `json:"message" gorm:"type:text;not null"`
	Type            Type       `json:"type" gorm:"type:varchar(20);not null;default:'info'"`
	Channel         Channel    `json:"channel" gorm:"type:varchar(20);not null;default:'email'"`
	TargetAudience  Audience   `json:"target_audience" gorm:"type:varchar(20);not null;default:'all'"`
	Status          Status     `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty" gorm:"index"`
	SentAt          *time.Time `json:"sent_at,omitempty"`
	ReadCount       int        `json:"read_count" gorm:"default:0"`
	ClickCount      int        `json:"click_count" gorm:"default:0"`
	TotalRecipients int        `json:"total_recipients" gorm:"default:0"`
	LastError       string     `json:"last_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Editable reports whether the notification may still change or be sent
func (n Notification) Editable() bool {
	return n.Status != StatusSent
}

// Recipient is one addressee resolved from the target audience
type Recipient struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

// DispatchMessage is carried on the notification-dispatch topic
type DispatchMessage struct {
	NotificationID uuid.UUID `json:"notification_id"`
	RequestedAt    time.Time `json:"requested_at"`
}
