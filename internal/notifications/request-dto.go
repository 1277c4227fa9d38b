package notifications

import (
	"time"

	"ticketera/internal/shared/listing"
)

type CreateNotificationRequest struct {
	Title          string     `json:"title" binding:"required,max=200"`
	Message        string     `json:"message" binding:"required"`
	Type           string     `json:"type" binding:"omitempty,oneof=info success warning error promotion"`
	Channel        string     `json:"channel" binding:"omitempty,oneof=email sms push in-app"`
	TargetAudience string     `json:"target_audience" binding:"omitempty,oneof=all users operators admins"`
	ScheduledAt    *time.Time `json:"scheduled_at"`
}

type UpdateNotificationRequest struct {
	Title          *string `json:"title" binding:"omitempty,max=200"`
	Message        *string `json:"message"`
	Type           *string `json:"type" binding:"omitempty,oneof=info success warning error promotion"`
	Channel        *string `json:"channel" binding:"omitempty,oneof=email sms push in-app"`
	TargetAudience *string `json:"target_audience" binding:"omitempty,oneof=all users operators admins"`
}

type ScheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

type NotificationListQuery struct {
	listing.Query
	Channel string `form:"channel" binding:"omitempty,oneof=all email sms push in-app"`
}
