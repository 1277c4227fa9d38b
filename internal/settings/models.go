package settings

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSettingNotFound = errors.New("setting not found")

// Setting is one row of the platform configuration screen
type Setting struct {
	Key         string     `json:"key" gorm:"primaryKey;size:100"`
	Value       string     `json:"value" gorm:"type:text;not null;default:''"`
	Description string     `json:"description" gorm:"size:255"`
	UpdatedBy   *uuid.UUID `json:"updated_by,omitempty" gorm:"type:uuid"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Defaults are inserted by the seeder when the table is empty.
func Defaults() []Setting {
	return []Setting{
		{Key: "site.name", Value: "Ticketera", Description: "Name shown in emails and page titles"},
		{Key: "site.support_email", Value: "soporte@ticketera.pe", Description: "Reply-to address for customer emails"},
		{Key: "checkout.currency", Value: "PEN", Description: "Currency code used at checkout"},
		{Key: "checkout.service_fee_percent", Value: "0", Description: "Service fee added on top of seat prices"},
		{Key: "checkout.qr_expiry_minutes", Value: "15", Description: "Minutes before a QR payment code expires"},
		{Key: "platform.maintenance_mode", Value: "false", Description: "Show the maintenance banner on public pages"},
	}
}
