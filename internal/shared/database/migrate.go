package database

import (
	"fmt"

	"ticketera/internal/blog"
	"ticketera/internal/bookings"
	"ticketera/internal/events"
	"ticketera/internal/notifications"
	"ticketera/internal/seats"
	"ticketera/internal/settings"
	"ticketera/internal/transport"
	"ticketera/internal/users"
	"ticketera/internal/venues"

	"gorm.io/gorm"
)

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&users.Profile{},
		&users.UserRole{},
		&venues.Venue{},
		&events.Event{},
		&seats.EventSeat{},
		&transport.Company{},
		&transport.Route{},
		&bookings.Booking{},
		&notifications.Notification{},
		&blog.BlogPost{},
		&settings.Setting{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
