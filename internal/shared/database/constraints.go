package database

import (
	"fmt"

	"gorm.io/gorm"
)

type constraint struct {
	name  string
	table string
	ddl   string
}

var constraints = []constraint{
	{
		name:  "chk_transport_routes_seats",
		table: "transport_routes",
		ddl:   "CHECK (available_seats >= 0 AND available_seats <= total_seats)",
	},
	{
		name:  "chk_bookings_target",
		table: "bookings",
		ddl:   "CHECK ((booking_type = 'event' AND event_id IS NOT NULL) OR (booking_type = 'transport' AND route_id IS NOT NULL))",
	},
}

// MigrateConstraints adds the table constraints AutoMigrate cannot express.
// Postgres has no ADD CONSTRAINT IF NOT EXISTS, so each one is guarded by a catalog lookup.
func MigrateConstraints(db *gorm.DB) error {
	for _, c := range constraints {
		stmt := fmt.Sprintf(`
			DO $$
			BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					ALTER TABLE %s ADD CONSTRAINT %s %s;
				END IF;
			END $$;`, c.name, c.table, c.name, c.ddl)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", c.name, err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_bookings_user_created ON bookings (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_due ON notifications (scheduled_at) WHERE status = 'scheduled' AND sent_at IS NULL`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
