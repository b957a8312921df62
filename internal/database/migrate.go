package database

import (
	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

// noOverlapConstraint is a Postgres range-exclusion constraint over
// non-cancelled bookings. It enforces the overlap invariant in the database
// itself, so it holds even for writes that bypass the repository's
// in-transaction recheck. SQLite has no equivalent, there the recheck alone
// carries the invariant.
const noOverlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
		ALTER TABLE bookings
			ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (
				field_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			)
			WHERE (status <> 'cancelled');
	END IF;
END
$$;
`

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Team{},
		&domain.Field{},
		&domain.Booking{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
			return err
		}
		if err := db.Exec(noOverlapConstraint).Error; err != nil {
			return err
		}
	}

	return nil
}
