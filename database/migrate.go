package database

import (
	"fmt"

	"gorm.io/gorm"

	"contactus-backend/models"
)

// AutoMigrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - composite index for the staff list ordering (postgres only)
// - CHECK constraints mirroring the field limits (postgres only)
func AutoMigrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.ContactSubmission{},
			&models.StaffUser{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		if tx.Dialector.Name() != "postgres" {
			return nil
		}

		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_contact_submissions_created_id ON contact_submissions (created_at DESC, id DESC)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		checks := []struct{ name, expr string }{
			{"chk_contact_submissions_name_nonblank", `btrim(name) <> ''`},
			{"chk_contact_submissions_email_nonblank", `btrim(email) <> ''`},
			{"chk_contact_submissions_subject_nonblank", `btrim(subject) <> ''`},
			{"chk_contact_submissions_inquiry_nonblank", `btrim(inquiry) <> ''`},
		}
		for _, c := range checks {
			stmt := `DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = 'contact_submissions'::regclass
		  AND conname  = '` + c.name + `'
	) THEN
		ALTER TABLE contact_submissions
		ADD CONSTRAINT ` + c.name + `
		CHECK (` + c.expr + `);
	END IF;
END $$;`
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on %s: %w", c.name, err)
			}
		}
		return nil
	})
}
