package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE users (
				user_id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				full_name TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL DEFAULT 'staff',
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				is_synced BOOLEAN NOT NULL DEFAULT FALSE,
				sync_status TEXT NOT NULL DEFAULT 'pending'
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// Case-insensitive unique usernames
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_users_username ON users (username COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE patients (
				patient_id INTEGER PRIMARY KEY AUTOINCREMENT,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL DEFAULT '',
				age INTEGER NOT NULL,
				gender TEXT NOT NULL,
				contact TEXT NOT NULL DEFAULT '',
				address TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				is_synced BOOLEAN NOT NULL DEFAULT FALSE,
				sync_status TEXT NOT NULL DEFAULT 'pending'
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE suppliers (
				supplier_id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				contact TEXT NOT NULL DEFAULT '',
				email TEXT,
				address TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				is_synced BOOLEAN NOT NULL DEFAULT FALSE,
				sync_status TEXT NOT NULL DEFAULT 'pending'
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE drugs (
				drug_id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				category TEXT NOT NULL DEFAULT '',
				quantity INTEGER NOT NULL DEFAULT 0,
				unit_price REAL NOT NULL DEFAULT 0,
				expiry_date TIMESTAMPTZ,
				supplier_id INTEGER REFERENCES suppliers (supplier_id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				is_synced BOOLEAN NOT NULL DEFAULT FALSE,
				sync_status TEXT NOT NULL DEFAULT 'pending'
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_drugs_supplier_id ON drugs (supplier_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE prescriptions (
				prescription_id INTEGER PRIMARY KEY AUTOINCREMENT,
				patient_id INTEGER REFERENCES patients (patient_id) NOT NULL,
				user_id INTEGER REFERENCES users (user_id) NOT NULL,
				diagnosis TEXT NOT NULL DEFAULT '',
				medication TEXT NOT NULL,
				dosage TEXT NOT NULL DEFAULT '',
				instructions TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				is_synced BOOLEAN NOT NULL DEFAULT FALSE,
				sync_status TEXT NOT NULL DEFAULT 'pending'
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_prescriptions_patient_id ON prescriptions (patient_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE sales (
				sale_id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER REFERENCES users (user_id) NOT NULL,
				patient_id INTEGER REFERENCES patients (patient_id),
				total_amount REAL NOT NULL DEFAULT 0,
				sale_date TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				is_synced BOOLEAN NOT NULL DEFAULT FALSE,
				sync_status TEXT NOT NULL DEFAULT 'pending'
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE sale_items (
				sale_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
				sale_id INTEGER REFERENCES sales (sale_id) NOT NULL,
				drug_id INTEGER REFERENCES drugs (drug_id) NOT NULL,
				quantity INTEGER NOT NULL,
				unit_price REAL NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				is_synced BOOLEAN NOT NULL DEFAULT FALSE,
				sync_status TEXT NOT NULL DEFAULT 'pending'
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_sale_items_sale_id ON sale_items (sale_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE sync_queue (
				queue_id INTEGER PRIMARY KEY AUTOINCREMENT,
				table_name TEXT NOT NULL,
				operation TEXT NOT NULL,
				record_id INTEGER NOT NULL,
				data TEXT,
				status TEXT NOT NULL DEFAULT 'pending',
				error TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_sync_queue_status ON sync_queue (status, created_at)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE app_config (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// Sync is opt-in; the settings screen flips this on.
		_, err = db.Exec(`INSERT INTO app_config (key, value) VALUES ('sync_enabled', '0')`)
		if err != nil {
			return errors.WithStack(err)
		}
		return nil
	}
	down := func(_ context.Context, _ *bun.DB) error {
		return nil
	}

	Migrations.MustRegister(up, down)
}
