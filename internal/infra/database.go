package infra

import (
	"fmt"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (partial indexes, composite uniques on existing DBs).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates the schema. Also used by the gated e2e suite
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Tenant{},
		&model.TenantFeature{},
		&model.Store{},
		&model.User{},
		&model.Client{},
		&model.Product{},
		&model.StoreProduct{},
		&model.InventoryMovement{},
		&model.CashSession{},
		&model.CashMovement{},
		&model.Order{},
		&model.OrderProduct{},
		&model.Service{},
		&model.PaymentMethod{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one OPEN cash session per store.
		{"partial unique open session per store", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cash_sessions_one_open') THEN
    CREATE UNIQUE INDEX idx_cash_sessions_one_open
        ON cash_sessions (store_id)
        WHERE status = 'OPEN';
  END IF;
END $$`},
		// Email is unique per tenant when present.
		{"unique tenant+email on clients", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_clients_tenant_email') THEN
    CREATE UNIQUE INDEX idx_clients_tenant_email
        ON clients (tenant_id, email)
        WHERE email IS NOT NULL AND email <> '';
  END IF;
END $$`},
		// Audit trail queries filter by order.
		{"index inventory_movements by order", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_inventory_movements_order') THEN
    CREATE INDEX idx_inventory_movements_order
        ON inventory_movements (order_id)
        WHERE order_id IS NOT NULL;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
