package db

import (
	"log"
	"time"

	"github.com/salonflow/salon-queue/internal/config"
	"github.com/salonflow/salon-queue/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Facility{},
		&models.Employee{},
		&models.Service{},
		&models.Appointment{},
		&models.EmployeeQueueEntry{},
		&models.CustomerQueueEntry{},
		&models.DailyQueueCounter{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// One active queue entry per employee per facility. AutoMigrate cannot
	// express a partial index, so it is created directly.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_active_entry_per_employee
        ON employee_queue_entries (facility_id, employee_id)
        WHERE is_active
    `)

	return db
}
