package database

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMigrateCreatesSlotTable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !db.Migrator().HasTable("availability_slots") {
		t.Fatal("expected availability_slots table")
	}
	for _, col := range []string{"aircraft_id", "start_time", "end_time", "status", "source"} {
		if !db.Migrator().HasColumn("availability_slots", col) {
			t.Fatalf("expected column %s", col)
		}
	}
}
