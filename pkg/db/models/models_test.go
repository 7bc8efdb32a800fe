package models

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The schema tags must stay portable: postgres-only defaults live in the
// migration SQL, not here, so test databases can be built from the models.
func TestAutoMigrateBuildsFullSchema(t *testing.T) {
	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = conn.AutoMigrate(
		&Seller{}, &Product{},
		&Cart{}, &CartItem{},
		&Order{}, &OrderItem{},
		&OutboxEvent{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seller := Seller{ID: uuid.New(), Name: "seller", Email: "seller@test.local", IsActive: true}
	if err := conn.Create(&seller).Error; err != nil {
		t.Fatalf("create seller: %v", err)
	}

	var count int64
	if err := conn.Model(&Seller{}).Count(&count).Error; err != nil {
		t.Fatalf("count sellers: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 seller, got %d", count)
	}
}
