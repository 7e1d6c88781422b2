// Package migrations registers the schema migrations. Import it for its
// side effects before running the migration commands.
package migrations

import (
	"gorm.io/gorm"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &createTables{models: []interface{}{&models.User{}}, tables: []string{"users"}})
	migration.Register("20260101000001_create_addresses_table", &createTables{models: []interface{}{&models.Address{}}, tables: []string{"addresses"}})
	migration.Register("20260101000002_create_products_table", &createTables{models: []interface{}{&models.Product{}}, tables: []string{"products"}})
	migration.Register("20260101000003_create_messages_table", &createTables{models: []interface{}{&models.Message{}}, tables: []string{"messages"}})
	migration.Register("20260101000004_create_orders_tables", &createTables{
		models: []interface{}{&models.Order{}, &models.OrderItem{}},
		tables: []string{"order_items", "orders"},
	})
	migration.Register("20260101000005_create_names_table", &createTables{models: []interface{}{&models.Name{}}, tables: []string{"names"}})
}

// createTables auto-migrates models on Up and drops tables, in order, on Down.
type createTables struct {
	models []interface{}
	tables []string
}

func (m *createTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.models...)
}

func (m *createTables) Down(db *gorm.DB) error {
	for _, t := range m.tables {
		if err := db.Migrator().DropTable(t); err != nil {
			return err
		}
	}
	return nil
}
