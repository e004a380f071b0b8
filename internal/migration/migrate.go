package migration

import (
	"fmt"

	"github.com/olagu/console/pkg/kvstore"
	"gorm.io/gorm"
)

// Tables the record store needs
var Tables = []interface{}{&kvstore.Record{}, &kvstore.Sequence{}}

// Run creates or updates the record store tables. Existing rows are untouched.
func Run(db *gorm.DB) error {
	if err := kvstore.Migrate(db); err != nil {
		return fmt.Errorf("migrate record store: %w", err)
	}
	return nil
}

// Pending lists the record store tables that do not exist yet
func Pending(db *gorm.DB) ([]string, error) {
	var missing []string
	m := db.Migrator()
	for _, t := range Tables {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(t); err != nil {
			return nil, err
		}
		if !m.HasTable(t) {
			missing = append(missing, stmt.Schema.Table)
		}
	}
	return missing, nil
}
