package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/migrate"
)

func TestIngredientsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_ingredients.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS ingredients",
		"CHECK (quantity >= 0)",
		"CHECK (minimum_quantity >= 0)",
		"CHECK (unit IN ('g', 'kg', 'ml', 'l', 'pcs'))",
		"DROP TABLE IF EXISTS ingredients",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMealsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_meals.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS meals",
		"CREATE TABLE IF NOT EXISTS meal_ingredients",
		"FOREIGN KEY (meal_id) REFERENCES meals(id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
		"DROP TABLE IF EXISTS meal_ingredients",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestServingRecordsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_serving_records.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS serving_records",
		"CHECK (portions > 0)",
		"DROP TABLE IF EXISTS serving_records",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAlertsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_alerts.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS alerts",
		"CHECK (kind IN ('low_stock', 'misuse'))",
		"DROP TABLE IF EXISTS alerts",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
