package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/modeloptions/database"
)

// LoadOptions inserts rows as-is. Rows without an id get a fresh one.
func LoadOptions(ctx context.Context, db *database.DB, rows ...database.Option) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rows).Error
}

// MustLoadOptions loads rows and fails the test on error.
func MustLoadOptions(t testing.TB, db *database.DB, rows ...database.Option) {
	t.Helper()
	if err := LoadOptions(context.Background(), db, rows...); err != nil {
		t.Fatalf("LoadOptions failed: %v", err)
	}
}

// TruncateOptions deletes every row of model_options.
func TruncateOptions(ctx context.Context, db *database.DB) error {
	return db.WithContext(ctx).Where("1 = 1").Delete(&database.Option{}).Error
}

// CountOptions returns the number of rows of owner ownerType/ownerID, or of
// the whole table when ownerType is empty.
func CountOptions(db *database.DB, ownerType, ownerID string) (int64, error) {
	q := db.WithContext(context.Background()).Model(&database.Option{})
	if ownerType != "" {
		q = q.Where(map[string]interface{}{"owner_type": ownerType, "owner_id": ownerID})
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// AssertOptionCount fails the test when the owner does not have want rows.
func AssertOptionCount(t testing.TB, db *database.DB, ownerType, ownerID string, want int64) {
	t.Helper()
	got, err := CountOptions(db, ownerType, ownerID)
	if err != nil {
		t.Fatalf("failed to count options: %v", err)
	}
	if got != want {
		t.Errorf("option count for %s:%s = %d, want %d", ownerType, ownerID, got, want)
	}
}
