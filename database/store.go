package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/modeloptions/database/query"
	"github.com/kbukum/modeloptions/errors"
	"github.com/kbukum/modeloptions/logger"
	"github.com/kbukum/modeloptions/observability"
	"github.com/kbukum/modeloptions/options"
	"github.com/kbukum/modeloptions/owner"
	"github.com/kbukum/modeloptions/sniff"
	"github.com/kbukum/modeloptions/validation"
)

// StorePersisted labels spans and metrics of OptionStore.
const StorePersisted = "persisted"

const optionResource = "option"

// searchConfig controls which option columns Search may filter, sort and
// facet on.
var searchConfig = query.Config{
	SearchFields: []string{"key", "value"},
	Filters:      []string{"owner_type", "owner_id", "key", "value"},
	Sorts:        []string{"owner_type", "owner_id", "key", "value", "created_at", "updated_at"},
	DefaultSort:  "key",
	Facets:       []string{"owner_type", "key"},
}

var ownerKeyConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "owner_type"}, {Name: "owner_id"}, {Name: "key"}},
	DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
}

// OptionStore persists options in the model_options table, one row per
// (owner type, owner id, key).
type OptionStore struct {
	db      *DB
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewOptionStore creates an OptionStore over db. The table must exist.
func NewOptionStore(db *DB) *OptionStore {
	return &OptionStore{db: db, log: logger.Get("database")}
}

// WithMetrics records operation metrics on m.
func (s *OptionStore) WithMetrics(m *observability.Metrics) *OptionStore {
	s.metrics = m
	return s
}

// SetOption upserts the formatted value. The row keeps its id and
// created_at on overwrite.
func (s *OptionStore) SetOption(ctx context.Context, o owner.Owner, key string, value any) (err error) {
	req, err := options.NewRequest(o, key)
	if err != nil {
		return err
	}
	text, err := sniff.Format(value)
	if err != nil {
		return err
	}
	if err := validation.Var("value", text, "max=255"); err != nil {
		return err
	}

	ctx, op := observability.StartOperation(ctx, s.metrics, StorePersisted, observability.SpanSetOption, req.OwnerType, key)
	defer func() { op.End(ctx, err) }()

	row := Option{OwnerType: req.OwnerType, OwnerID: req.OwnerID, Key: key, Value: text}
	if err := s.db.WithContext(ctx).Clauses(ownerKeyConflict).Create(&row).Error; err != nil {
		return s.fail(ctx, "set_option", req, err)
	}
	return nil
}

// GetOption returns the sniffed stored value, or def when no row exists.
func (s *OptionStore) GetOption(ctx context.Context, o owner.Owner, key string, def any) (_ any, err error) {
	req, err := options.NewRequest(o, key)
	if err != nil {
		return nil, err
	}
	ctx, op := observability.StartOperation(ctx, s.metrics, StorePersisted, observability.SpanGetOption, req.OwnerType, key)
	defer func() { op.End(ctx, err) }()

	var row Option
	res := s.where(ctx, req).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, s.fail(ctx, "get_option", req, res.Error)
	}
	if res.RowsAffected == 0 {
		op.SetOutcome(observability.OutcomeMiss)
		return def, nil
	}
	op.SetOutcome(observability.OutcomeHit)
	return sniff.Detect(row.Value), nil
}

// HasOption reports whether a row exists, whatever its value.
func (s *OptionStore) HasOption(ctx context.Context, o owner.Owner, key string) (_ bool, err error) {
	req, err := options.NewRequest(o, key)
	if err != nil {
		return false, err
	}
	ctx, op := observability.StartOperation(ctx, s.metrics, StorePersisted, observability.SpanHasOption, req.OwnerType, key)
	defer func() { op.End(ctx, err) }()

	var count int64
	if err := s.where(ctx, req).Model(&Option{}).Count(&count).Error; err != nil {
		return false, s.fail(ctx, "has_option", req, err)
	}
	if count == 0 {
		op.SetOutcome(observability.OutcomeMiss)
		return false, nil
	}
	op.SetOutcome(observability.OutcomeHit)
	return true, nil
}

// DeleteOption removes the row. Deleting a key that is not set returns a
// NOT_FOUND error.
func (s *OptionStore) DeleteOption(ctx context.Context, o owner.Owner, key string) (err error) {
	req, err := options.NewRequest(o, key)
	if err != nil {
		return err
	}
	ctx, op := observability.StartOperation(ctx, s.metrics, StorePersisted, observability.SpanDeleteOption, req.OwnerType, key)
	defer func() { op.End(ctx, err) }()

	res := s.where(ctx, req).Delete(&Option{})
	if res.Error != nil {
		return s.fail(ctx, "delete_option", req, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFound(optionResource, key).WithDetails(map[string]any{
			"owner_type": req.OwnerType,
			"owner_id":   req.OwnerID,
		})
	}
	return nil
}

// Options returns every option of o, values sniffed.
func (s *OptionStore) Options(ctx context.Context, o owner.Owner) (_ map[string]any, err error) {
	req, err := options.NewRequest(o, "")
	if err != nil {
		return nil, err
	}
	ctx, op := observability.StartOperation(ctx, s.metrics, StorePersisted, observability.SpanListOptions, req.OwnerType, "")
	defer func() { op.End(ctx, err) }()

	var rows []Option
	if err := s.ownerScope(ctx, req).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&rows).Error; err != nil {
		return nil, s.fail(ctx, "list_options", req, err)
	}
	out := make(map[string]any, len(rows))
	for _, row := range rows {
		out[row.Key] = sniff.Detect(row.Value)
	}
	return out, nil
}

// Purge deletes every option of o and returns the number of rows removed.
func (s *OptionStore) Purge(ctx context.Context, o owner.Owner) (_ int64, err error) {
	req, err := options.NewRequest(o, "")
	if err != nil {
		return 0, err
	}
	ctx, op := observability.StartOperation(ctx, s.metrics, StorePersisted, observability.SpanPurgeOptions, req.OwnerType, "")
	defer func() { op.End(ctx, err) }()

	res := s.ownerScope(ctx, req).Delete(&Option{})
	if res.Error != nil {
		return 0, s.fail(ctx, "purge_options", req, res.Error)
	}
	fields := logger.OptionFields("purge", req.OwnerType, req.OwnerID, "")
	fields["rows"] = res.RowsAffected
	s.log.WithContext(ctx).Debug("Purged options", fields)
	return res.RowsAffected, nil
}

// Search pages through option rows of any owner. Filters and sorts are
// limited to the owner, key and value columns and the timestamps; values are
// returned as stored.
func (s *OptionStore) Search(ctx context.Context, params query.Params) (_ *query.Result[Option], err error) {
	ctx, op := observability.StartOperation(ctx, s.metrics, StorePersisted, observability.SpanSearch, "", "")
	defer func() { op.End(ctx, err) }()

	result, err := query.Find[Option](s.db.WithContext(ctx).Model(&Option{}), params, searchConfig)
	if err != nil {
		return nil, s.fail(ctx, "search_options", options.Request{}, err)
	}
	return result, nil
}

func (s *OptionStore) ownerScope(ctx context.Context, req options.Request) *gorm.DB {
	return s.db.WithContext(ctx).Where(map[string]interface{}{
		"owner_type": req.OwnerType,
		"owner_id":   req.OwnerID,
	})
}

func (s *OptionStore) where(ctx context.Context, req options.Request) *gorm.DB {
	return s.db.WithContext(ctx).Where(map[string]interface{}{
		"owner_type": req.OwnerType,
		"owner_id":   req.OwnerID,
		"key":        req.Key,
	})
}

func (s *OptionStore) fail(ctx context.Context, op string, req options.Request, err error) error {
	appErr := FromDatabase(err, optionResource)
	s.log.WithContext(ctx).
		WithOption(req.OwnerType, req.OwnerID, req.Key).
		Error("option query failed", logger.MergeWithError(logger.Fields(logger.FieldOperation, op), err))
	return appErr
}

var _ options.Store = (*OptionStore)(nil)
