package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	console "eduport/internal/utils/logger"
)

var log = console.New("BACKEND")

// GormClient implements Client on top of a gorm connection, working
// generically across tables by resource name.
type GormClient struct {
	db *gorm.DB
}

// NewGormClient wraps a gorm handle. A nil handle yields an unconfigured
// client: every call short-circuits with ErrUnconfigured instead of
// panicking, so the application degrades to read-only stub behaviour.
func NewGormClient(db *gorm.DB) *GormClient {
	if db == nil {
		log.Warn("no database handle, data service runs unconfigured")
	}
	return &GormClient{db: db}
}

func (g *GormClient) Query(ctx context.Context, resource string, filters []Filter, order OrderBy) ([]Record, error) {
	if g.db == nil {
		return nil, ErrUnconfigured
	}

	query := g.db.WithContext(ctx).Table(resource)
	for _, f := range filters {
		switch f.Op {
		case "=", "<=", ">=", "<", ">":
			query = query.Where(fmt.Sprintf("%s %s ?", f.Field, f.Op), f.Value)
		default:
			return nil, fmt.Errorf("unsupported filter op %q on %s", f.Op, f.Field)
		}
	}

	direction := "asc"
	if order.Desc {
		direction = "desc"
	}
	if order.Field != "" {
		query = query.Order(fmt.Sprintf("%s %s", order.Field, direction))
	}
	// Creation order breaks ties between equal sort values.
	query = query.Order("created_at asc")

	var rows []map[string]interface{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record(row)
	}
	return records, nil
}

func (g *GormClient) Insert(ctx context.Context, resource string, record Record) (Record, error) {
	if g.db == nil {
		return nil, ErrUnconfigured
	}

	row := map[string]interface{}(record.Clone())
	if record.ID() == "" {
		row["id"] = uuid.New().String()
	}
	now := time.Now()
	row["created_at"] = now
	row["updated_at"] = now

	if err := g.db.WithContext(ctx).Table(resource).Create(row).Error; err != nil {
		return nil, err
	}

	return g.take(ctx, resource, row["id"].(string))
}

func (g *GormClient) Update(ctx context.Context, resource string, id string, partial Record) (Record, error) {
	if g.db == nil {
		return nil, ErrUnconfigured
	}

	row := map[string]interface{}(partial.Clone())
	delete(row, "id")
	delete(row, "created_at")
	row["updated_at"] = time.Now()

	res := g.db.WithContext(ctx).Table(resource).Where("id = ?", id).Updates(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return g.take(ctx, resource, id)
}

func (g *GormClient) Delete(ctx context.Context, resource string, id string) error {
	if g.db == nil {
		return ErrUnconfigured
	}

	// Zero rows affected means the row was already gone, which is fine.
	return g.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", resource), id).Error
}

func (g *GormClient) DeleteWhereIn(ctx context.Context, resource string, field string, values []string) error {
	if g.db == nil {
		return ErrUnconfigured
	}
	if len(values) == 0 {
		return nil
	}

	return g.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s WHERE %s IN ?", resource, field), values).Error
}

func (g *GormClient) take(ctx context.Context, resource, id string) (Record, error) {
	var row map[string]interface{}
	err := g.db.WithContext(ctx).Table(resource).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Record(row), nil
}
