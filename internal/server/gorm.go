package server

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	jterrors "github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/model"
)

// ApplicationRow is the table layout of an application.
type ApplicationRow struct {
	ID          string    `gorm:"primaryKey"`
	OwnerID     string    `gorm:"index;not null"`
	CompanyName string    `gorm:"not null"`
	Position    string    `gorm:"not null"`
	DateApplied time.Time `gorm:"not null"`
	Status      string    `gorm:"not null;default:'Applied'"`
	Notes       string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ApplicationRow) TableName() string { return "applications" }

// EventRow is the table layout of a calendar event. Action items are kept
// as a JSON column.
type EventRow struct {
	ID          string             `gorm:"primaryKey"`
	OwnerID     string             `gorm:"index;not null"`
	Date        time.Time          `gorm:"not null"`
	Company     string             `gorm:"not null"`
	Position    string             `gorm:"not null"`
	Step        string             `gorm:"not null"`
	ActionItems []model.ActionItem `gorm:"serializer:json"`
	Link        string
	Notes       string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (EventRow) TableName() string { return "events" }

// ProblemRow is the table layout of a practice problem.
type ProblemRow struct {
	ID         string `gorm:"primaryKey"`
	OwnerID    string `gorm:"index;not null"`
	Name       string `gorm:"not null"`
	Difficulty string `gorm:"not null;default:'Medium'"`
	Completed  bool   `gorm:"not null;default:false"`
	URL        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ProblemRow) TableName() string { return "problems" }

// OpenPostgres connects to the database at dsn and migrates the schema.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, jterrors.NewSystemError("failed to connect to database "+logging.MaskDSN(dsn), err)
	}

	if err := db.AutoMigrate(&ApplicationRow{}, &EventRow{}, &ProblemRow{}); err != nil {
		return nil, jterrors.NewSystemErrorWithOp("migrate", "failed to migrate database", err)
	}
	return db, nil
}

// NewGormRepositories returns repositories backed by db.
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Applications: &gormRepository[*model.Application, ApplicationRow]{
			db: db, toRow: applicationToRow, fromRow: applicationFromRow,
		},
		Events: &gormRepository[*model.Event, EventRow]{
			db: db, toRow: eventToRow, fromRow: eventFromRow,
		},
		Problems: &gormRepository[*model.Problem, ProblemRow]{
			db: db, toRow: problemToRow, fromRow: problemFromRow,
		},
	}
}

// gormRepository maps records of type T onto rows of type R.
type gormRepository[T model.Entity[T], R any] struct {
	db      *gorm.DB
	toRow   func(owner string, item T) *R
	fromRow func(row *R) (item T, owner string)
}

func (r *gormRepository[T, R]) List(ctx context.Context, owner string) ([]T, error) {
	var rows []R
	if err := r.db.WithContext(ctx).Where("owner_id = ?", owner).Order("created_at").Find(&rows).Error; err != nil {
		return nil, dbError("list", err)
	}

	out := make([]T, 0, len(rows))
	for i := range rows {
		item, _ := r.fromRow(&rows[i])
		out = append(out, item)
	}
	return out, nil
}

func (r *gormRepository[T, R]) Get(ctx context.Context, id string) (T, string, bool, error) {
	var row R
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var zero T
		return zero, "", false, nil
	}
	if err != nil {
		var zero T
		return zero, "", false, dbError("get", err)
	}

	item, owner := r.fromRow(&row)
	return item, owner, true, nil
}

func (r *gormRepository[T, R]) Create(ctx context.Context, owner string, item T) (T, error) {
	row := r.toRow(owner, item)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		var zero T
		return zero, dbError("create", err)
	}
	stored, _ := r.fromRow(row)
	return stored, nil
}

func (r *gormRepository[T, R]) Save(ctx context.Context, owner string, item T) (T, error) {
	row := r.toRow(owner, item)
	if err := r.db.WithContext(ctx).Omit("created_at").Save(row).Error; err != nil {
		var zero T
		return zero, dbError("save", err)
	}
	stored, _ := r.fromRow(row)
	return stored, nil
}

func (r *gormRepository[T, R]) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(R)).Error; err != nil {
		return dbError("delete", err)
	}
	return nil
}

func dbError(op string, err error) error {
	return jterrors.NewSystemErrorWithOp(op, "database error", err)
}

func applicationToRow(owner string, a *model.Application) *ApplicationRow {
	return &ApplicationRow{
		ID:          a.ID,
		OwnerID:     owner,
		CompanyName: a.CompanyName,
		Position:    a.Position,
		DateApplied: a.DateApplied,
		Status:      string(a.Status),
		Notes:       a.Notes,
	}
}

func applicationFromRow(row *ApplicationRow) (*model.Application, string) {
	return &model.Application{
		ID:          row.ID,
		CompanyName: row.CompanyName,
		Position:    row.Position,
		DateApplied: row.DateApplied.UTC(),
		Status:      model.Status(row.Status),
		Notes:       row.Notes,
	}, row.OwnerID
}

func eventToRow(owner string, e *model.Event) *EventRow {
	return &EventRow{
		ID:          e.ID,
		OwnerID:     owner,
		Date:        e.Date,
		Company:     e.Company,
		Position:    e.Position,
		Step:        string(e.Step),
		ActionItems: e.ActionItems,
		Link:        e.Link,
		Notes:       e.Notes,
	}
}

func eventFromRow(row *EventRow) (*model.Event, string) {
	items := row.ActionItems
	if items == nil {
		items = []model.ActionItem{}
	}
	return &model.Event{
		ID:          row.ID,
		Date:        row.Date.UTC(),
		Company:     row.Company,
		Position:    row.Position,
		Step:        model.Step(row.Step),
		ActionItems: items,
		Link:        row.Link,
		Notes:       row.Notes,
	}, row.OwnerID
}

func problemToRow(owner string, p *model.Problem) *ProblemRow {
	return &ProblemRow{
		ID:         p.ID,
		OwnerID:    owner,
		Name:       p.Name,
		Difficulty: string(p.Difficulty),
		Completed:  p.Completed,
		URL:        p.URL,
	}
}

func problemFromRow(row *ProblemRow) (*model.Problem, string) {
	return &model.Problem{
		ID:         row.ID,
		Name:       row.Name,
		Difficulty: model.Difficulty(row.Difficulty),
		Completed:  row.Completed,
		URL:        row.URL,
	}, row.OwnerID
}
