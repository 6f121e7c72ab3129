package models

import (
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Row carries the key and timestamps every table shares
type Row struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func rowOf(e shared.Identity) Row {
	return Row{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

func (r Row) identity() shared.Identity {
	return shared.Identity{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// VersionedRow backs an aggregate root. Version is the optimistic lock the
// repositories compare on update; pending domain events are not stored.
type VersionedRow struct {
	Row
	Version int `gorm:"not null;default:1"`
}

func versionedRowOf(a shared.Root) VersionedRow {
	return VersionedRow{Row: rowOf(a.Identity), Version: a.Version}
}

func (r VersionedRow) root() shared.Root {
	return shared.Root{Identity: r.identity(), Version: r.Version}
}
