package models

import (
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// BookModel is the persistence model for the Book aggregate.
type BookModel struct {
	VersionedRow
	Title         string          `gorm:"type:varchar(255);not null;index"`
	Author        string          `gorm:"type:varchar(200)"`
	ISBN          string          `gorm:"column:isbn;type:varchar(20);index"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	StockQuantity int             `gorm:"not null;default:0;check:stock_quantity >= 0"`
	IsDeleted     bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (BookModel) TableName() string {
	return "books"
}

// ToDomain converts the persistence model to a domain Book.
func (m *BookModel) ToDomain() *catalog.Book {
	return &catalog.Book{
		Root:          m.root(),
		Title:         m.Title,
		Author:        m.Author,
		ISBN:          m.ISBN,
		Price:         m.Price,
		StockQuantity: m.StockQuantity,
		IsDeleted:     m.IsDeleted,
	}
}

// FromDomain populates the persistence model from a domain Book.
func (m *BookModel) FromDomain(b *catalog.Book) {
	m.VersionedRow = versionedRowOf(b.Root)
	m.Title = b.Title
	m.Author = b.Author
	m.ISBN = b.ISBN
	m.Price = b.Price
	m.StockQuantity = b.StockQuantity
	m.IsDeleted = b.IsDeleted
}

// BookModelFromDomain creates a new persistence model from a domain Book.
func BookModelFromDomain(b *catalog.Book) *BookModel {
	m := &BookModel{}
	m.FromDomain(b)
	return m
}
