package models

import (
	"github.com/bookstore/backend/internal/domain/partner"
)

type SupplierModel struct {
	VersionedRow
	Name        string                 `gorm:"type:varchar(200);not null"`
	ContactName string                 `gorm:"type:varchar(100)"`
	Phone       string                 `gorm:"type:varchar(50)"`
	Email       string                 `gorm:"type:varchar(200)"`
	Address     string                 `gorm:"type:text"`
	Status      partner.SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

func (SupplierModel) TableName() string { return "suppliers" }

func (m *SupplierModel) ToDomain() *partner.Supplier {
	s := &partner.Supplier{Root: m.root(), Name: m.Name, Address: m.Address, Status: m.Status}
	s.ContactName, s.Phone, s.Email = m.ContactName, m.Phone, m.Email
	return s
}

func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	return &SupplierModel{
		VersionedRow: versionedRowOf(s.Root),
		Name:         s.Name,
		ContactName:  s.ContactName,
		Phone:        s.Phone,
		Email:        s.Email,
		Address:      s.Address,
		Status:       s.Status,
	}
}
