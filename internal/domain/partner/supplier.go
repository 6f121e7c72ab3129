// Package partner holds the publishers and distributors that deliver stock.
package partner

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/bookstore/backend/internal/domain/shared"
)

type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

const maxSupplierName = 200

// Supplier is referenced by stock receipts. Only active suppliers may
// deliver new stock.
type Supplier struct {
	shared.Root
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	Status      SupplierStatus
}

func NewSupplier(name string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, shared.NewValidationError("supplier name is required")
	case utf8.RuneCountInString(name) > maxSupplierName:
		return nil, shared.NewValidationError("supplier name is longer than %d characters", maxSupplierName)
	}
	return &Supplier{Root: shared.NewRoot(), Name: name, Status: SupplierStatusActive}, nil
}

// SetContact replaces the contact details; an empty email is allowed
func (s *Supplier) SetContact(contactName, phone, email string) error {
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("supplier email %q is not a valid address", email)
		}
	}
	s.ContactName, s.Phone, s.Email = strings.TrimSpace(contactName), strings.TrimSpace(phone), email
	s.changed()
	return nil
}

func (s *Supplier) Deactivate() error {
	if !s.IsActive() {
		return shared.NewDomainError(shared.CodeInvalidState, "supplier is already inactive")
	}
	s.Status = SupplierStatusInactive
	s.changed()
	return nil
}

func (s *Supplier) IsActive() bool { return s.Status == SupplierStatusActive }

func (s *Supplier) changed() {
	s.Touch()
	s.BumpVersion()
}
