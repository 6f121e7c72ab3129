package catalog

import (
	"context"
	"errors"

	appinv "github.com/bookstore/backend/internal/application/inventory"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookService handles catalog maintenance
type BookService struct {
	scope          appinv.TransactionScope
	mutator        *appinv.StockMutator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBookService creates a new BookService
func NewBookService(scope appinv.TransactionScope, mutator *appinv.StockMutator, logger *zap.Logger) *BookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookService{
		scope:   scope,
		mutator: mutator,
		logger:  logger,
	}
}

// SetEventPublisher sets the publisher notified after catalog writes commit
func (s *BookService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a book. A positive InitialStock is booked through the ledger as
// INITIAL_STOCK in the same transaction.
func (s *BookService) Create(ctx context.Context, userID uuid.UUID, req CreateBookRequest) (*BookResponse, error) {
	if req.InitialStock < 0 {
		return nil, shared.NewValidationError("initial stock cannot be negative")
	}
	book, err := catalog.NewBook(req.Title, req.Author, req.ISBN, req.Price)
	if err != nil {
		return nil, err
	}

	var logs []*inventory.InventoryLog
	err = s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		logs = nil
		if err := repos.BookRepo().Save(ctx, book); err != nil {
			return err
		}
		if req.InitialStock == 0 {
			return nil
		}

		change := appinv.StockChange{
			BookID: book.ID,
			Delta:  req.InitialStock,
			Reason: inventory.ReasonInitialStock,
		}
		if userID != uuid.Nil {
			change.UserID = &userID
		}
		entry, err := s.mutator.ApplyStockChange(ctx, repos, change)
		if err != nil {
			return err
		}
		logs = append(logs, entry)
		book.StockQuantity = entry.BalanceAfter
		book.Version++
		return nil
	})
	if err != nil {
		if !appinv.IsDomainError(err) {
			s.logger.Error("create book failed", zap.String("title", req.Title), zap.Error(err))
		}
		return nil, err
	}

	events := append([]shared.DomainEvent{}, book.PendingEvents()...)
	book.ClearEvents()
	appinv.PublishCommitted(ctx, s.eventPublisher, s.logger, append(events, appinv.StockEvents(logs)...))

	resp := ToBookResponse(book)
	return &resp, nil
}

// GetByID returns a book, including soft-deleted ones
func (s *BookService) GetByID(ctx context.Context, id uuid.UUID) (*BookResponse, error) {
	var book *catalog.Book
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		var err error
		book, err = repos.BookRepo().FindByID(ctx, id)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("book", id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToBookResponse(book)
	return &resp, nil
}

// List pages through books that are still on sale
func (s *BookService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[BookResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	var result shared.Paginated[BookResponse]
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		books, total, err := repos.BookRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		items := make([]BookResponse, len(books))
		for i := range books {
			items[i] = ToBookResponse(&books[i])
		}
		result = shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdatePrice changes the list price. Existing orders keep their captured price.
func (s *BookService) UpdatePrice(ctx context.Context, id uuid.UUID, req UpdateBookPriceRequest) (*BookResponse, error) {
	var book *catalog.Book
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		var err error
		book, err = repos.BookRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("book", id)
			}
			return err
		}
		if book.IsDeleted {
			return shared.NewNotFoundError("book", id)
		}
		if err := book.ChangePrice(req.Price); err != nil {
			return err
		}
		return repos.BookRepo().Save(ctx, book)
	})
	if err != nil {
		return nil, err
	}
	resp := ToBookResponse(book)
	return &resp, nil
}

// SoftDelete withdraws a book from sale. Its ledger and stock are kept.
func (s *BookService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	var book *catalog.Book
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		var err error
		book, err = repos.BookRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("book", id)
			}
			return err
		}
		if err := book.SoftDelete(); err != nil {
			return err
		}
		return repos.BookRepo().Save(ctx, book)
	})
	if err != nil {
		return err
	}

	events := book.PendingEvents()
	book.ClearEvents()
	appinv.PublishCommitted(ctx, s.eventPublisher, s.logger, events)
	return nil
}
