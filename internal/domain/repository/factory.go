package repository

import "context"

// Repositories groups access to the domain repositories sharing one querier.
type Repositories interface {
	Sales() SaleRepository
	Reservations() ReservationRepository
	Orders() OrderRepository
}

// UnitOfWork runs a function against transaction-scoped repositories. The
// whole function commits or rolls back as one atomic unit; row locks taken
// inside are held until the transaction ends.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(Repositories) error) error
}
