package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/minhtg/flashsale/internal/domain/errors"
	"github.com/minhtg/flashsale/internal/domain/model"
	"github.com/minhtg/flashsale/internal/domain/repository"
)

// pgLockNotAvailable is raised when SET LOCAL lock_timeout expires while
// waiting on a row lock.
const pgLockNotAvailable = "55P03"

// querier is the query surface shared by the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxPool abstracts *pgxpool.Pool so storage tests can run against pgxmock.
type pgxPool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade and unit of work backed by PostgreSQL.
// Every counter mutation goes through WithinTransaction with a FOR UPDATE
// read, so purchases and reconciler sweeps on one sale serialize on the row.
type Storage struct {
	pool        pgxPool
	lockTimeout time.Duration
	logger      *slog.Logger
}

type repos struct {
	q querier
}

type saleRepository struct{ q querier }
type reservationRepository struct{ q querier }
type orderRepository struct{ q querier }

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, lockTimeout time.Duration, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, lockTimeout: lockTimeout, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Pool-backed repositories for read paths and candidate scans.

func (s *Storage) Sales() repository.SaleRepository {
	return &saleRepository{q: s.pool}
}

func (s *Storage) Reservations() repository.ReservationRepository {
	return &reservationRepository{q: s.pool}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{q: s.pool}
}

func (r repos) Sales() repository.SaleRepository {
	return &saleRepository{q: r.q}
}

func (r repos) Reservations() repository.ReservationRepository {
	return &reservationRepository{q: r.q}
}

func (r repos) Orders() repository.OrderRepository {
	return &orderRepository{q: r.q}
}

// WithinTransaction executes fn against transaction-scoped repositories.
// A local lock_timeout bounds every row-lock wait inside the transaction;
// running out surfaces as ErrLockTimeout.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(repository.Repositories) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = translateErr(tx.Commit(ctx))
		}
	}()

	if s.lockTimeout > 0 {
		timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err = tx.Exec(ctx, timeout); err != nil {
			return err
		}
	}

	err = fn(repos{q: tx})
	return err
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS flash_sales (
            id BIGSERIAL PRIMARY KEY,
            fabric_id BIGINT NOT NULL,
            fabric_name TEXT NOT NULL,
            fabric_image TEXT NOT NULL DEFAULT '',
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            original_price DOUBLE PRECISION NOT NULL,
            flash_price DOUBLE PRECISION NOT NULL,
            total_quantity DOUBLE PRECISION NOT NULL,
            sold_quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
            reserved_quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
            max_per_user DOUBLE PRECISION NOT NULL DEFAULT 5,
            min_purchase DOUBLE PRECISION NOT NULL DEFAULT 0.5,
            start_time TIMESTAMPTZ NOT NULL,
            end_time TIMESTAMPTZ NOT NULL,
            status TEXT NOT NULL,
            priority INT NOT NULL DEFAULT 0,
            is_featured BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS flash_sale_reservations (
            id BIGSERIAL PRIMARY KEY,
            sale_id BIGINT NOT NULL REFERENCES flash_sales(id),
            user_id BIGINT NOT NULL,
            quantity DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL,
            converted_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS flash_sale_orders (
            id BIGSERIAL PRIMARY KEY,
            code TEXT UNIQUE NOT NULL,
            sale_id BIGINT NOT NULL REFERENCES flash_sales(id),
            user_id BIGINT NOT NULL,
            reservation_id BIGINT NOT NULL REFERENCES flash_sale_reservations(id),
            quantity DOUBLE PRECISION NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL,
            total_amount DOUBLE PRECISION NOT NULL,
            discount_amount DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            payment_method TEXT NOT NULL DEFAULT '',
            payment_deadline TIMESTAMPTZ NOT NULL,
            paid_at TIMESTAMPTZ,
            shipping_name TEXT NOT NULL DEFAULT '',
            shipping_phone TEXT NOT NULL DEFAULT '',
            shipping_address TEXT NOT NULL DEFAULT '',
            customer_note TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_flash_sales_status_time ON flash_sales(status, start_time, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_expiry ON flash_sale_reservations(status, expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_sale ON flash_sale_orders(user_id, sale_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_deadline ON flash_sale_orders(status, payment_deadline)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// translateErr maps driver errors onto the domain taxonomy.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return fmt.Errorf("%w: %s", domainErrors.ErrLockTimeout, pgErr.Message)
	}
	return err
}

// --- SaleRepository implementation ---

const saleColumns = `id, fabric_id, fabric_name, fabric_image, name, description,
       original_price, flash_price, total_quantity, sold_quantity, reserved_quantity,
       max_per_user, min_purchase, start_time, end_time, status, priority, is_featured,
       created_at, updated_at`

func scanSale(row pgx.Row) (*model.Sale, error) {
	var s model.Sale
	err := row.Scan(&s.ID, &s.FabricID, &s.FabricName, &s.FabricImage, &s.Name, &s.Description,
		&s.OriginalPrice, &s.FlashPrice, &s.TotalQuantity, &s.SoldQuantity, &s.ReservedQuantity,
		&s.MaxPerUser, &s.MinPurchase, &s.StartTime, &s.EndTime, &s.Status, &s.Priority, &s.IsFeatured,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &s, nil
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) (*model.Sale, error) {
	const query = `INSERT INTO flash_sales (fabric_id, fabric_name, fabric_image, name, description,
                       original_price, flash_price, total_quantity, sold_quantity, reserved_quantity,
                       max_per_user, min_purchase, start_time, end_time, status, priority, is_featured)
                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
                   RETURNING id, created_at, updated_at`
	created := *sale
	err := r.q.QueryRow(ctx, query,
		sale.FabricID, sale.FabricName, sale.FabricImage, sale.Name, sale.Description,
		sale.OriginalPrice, sale.FlashPrice, sale.TotalQuantity, sale.SoldQuantity, sale.ReservedQuantity,
		sale.MaxPerUser, sale.MinPurchase, sale.StartTime, sale.EndTime, sale.Status, sale.Priority,
		sale.IsFeatured).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &created, nil
}

func (r *saleRepository) GetByID(ctx context.Context, id int64) (*model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM flash_sales WHERE id=$1`
	return scanSale(r.q.QueryRow(ctx, query, id))
}

func (r *saleRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM flash_sales WHERE id=$1 FOR UPDATE`
	return scanSale(r.q.QueryRow(ctx, query, id))
}

func (r *saleRepository) Update(ctx context.Context, sale *model.Sale) error {
	const query = `UPDATE flash_sales
                   SET name=$1, description=$2, flash_price=$3, total_quantity=$4,
                       sold_quantity=$5, reserved_quantity=$6, max_per_user=$7, min_purchase=$8,
                       start_time=$9, end_time=$10, status=$11, priority=$12, is_featured=$13,
                       updated_at=NOW()
                   WHERE id=$14`
	tag, err := r.q.Exec(ctx, query,
		sale.Name, sale.Description, sale.FlashPrice, sale.TotalQuantity,
		sale.SoldQuantity, sale.ReservedQuantity, sale.MaxPerUser, sale.MinPurchase,
		sale.StartTime, sale.EndTime, sale.Status, sale.Priority, sale.IsFeatured, sale.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id int64, status model.SaleStatus) error {
	const query = `UPDATE flash_sales SET status=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *saleRepository) ListActive(ctx context.Context, now time.Time) ([]model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM flash_sales
              WHERE status=$1 AND start_time <= $2 AND end_time > $2
              ORDER BY priority DESC, start_time ASC`
	return r.list(ctx, query, model.SaleStatusActive, now)
}

func (r *saleRepository) ListFeatured(ctx context.Context, now time.Time) ([]model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM flash_sales
              WHERE status=$1 AND is_featured AND start_time <= $2 AND end_time > $2
              ORDER BY priority DESC, start_time ASC`
	return r.list(ctx, query, model.SaleStatusActive, now)
}

func (r *saleRepository) ListUpcoming(ctx context.Context, now time.Time) ([]model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM flash_sales
              WHERE status=$1 AND start_time > $2
              ORDER BY start_time ASC`
	return r.list(ctx, query, model.SaleStatusScheduled, now)
}

func (r *saleRepository) list(ctx context.Context, query string, args ...any) ([]model.Sale, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var result []model.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return result, nil
}

func (r *saleRepository) IDsToActivate(ctx context.Context, now time.Time, limit int) ([]int64, error) {
	const query = `SELECT id FROM flash_sales
                   WHERE status=$1 AND start_time <= $2
                   ORDER BY start_time LIMIT $3`
	return r.ids(ctx, query, model.SaleStatusScheduled, now, limit)
}

func (r *saleRepository) IDsToEnd(ctx context.Context, now time.Time, limit int) ([]int64, error) {
	const query = `SELECT id FROM flash_sales
                   WHERE status IN ($1, $2) AND end_time <= $3
                   ORDER BY end_time LIMIT $4`
	return r.ids(ctx, query, model.SaleStatusScheduled, model.SaleStatusActive, now, limit)
}

func (r *saleRepository) ids(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var result []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, translateErr(err)
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return result, nil
}

// --- ReservationRepository implementation ---

const reservationColumns = `id, sale_id, user_id, quantity, status, expires_at, converted_at, created_at`

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.SaleID, &res.UserID, &res.Quantity, &res.Status,
		&res.ExpiresAt, &res.ConvertedAt, &res.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &res, nil
}

func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error) {
	const query = `INSERT INTO flash_sale_reservations (sale_id, user_id, quantity, status, expires_at)
                   VALUES ($1,$2,$3,$4,$5)
                   RETURNING id, created_at`
	created := *reservation
	err := r.q.QueryRow(ctx, query,
		reservation.SaleID, reservation.UserID, reservation.Quantity, reservation.Status,
		reservation.ExpiresAt).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &created, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM flash_sale_reservations WHERE id=$1`
	return scanReservation(r.q.QueryRow(ctx, query, id))
}

func (r *reservationRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM flash_sale_reservations WHERE id=$1 FOR UPDATE`
	return scanReservation(r.q.QueryRow(ctx, query, id))
}

func (r *reservationRepository) MarkConverted(ctx context.Context, id int64, at time.Time) error {
	const query = `UPDATE flash_sale_reservations SET status=$1, converted_at=$2 WHERE id=$3`
	return r.mark(ctx, query, model.ReservationStatusConverted, at, id)
}

func (r *reservationRepository) MarkCancelled(ctx context.Context, id int64) error {
	const query = `UPDATE flash_sale_reservations SET status=$1 WHERE id=$2`
	return r.mark(ctx, query, model.ReservationStatusCancelled, id)
}

func (r *reservationRepository) MarkExpired(ctx context.Context, id int64) error {
	const query = `UPDATE flash_sale_reservations SET status=$1 WHERE id=$2`
	return r.mark(ctx, query, model.ReservationStatusExpired, id)
}

func (r *reservationRepository) mark(ctx context.Context, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) ExpiredCandidates(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM flash_sale_reservations
              WHERE status=$1 AND expires_at <= $2
              ORDER BY expires_at LIMIT $3`
	rows, err := r.q.Query(ctx, query, model.ReservationStatusActive, now, limit)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var result []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return result, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, code, sale_id, user_id, reservation_id, quantity, unit_price,
       total_amount, discount_amount, status, payment_method, payment_deadline, paid_at,
       shipping_name, shipping_phone, shipping_address, customer_note, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Code, &o.SaleID, &o.UserID, &o.ReservationID, &o.Quantity, &o.UnitPrice,
		&o.TotalAmount, &o.DiscountAmount, &o.Status, &o.PaymentMethod, &o.PaymentDeadline, &o.PaidAt,
		&o.ShippingName, &o.ShippingPhone, &o.ShippingAddress, &o.CustomerNote, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO flash_sale_orders (code, sale_id, user_id, reservation_id, quantity,
                       unit_price, total_amount, discount_amount, status, payment_deadline,
                       shipping_name, shipping_phone, shipping_address, customer_note)
                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
                   RETURNING id, created_at, updated_at`
	created := *order
	err := r.q.QueryRow(ctx, query,
		order.Code, order.SaleID, order.UserID, order.ReservationID, order.Quantity,
		order.UnitPrice, order.TotalAmount, order.DiscountAmount, order.Status, order.PaymentDeadline,
		order.ShippingName, order.ShippingPhone, order.ShippingAddress, order.CustomerNote).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM flash_sale_orders WHERE id=$1`
	return scanOrder(r.q.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetByIDAndUser(ctx context.Context, id, userID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM flash_sale_orders WHERE id=$1 AND user_id=$2`
	return scanOrder(r.q.QueryRow(ctx, query, id, userID))
}

func (r *orderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM flash_sale_orders WHERE id=$1 FOR UPDATE`
	return scanOrder(r.q.QueryRow(ctx, query, id))
}

func (r *orderRepository) MarkPaid(ctx context.Context, id int64, method string, at time.Time) error {
	const query = `UPDATE flash_sale_orders
                   SET status=$1, payment_method=$2, paid_at=$3, updated_at=NOW()
                   WHERE id=$4`
	return r.mark(ctx, query, model.OrderStatusPaid, method, at, id)
}

func (r *orderRepository) MarkCancelled(ctx context.Context, id int64) error {
	const query = `UPDATE flash_sale_orders SET status=$1, updated_at=NOW() WHERE id=$2`
	return r.mark(ctx, query, model.OrderStatusCancelled, id)
}

func (r *orderRepository) mark(ctx context.Context, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) ExpirePending(ctx context.Context, now time.Time) ([]int64, error) {
	const query = `UPDATE flash_sale_orders
                   SET status=$1, updated_at=NOW()
                   WHERE status=$2 AND payment_deadline < $3
                   RETURNING id`
	rows, err := r.q.Query(ctx, query, model.OrderStatusExpired, model.OrderStatusPending, now)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, translateErr(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return ids, nil
}

func (r *orderRepository) SumQuantityByUserAndSale(ctx context.Context, userID, saleID int64) (float64, error) {
	const query = `SELECT COALESCE(SUM(quantity), 0) FROM flash_sale_orders
                   WHERE user_id=$1 AND sale_id=$2 AND status NOT IN ($3, $4)`
	var sum float64
	err := r.q.QueryRow(ctx, query, userID, saleID,
		model.OrderStatusCancelled, model.OrderStatusExpired).Scan(&sum)
	if err != nil {
		return 0, translateErr(err)
	}
	return sum, nil
}

func (r *orderRepository) ListByUserAndSale(ctx context.Context, userID, saleID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM flash_sale_orders
              WHERE user_id=$1 AND sale_id=$2 ORDER BY created_at DESC`
	return r.list(ctx, query, userID, saleID)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM flash_sale_orders
              WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return result, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
