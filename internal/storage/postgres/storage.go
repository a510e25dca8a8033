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

	domainErrors "github.com/febryan/qrispay/internal/domain/errors"
	"github.com/febryan/qrispay/internal/domain/model"
	"github.com/febryan/qrispay/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool the storage relies on; pgxmock stands in
// for it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
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

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            pending_order_id BIGINT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            order_id TEXT UNIQUE NOT NULL,
            user_id BIGINT NOT NULL REFERENCES users(id),
            service_type TEXT NOT NULL,
            price BIGINT NOT NULL,
            status TEXT NOT NULL,
            qr_code_url TEXT NOT NULL,
            transaction_id TEXT,
            payment_method TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            expiry_time TIMESTAMPTZ NOT NULL,
            completed_at TIMESTAMPTZ,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_active ON orders(created_at) WHERE status IN ('pending', 'processing')`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, order_id, user_id, service_type, price, status, qr_code_url,
                      transaction_id, payment_method, created_at, expiry_time, completed_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(&o.ID, &o.OrderID, &o.UserID, &o.ServiceType, &o.Price, &o.Status, &o.QRCodeURL,
		&o.TransactionID, &o.PaymentMethod, &o.CreatedAt, &o.ExpiryTime, &o.CompletedAt, &o.UpdatedAt)
}

// --- UserRepository implementation ---

func (r *userRepository) GetOrCreate(ctx context.Context, name, email string) (*model.User, error) {
	const insertQuery = `INSERT INTO users (name, email) VALUES ($1, $2)
                         ON CONFLICT (email) DO NOTHING
                         RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, insertQuery, name, email).Scan(&u.ID, &u.CreatedAt)
	if err == nil {
		u.Name = name
		u.Email = email
		return &u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return r.getByEmail(ctx, email)
}

func (r *userRepository) getByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, name, email, pending_order_id, created_at FROM users WHERE email=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.PendingOrderID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, name, email, pending_order_id, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.PendingOrderID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) SetPendingOrder(ctx context.Context, userID, orderID int64) error {
	const query = `UPDATE users SET pending_order_id=$2 WHERE id=$1 AND pending_order_id IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, userID, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderAlreadyPending
	}
	return nil
}

func (r *userRepository) ClearPendingOrder(ctx context.Context, userID, orderID int64) error {
	const query = `UPDATE users SET pending_order_id=NULL WHERE id=$1 AND pending_order_id=$2`
	_, err := r.storage.pool.Exec(ctx, query, userID, orderID)
	return err
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (order_id, user_id, service_type, price, status, qr_code_url, expiry_time)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING id, created_at, updated_at`
	created := *order
	err := r.storage.pool.QueryRow(ctx, query,
		order.OrderID, order.UserID, order.ServiceType, order.Price, order.Status, order.QRCodeURL, order.ExpiryTime,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrDuplicateOrderID
		}
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1`
	var o model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var o model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// UpdateStatus transitions a non-terminal order. The guard on the current
// status keeps terminal orders immutable, and a terminal transition drops the
// owning user's pending reference within the same transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus, details *model.PaymentDetails) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const updateQuery = `UPDATE orders
                             SET status=$1,
                                 transaction_id=COALESCE($2, transaction_id),
                                 payment_method=COALESCE($3, payment_method),
                                 completed_at=COALESCE($4, completed_at),
                                 updated_at=NOW()
                             WHERE id=$5 AND status IN ('pending', 'processing')`

		var transactionID, paymentMethod *string
		var completedAt *time.Time
		if details != nil {
			transactionID = &details.TransactionID
			paymentMethod = &details.PaymentMethod
			completedAt = &details.CompletedAt
		}

		tag, err := tx.Exec(ctx, updateQuery, status, transactionID, paymentMethod, completedAt, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		if status.Terminal() {
			if _, err := tx.Exec(ctx, `UPDATE users SET pending_order_id=NULL WHERE pending_order_id=$1`, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) UpdateQRCodeURL(ctx context.Context, id int64, qrCodeURL string) error {
	const query = `UPDATE orders SET qr_code_url=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.storage.pool.Exec(ctx, query, qrCodeURL, id)
	return err
}

func (r *orderRepository) SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders
              WHERE status IN ('pending', 'processing')
              ORDER BY created_at
              LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
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
