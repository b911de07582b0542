package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}
	return pool, nil
}

// querier is the query surface shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore は Store の PostgreSQL 実装。
// プールに対しては並列読み取りを許可し、トランザクション内では直列化する。
type PgStore struct {
	pool        *pgxpool.Pool
	db          querier
	parallelism int
}

// NewPgStore は PgStore を生成する。parallelism は 1 未満なら 1 に丸める。
func NewPgStore(pool *pgxpool.Pool, parallelism int) *PgStore {
	if parallelism < 1 {
		parallelism = 1
	}
	return &PgStore{pool: pool, db: pool, parallelism: parallelism}
}

func (s *PgStore) Projects() ProjectRepository   { return &pgProjectRepository{db: s.db} }
func (s *PgStore) Modules() ModuleRepository     { return &pgModuleRepository{db: s.db} }
func (s *PgStore) Employees() EmployeeRepository { return &pgEmployeeRepository{db: s.db} }
func (s *PgStore) Events() EventRepository       { return &pgEventRepository{db: s.db} }

// Parallelism reports how many lookups may run against this store at once.
func (s *PgStore) Parallelism() int { return s.parallelism }

// Ping checks the pool connection.
func (s *PgStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// InTx runs fn inside one transaction. fn's error rolls everything back.
// Calling InTx on a transaction-scoped store joins the outer transaction.
func (s *PgStore) InTx(ctx context.Context, fn func(Store) error) error {
	if _, ok := s.db.(pgx.Tx); ok {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&PgStore{pool: s.pool, db: tx, parallelism: 1}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
