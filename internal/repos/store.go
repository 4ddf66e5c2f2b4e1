package repos

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"decohogar/internal/domain"
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Store groups the repositories over one database handle. Inside Atomic the
// repositories share a single transaction.
type Store struct {
	db   *sqlx.DB
	inTx bool

	Users      *UserRepo
	Categories *CategoryRepo
	Rooms      *RoomRepo
	Services   *ServiceRepo
	Products   *ProductRepo
	Wishlist   *WishlistRepo
	Carts      *CartRepo
	Orders     *OrderRepo
}

func NewStore(db *sqlx.DB) *Store {
	return newStore(db, db, false)
}

func newStore(db *sqlx.DB, q Querier, inTx bool) *Store {
	return &Store{
		db:         db,
		inTx:       inTx,
		Users:      NewUserRepo(q),
		Categories: NewCategoryRepo(q),
		Rooms:      NewRoomRepo(q),
		Services:   NewServiceRepo(q),
		Products:   NewProductRepo(q),
		Wishlist:   NewWishlistRepo(q),
		Carts:      NewCartRepo(q),
		Orders:     NewOrderRepo(q),
	}
}

func (s *Store) DB() *sqlx.DB { return s.db }

// Atomic runs fn in one transaction and commits only if fn returns nil. Any
// error, including a panic in fn, rolls everything back. Calls nested inside
// an Atomic reuse the outer transaction.
func (s *Store) Atomic(ctx context.Context, fn func(tx *Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(newStore(s.db, tx, true)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// notFound turns sql.ErrNoRows into a typed NotFound error.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf(format, args...)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}
