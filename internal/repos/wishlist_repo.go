package repos

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"decohogar/internal/domain"
)

type WishlistRepo struct{ q Querier }

func NewWishlistRepo(q Querier) *WishlistRepo { return &WishlistRepo{q: q} }

// Add stores the (usuario, producto) pair. A second add of the same pair is a
// Conflict; an unknown product is NotFound.
func (r *WishlistRepo) Add(ctx context.Context, e *domain.WishlistEntry) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO wishlist(id, usuario_id, producto_id, fecha_agregado)
		VALUES(:id, :usuario_id, :producto_id, :fecha_agregado)
	`, e)
	switch {
	case isUniqueViolation(err):
		return domain.Conflictf("producto %s is already in the wishlist", e.ProductoID)
	case isForeignKeyViolation(err):
		return domain.NotFoundf("producto %s not found", e.ProductoID)
	case err != nil:
		return errors.Wrap(err, "insert wishlist")
	}
	return nil
}

func (r *WishlistRepo) Remove(ctx context.Context, userID, productID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM wishlist WHERE usuario_id = ? AND producto_id = ?`, userID, productID)
	if err != nil {
		return errors.Wrap(err, "delete wishlist")
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("producto %s is not in the wishlist", productID)
	}
	return nil
}

func (r *WishlistRepo) List(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	out := []domain.WishlistEntry{}
	err := r.q.SelectContext(ctx, &out, `
		SELECT w.id, w.usuario_id, w.producto_id, p.nombre, w.fecha_agregado
		FROM wishlist w JOIN productos p ON p.id = w.producto_id
		WHERE w.usuario_id = ?
		ORDER BY w.fecha_agregado DESC, w.id
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list wishlist")
	}
	return out, nil
}
