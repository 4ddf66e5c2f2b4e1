package repos

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"decohogar/internal/domain"
)

type CartRepo struct{ q Querier }

func NewCartRepo(q Querier) *CartRepo { return &CartRepo{q: q} }

// LineRow is a cart line joined with the product's current price fields.
type LineRow struct {
	domain.CartLine
	Precio    decimal.Decimal `db:"precio"`
	Descuento int             `db:"descuento"`
}

// EnsureCart returns the id of the user's cart, creating it on first use.
func (r *CartRepo) EnsureCart(ctx context.Context, userID string) (string, error) {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO carritos(id, usuario_id, fecha_creacion) VALUES(?, ?, ?)
		ON CONFLICT(usuario_id) DO NOTHING
	`, uuid.NewString(), userID, time.Now().UTC())
	if isForeignKeyViolation(err) {
		return "", domain.NotFoundf("usuario %s not found", userID)
	}
	if err != nil {
		return "", errors.Wrap(err, "insert carrito")
	}
	return r.CartIDByUser(ctx, userID)
}

func (r *CartRepo) CartIDByUser(ctx context.Context, userID string) (string, error) {
	var id string
	if err := r.q.GetContext(ctx, &id, `SELECT id FROM carritos WHERE usuario_id = ?`, userID); err != nil {
		return "", notFound(err, "carrito not found")
	}
	return id, nil
}

// Owner returns the id of the user owning cartID.
func (r *CartRepo) Owner(ctx context.Context, cartID string) (string, error) {
	var userID string
	if err := r.q.GetContext(ctx, &userID, `SELECT usuario_id FROM carritos WHERE id = ?`, cartID); err != nil {
		return "", notFound(err, "carrito %s not found", cartID)
	}
	return userID, nil
}

// UsersWithProduct returns the owners of carts holding productID.
func (r *CartRepo) UsersWithProduct(ctx context.Context, productID string) ([]string, error) {
	users := []string{}
	err := r.q.SelectContext(ctx, &users, `
		SELECT DISTINCT c.usuario_id
		FROM items_carrito ic JOIN carritos c ON c.id = ic.carrito_id
		WHERE ic.producto_id = ?
	`, productID)
	if err != nil {
		return nil, errors.Wrap(err, "carts with producto")
	}
	return users, nil
}

const lineSelect = `
	SELECT ic.id, ic.carrito_id, ic.producto_id, p.nombre, ic.cantidad, ic.precio_total,
	       ic.fecha_agregado, p.precio, p.descuento
	FROM items_carrito ic JOIN productos p ON p.id = ic.producto_id`

// Lines returns the cart's lines in insertion order.
func (r *CartRepo) Lines(ctx context.Context, cartID string) ([]LineRow, error) {
	out := []LineRow{}
	err := r.q.SelectContext(ctx, &out, lineSelect+` WHERE ic.carrito_id = ? ORDER BY ic.seq`, cartID)
	if err != nil {
		return nil, errors.Wrap(err, "list items carrito")
	}
	return out, nil
}

func (r *CartRepo) LineByProduct(ctx context.Context, cartID, productID string) (*LineRow, error) {
	var l LineRow
	err := r.q.GetContext(ctx, &l, lineSelect+` WHERE ic.carrito_id = ? AND ic.producto_id = ?`, cartID, productID)
	if err != nil {
		return nil, notFound(err, "producto %s is not in the cart", productID)
	}
	return &l, nil
}

func (r *CartRepo) LineByID(ctx context.Context, lineID string) (*LineRow, error) {
	var l LineRow
	if err := r.q.GetContext(ctx, &l, lineSelect+` WHERE ic.id = ?`, lineID); err != nil {
		return nil, notFound(err, "item %s not found", lineID)
	}
	return &l, nil
}

// InsertLine appends l after the cart's existing lines.
func (r *CartRepo) InsertLine(ctx context.Context, l *domain.CartLine) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO items_carrito(id, seq, carrito_id, producto_id, cantidad, precio_total, fecha_agregado)
		VALUES(?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM items_carrito WHERE carrito_id = ?), ?, ?, ?, ?, ?)
	`, l.ID, l.CarritoID, l.CarritoID, l.ProductoID, l.Cantidad, l.PrecioTotal, l.FechaAgregado)
	if isUniqueViolation(err) {
		return domain.Conflictf("producto %s is already in the cart", l.ProductoID)
	}
	if err != nil {
		return errors.Wrap(err, "insert item carrito")
	}
	return nil
}

func (r *CartRepo) UpdateLine(ctx context.Context, lineID string, qty int, total decimal.Decimal) error {
	res, err := r.q.ExecContext(ctx, `UPDATE items_carrito SET cantidad = ?, precio_total = ? WHERE id = ?`,
		qty, total, lineID)
	if err != nil {
		return errors.Wrap(err, "update item carrito")
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("item %s not found", lineID)
	}
	return nil
}

func (r *CartRepo) DeleteLine(ctx context.Context, cartID, productID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM items_carrito WHERE carrito_id = ? AND producto_id = ?`,
		cartID, productID)
	if err != nil {
		return errors.Wrap(err, "delete item carrito")
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("producto %s is not in the cart", productID)
	}
	return nil
}

// Clear removes every line of the cart and returns how many were removed.
func (r *CartRepo) Clear(ctx context.Context, cartID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM items_carrito WHERE carrito_id = ?`, cartID)
	if err != nil {
		return 0, errors.Wrap(err, "clear carrito")
	}
	return rowsAffected(res)
}
