package repos

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"decohogar/internal/domain"
)

type OrderRepo struct{ q Querier }

func NewOrderRepo(q Querier) *OrderRepo { return &OrderRepo{q: q} }

const orderColumns = `id, usuario_id, fecha_pedido, estado, direccion_envio, metodo_pago, total`

// Create inserts the order header. Lines are added with InsertLine.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO pedidos(`+orderColumns+`)
		VALUES(:id, :usuario_id, :fecha_pedido, :estado, :direccion_envio, :metodo_pago, :total)
	`, o)
	if err != nil {
		return errors.Wrap(err, "insert pedido")
	}
	return nil
}

// InsertLine appends a frozen detail line to its order.
func (r *OrderRepo) InsertLine(ctx context.Context, l *domain.OrderLine) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO detalles_pedido(id, seq, pedido_id, producto_id, nombre_producto, cantidad, precio_total)
		VALUES(?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM detalles_pedido WHERE pedido_id = ?), ?, ?, ?, ?, ?)
	`, l.ID, l.PedidoID, l.PedidoID, l.ProductoID, l.NombreProducto, l.Cantidad, l.PrecioTotal)
	if err != nil {
		return errors.Wrap(err, "insert detalle pedido")
	}
	return nil
}

// Get loads the order with its lines.
func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.q.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM pedidos WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "pedido %s not found", id)
	}
	lines, err := r.Lines(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Detalles = lines
	return &o, nil
}

func (r *OrderRepo) Lines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	out := []domain.OrderLine{}
	err := r.q.SelectContext(ctx, &out, `
		SELECT id, pedido_id, producto_id, nombre_producto, cantidad, precio_total
		FROM detalles_pedido
		WHERE pedido_id = ?
		ORDER BY seq
	`, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "list detalles pedido")
	}
	return out, nil
}

// ListByUser returns the user's orders, newest first, each with its lines.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.q.SelectContext(ctx, &out, `
		SELECT `+orderColumns+` FROM pedidos
		WHERE usuario_id = ?
		ORDER BY fecha_pedido DESC, id
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list pedidos")
	}
	for i := range out {
		lines, err := r.Lines(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Detalles = lines
	}
	return out, nil
}

// UpdateStatus moves the order from one state to another. It reports false
// when the stored state is no longer from, so a concurrent transition wins.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	res, err := r.q.ExecContext(ctx, `UPDATE pedidos SET estado = ? WHERE id = ? AND estado = ?`, to, id, from)
	if err != nil {
		return false, errors.Wrap(err, "update estado pedido")
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
