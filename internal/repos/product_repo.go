package repos

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"decohogar/internal/domain"
)

type ProductRepo struct{ q Querier }

func NewProductRepo(q Querier) *ProductRepo { return &ProductRepo{q: q} }

const productColumns = `id, nombre, descripcion, precio, descuento, stock, categoria_id, estancia_id,
	imagen, colores, materiales, peso, fecha_creacion`

// featuredLimit caps the "destacados" listing.
const featuredLimit = 8

func (r *ProductRepo) list(ctx context.Context, what, where, order string, args ...any) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos`
	if where != "" {
		query += ` WHERE ` + where
	}
	if order == "" {
		order = `fecha_creacion DESC, id`
	}
	query += ` ORDER BY ` + order

	out := []domain.Product{}
	if err := r.q.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list productos %s", what)
	}
	return out, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, "all", "", "")
}

// Offers returns products with a non-zero discount, largest first.
func (r *ProductRepo) Offers(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, "ofertas", `descuento > 0`, `descuento DESC, fecha_creacion DESC, id`)
}

func (r *ProductRepo) NoOffers(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, "sin ofertas", `descuento = 0`, "")
}

func (r *ProductRepo) ByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return r.list(ctx, "por categoria", `categoria_id = ?`, "", categoryID)
}

// Search matches text against nombre and descripcion, ignoring case
// (Unicode, through fold). LIKE wildcards in text are matched literally.
func (r *ProductRepo) Search(ctx context.Context, text string) ([]domain.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	return r.list(ctx, "buscar",
		`(fold(nombre) LIKE ? ESCAPE '\' OR fold(descripcion) LIKE ? ESCAPE '\')`, "",
		pattern, pattern)
}

// Featured returns in-stock products, highest discount first, then newest.
func (r *ProductRepo) Featured(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, "destacados", `stock = 1`,
		`descuento DESC, fecha_creacion DESC, id LIMIT ?`, featuredLimit)
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.q.GetContext(ctx, &p, `SELECT `+productColumns+` FROM productos WHERE id = ?`, id)
	if err != nil {
		return nil, notFound(err, "producto %s not found", id)
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO productos(`+productColumns+`)
		VALUES(:id, :nombre, :descripcion, :precio, :descuento, :stock, :categoria_id, :estancia_id,
		       :imagen, :colores, :materiales, :peso, :fecha_creacion)
	`, p)
	if isForeignKeyViolation(err) {
		return domain.Validation("categoria or estancia does not exist")
	}
	if err != nil {
		return errors.Wrap(err, "insert producto")
	}
	return nil
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res, err := sqlx.NamedExecContext(ctx, r.q, `
		UPDATE productos
		SET nombre = :nombre, descripcion = :descripcion, precio = :precio, descuento = :descuento,
		    stock = :stock, categoria_id = :categoria_id, estancia_id = :estancia_id, imagen = :imagen,
		    colores = :colores, materiales = :materiales, peso = :peso
		WHERE id = :id
	`, p)
	if isForeignKeyViolation(err) {
		return domain.Validation("categoria or estancia does not exist")
	}
	if err != nil {
		return errors.Wrap(err, "update producto")
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("producto %s not found", p.ID)
	}
	return nil
}

// Delete removes the product together with every cart line, order line and
// wishlist row that references it. It returns the ids of the users whose
// carts changed. Call it inside Store.Atomic.
func (r *ProductRepo) Delete(ctx context.Context, id string) ([]string, error) {
	users, err := NewCartRepo(r.q).UsersWithProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	stmts := []struct{ what, query string }{
		{"items carrito", `DELETE FROM items_carrito WHERE producto_id = ?`},
		{"detalles pedido", `DELETE FROM detalles_pedido WHERE producto_id = ?`},
		{"wishlist", `DELETE FROM wishlist WHERE producto_id = ?`},
	}
	for _, s := range stmts {
		if _, err := r.q.ExecContext(ctx, s.query, id); err != nil {
			return nil, errors.Wrapf(err, "delete %s", s.what)
		}
	}

	res, err := r.q.ExecContext(ctx, `DELETE FROM productos WHERE id = ?`, id)
	if err != nil {
		return nil, errors.Wrap(err, "delete producto")
	}
	n, err := rowsAffected(res)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.NotFoundf("producto %s not found", id)
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
