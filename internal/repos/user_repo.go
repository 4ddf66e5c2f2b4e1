package repos

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"decohogar/internal/domain"
)

type UserRepo struct{ q Querier }

func NewUserRepo(q Querier) *UserRepo { return &UserRepo{q: q} }

const userColumns = `id, nombre, apellido, email, password, direccion, telefono, activo, fecha_creacion`

// Create inserts u. A duplicate email (case-insensitive) is a Conflict.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO usuarios(`+userColumns+`)
		VALUES(:id, :nombre, :apellido, :email, :password, :direccion, :telefono, :activo, :fecha_creacion)
	`, u)
	if isUniqueViolation(err) {
		return domain.Conflictf("email %s is already registered", u.Email)
	}
	if err != nil {
		return errors.Wrap(err, "insert usuario")
	}
	return nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.q.GetContext(ctx, &u, `SELECT `+userColumns+` FROM usuarios WHERE email = ? COLLATE NOCASE`, email)
	if err != nil {
		return nil, notFound(err, "usuario not found")
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.q.GetContext(ctx, &u, `SELECT `+userColumns+` FROM usuarios WHERE id = ?`, id)
	if err != nil {
		return nil, notFound(err, "usuario %s not found", id)
	}
	return &u, nil
}

// Update saves every mutable column, including the credential as loaded.
// Saving an unchanged user therefore writes the same password hash back.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	res, err := sqlx.NamedExecContext(ctx, r.q, `
		UPDATE usuarios
		SET nombre = :nombre, apellido = :apellido, email = :email, password = :password,
		    direccion = :direccion, telefono = :telefono, activo = :activo
		WHERE id = :id
	`, u)
	if isUniqueViolation(err) {
		return domain.Conflictf("email %s is already registered", u.Email)
	}
	if err != nil {
		return errors.Wrap(err, "update usuario")
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("usuario %s not found", u.ID)
	}
	return nil
}

// Delete removes the user and everything the user owns: wishlist, cart with
// its items, and orders with their lines.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	stmts := []struct{ what, query string }{
		{"wishlist", `DELETE FROM wishlist WHERE usuario_id = ?`},
		{"items carrito", `DELETE FROM items_carrito WHERE carrito_id IN (SELECT id FROM carritos WHERE usuario_id = ?)`},
		{"carritos", `DELETE FROM carritos WHERE usuario_id = ?`},
		{"detalles pedido", `DELETE FROM detalles_pedido WHERE pedido_id IN (SELECT id FROM pedidos WHERE usuario_id = ?)`},
		{"pedidos", `DELETE FROM pedidos WHERE usuario_id = ?`},
	}
	for _, s := range stmts {
		if _, err := r.q.ExecContext(ctx, s.query, id); err != nil {
			return errors.Wrapf(err, "delete %s", s.what)
		}
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM usuarios WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete usuario")
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("usuario %s not found", id)
	}
	return nil
}
