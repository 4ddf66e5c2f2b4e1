package repos

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"decohogar/internal/domain"
)

// taxonomy holds the queries shared by the id/nombre/descripcion tables.
type taxonomy[T any] struct {
	q     Querier
	table string
	label string
}

func (r taxonomy[T]) List(ctx context.Context) ([]T, error) {
	out := []T{}
	err := r.q.SelectContext(ctx, &out, `SELECT id, nombre, descripcion FROM `+r.table+` ORDER BY nombre COLLATE NOCASE`)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", r.table)
	}
	return out, nil
}

func (r taxonomy[T]) Get(ctx context.Context, id string) (*T, error) {
	var v T
	err := r.q.GetContext(ctx, &v, `SELECT id, nombre, descripcion FROM `+r.table+` WHERE id = ?`, id)
	if err != nil {
		return nil, notFound(err, "%s %s not found", r.label, id)
	}
	return &v, nil
}

func (r taxonomy[T]) Create(ctx context.Context, v *T) error {
	_, err := sqlx.NamedExecContext(ctx, r.q,
		`INSERT INTO `+r.table+`(id, nombre, descripcion) VALUES(:id, :nombre, :descripcion)`, v)
	if isUniqueViolation(err) {
		return domain.Conflictf("%s already exists", r.label)
	}
	if err != nil {
		return errors.Wrapf(err, "insert %s", r.table)
	}
	return nil
}

func (r taxonomy[T]) delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE id = ?`, id)
	if isForeignKeyViolation(err) {
		return domain.Conflictf("%s %s is still referenced by products", r.label, id)
	}
	if err != nil {
		return errors.Wrapf(err, "delete %s", r.table)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("%s %s not found", r.label, id)
	}
	return nil
}

type CategoryRepo struct{ taxonomy[domain.Category] }

func NewCategoryRepo(q Querier) *CategoryRepo {
	return &CategoryRepo{taxonomy[domain.Category]{q: q, table: "categorias", label: "categoria"}}
}

// Delete refuses to remove a category that still has products.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

type RoomRepo struct{ taxonomy[domain.Room] }

func NewRoomRepo(q Querier) *RoomRepo {
	return &RoomRepo{taxonomy[domain.Room]{q: q, table: "estancias", label: "estancia"}}
}

// Delete detaches the estancia from its products before removing it.
func (r *RoomRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE productos SET estancia_id = NULL WHERE estancia_id = ?`, id); err != nil {
		return errors.Wrap(err, "detach estancia")
	}
	return r.delete(ctx, id)
}

type ServiceRepo struct{ taxonomy[domain.Service] }

func NewServiceRepo(q Querier) *ServiceRepo {
	return &ServiceRepo{taxonomy[domain.Service]{q: q, table: "servicios", label: "servicio"}}
}

func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
