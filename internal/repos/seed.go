package repos

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"decohogar/internal/domain"
)

// SeedCatalog inserts a small demo catalog when the database has no
// categories yet. It reports whether anything was inserted.
func SeedCatalog(ctx context.Context, s *Store) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM categorias`); err != nil {
		return false, errors.Wrap(err, "count categorias")
	}
	if n > 0 {
		return false, nil
	}

	now := time.Now().UTC()
	salon, cocina := "est-salon", "est-cocina"
	err := s.Atomic(ctx, func(tx *Store) error {
		for _, c := range []domain.Category{
			{ID: "cat-muebles", Nombre: "Muebles", Descripcion: "Sofás, mesas y sillas"},
			{ID: "cat-iluminacion", Nombre: "Iluminación", Descripcion: "Lámparas y apliques"},
			{ID: "cat-textil", Nombre: "Textil", Descripcion: "Cojines, alfombras y cortinas"},
		} {
			if err := tx.Categories.Create(ctx, &c); err != nil {
				return err
			}
		}
		for _, e := range []domain.Room{
			{ID: salon, Nombre: "Salón"},
			{ID: cocina, Nombre: "Cocina"},
			{ID: "est-dormitorio", Nombre: "Dormitorio"},
		} {
			if err := tx.Rooms.Create(ctx, &e); err != nil {
				return err
			}
		}
		for _, sv := range []domain.Service{
			{ID: "srv-montaje", Nombre: "Montaje", Descripcion: "Montaje de muebles a domicilio"},
			{ID: "srv-envio", Nombre: "Envío express", Descripcion: "Entrega en 48 horas"},
		} {
			if err := tx.Services.Create(ctx, &sv); err != nil {
				return err
			}
		}
		for i, p := range []domain.Product{
			{
				ID: "prod-sofa-nordico", Nombre: "Sofá nórdico", Descripcion: "Sofá de tres plazas tapizado en lino",
				Precio: decimal.RequireFromString("499.00"), Descuento: 20, Stock: true,
				CategoriaID: "cat-muebles", EstanciaID: &salon,
				Colores: domain.StringList{"Gris", "Beige"}, Materiales: domain.StringList{"Lino", "Roble"}, Peso: 42,
			},
			{
				ID: "prod-mesa-roble", Nombre: "Mesa de roble", Descripcion: "Mesa de comedor extensible",
				Precio: decimal.RequireFromString("329.90"), Stock: true,
				CategoriaID: "cat-muebles", EstanciaID: &cocina,
				Colores: domain.StringList{"Natural"}, Materiales: domain.StringList{"Roble"}, Peso: 35.5,
			},
			{
				ID: "prod-lampara-arco", Nombre: "Lámpara de arco", Descripcion: "Lámpara de pie con brazo curvo",
				Precio: decimal.RequireFromString("89.95"), Descuento: 15, Stock: true,
				CategoriaID: "cat-iluminacion", EstanciaID: &salon,
				Colores: domain.StringList{"Negro", "Latón"}, Materiales: domain.StringList{"Acero"}, Peso: 6.2,
			},
			{
				ID: "prod-alfombra-yute", Nombre: "Alfombra de yute", Descripcion: "Alfombra tejida a mano 160x230",
				Precio: decimal.RequireFromString("119.00"), Stock: false,
				CategoriaID: "cat-textil",
				Colores:     domain.StringList{"Natural"}, Materiales: domain.StringList{"Yute"}, Peso: 8,
			},
		} {
			p.FechaCreacion = now.Add(time.Duration(i) * time.Second)
			if err := tx.Products.Create(ctx, &p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "seed catalog")
	}
	return true, nil
}
