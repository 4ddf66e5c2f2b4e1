package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product line of a cart. PrecioTotal is the snapshot taken
// when the line was added or its quantity last changed; it does not follow
// later catalog price changes. PrecioUnitario is the product's current
// discounted price and is filled for display only.
type CartLine struct {
	ID             string          `db:"id" json:"id"`
	CarritoID      string          `db:"carrito_id" json:"carrito_id"`
	ProductoID     string          `db:"producto_id" json:"producto_id"`
	Nombre         string          `db:"nombre" json:"nombre"`
	Cantidad       int             `db:"cantidad" json:"cantidad"`
	PrecioUnitario decimal.Decimal `db:"-" json:"precio_unitario"`
	PrecioTotal    decimal.Decimal `db:"precio_total" json:"precio_total"`
	FechaAgregado  time.Time       `db:"fecha_agregado" json:"fecha_agregado"`
}

// Cart is a read-only snapshot of a user's cart.
type Cart struct {
	ID        string          `json:"id"`
	UsuarioID string          `json:"usuario_id"`
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
}
