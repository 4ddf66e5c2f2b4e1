package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPendiente OrderStatus = "pendiente"
	StatusPagado    OrderStatus = "pagado"
	StatusEnviado   OrderStatus = "enviado"
	StatusEntregado OrderStatus = "entregado"
	StatusCancelado OrderStatus = "cancelado"
)

// transitions lists the permitted next states. Orders move strictly forward
// and may only be cancelled before shipment.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPendiente: {StatusPagado, StatusCancelado},
	StatusPagado:    {StatusEnviado, StatusCancelado},
	StatusEnviado:   {StatusEntregado},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPendiente, StatusPagado, StatusEnviado, StatusEntregado, StatusCancelado:
		return st, nil
	}
	return "", Validationf("unknown order status %q", s)
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Order is immutable after checkout except for its status.
type Order struct {
	ID             string          `db:"id"`
	UsuarioID      string          `db:"usuario_id"`
	FechaPedido    time.Time       `db:"fecha_pedido"`
	Estado         OrderStatus     `db:"estado"`
	DireccionEnvio string          `db:"direccion_envio"`
	MetodoPago     string          `db:"metodo_pago"`
	Total          decimal.Decimal `db:"total"`
	Detalles       []OrderLine     `db:"-"`
}

// OrderLine is a frozen copy of a cart line. ProductoID is kept for display
// only and is never used to re-price.
type OrderLine struct {
	ID             string          `db:"id"`
	PedidoID       string          `db:"pedido_id"`
	ProductoID     string          `db:"producto_id"`
	NombreProducto string          `db:"nombre_producto"`
	Cantidad       int             `db:"cantidad"`
	PrecioTotal    decimal.Decimal `db:"precio_total"`
}
