package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"decohogar/internal/domain"
	"decohogar/internal/pricing"
	"decohogar/internal/repos"
	"decohogar/internal/validate"
)

const maxPaymentMethod = 50

type OrderService struct {
	store *repos.Store
	carts *CartService
}

func NewOrderService(store *repos.Store, carts *CartService) *OrderService {
	return &OrderService{store: store, carts: carts}
}

// Checkout turns the user's cart into a pendiente order. Reading the cart,
// writing the order and its lines and emptying the cart happen in one
// transaction, so a failure leaves the cart untouched and a second
// concurrent checkout finds the cart empty.
func (s *OrderService) Checkout(ctx context.Context, userID, shippingAddress, paymentMethod string) (*domain.Order, error) {
	address, ok := validate.Text(shippingAddress, maxAddress)
	if !ok {
		return nil, domain.Validation("direccion_envio is too long")
	}
	method, ok := validate.Text(paymentMethod, maxPaymentMethod)
	if !ok || method == "" {
		return nil, domain.Validation("metodo_pago is required (max 50 characters)")
	}

	var order *domain.Order
	err := s.store.Atomic(ctx, func(tx *repos.Store) error {
		u, err := tx.Users.ByID(ctx, userID)
		if err != nil {
			return err
		}
		if address == "" {
			address = u.Direccion
		}
		if address == "" {
			return domain.Validation("direccion_envio is required")
		}

		cartID, err := tx.Carts.CartIDByUser(ctx, userID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrEmptyCart
		}
		if err != nil {
			return err
		}
		rows, err := tx.Carts.Lines(ctx, cartID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return domain.ErrEmptyCart
		}

		o := &domain.Order{
			ID:             uuid.NewString(),
			UsuarioID:      userID,
			FechaPedido:    time.Now().UTC(),
			Estado:         domain.StatusPendiente,
			DireccionEnvio: address,
			MetodoPago:     method,
		}
		for _, r := range rows {
			o.Detalles = append(o.Detalles, domain.OrderLine{
				ID:             uuid.NewString(),
				PedidoID:       o.ID,
				ProductoID:     r.ProductoID,
				NombreProducto: r.Nombre,
				Cantidad:       r.Cantidad,
				PrecioTotal:    r.PrecioTotal,
			})
		}
		o.Total = pricing.OrderTotal(o.Detalles)

		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}
		for i := range o.Detalles {
			if err := tx.Orders.InsertLine(ctx, &o.Detalles[i]); err != nil {
				return err
			}
		}
		if _, err := tx.Carts.Clear(ctx, cartID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.carts.Invalidate(ctx, userID)
	return order, nil
}

// Transition moves the user's order to next. The stored state is re-checked
// in the UPDATE, so of two racing transitions at most one applies.
func (s *OrderService) Transition(ctx context.Context, orderID, userID string, next domain.OrderStatus) (*domain.Order, error) {
	var order *domain.Order
	err := s.store.Atomic(ctx, func(tx *repos.Store) error {
		o, err := s.owned(ctx, tx, orderID, userID)
		if err != nil {
			return err
		}
		if !o.Estado.CanTransitionTo(next) {
			return domain.InvalidTransitionf("cannot move pedido from %s to %s", o.Estado, next)
		}
		ok, err := tx.Orders.UpdateStatus(ctx, o.ID, o.Estado, next)
		if err != nil {
			return err
		}
		if !ok {
			return domain.InvalidTransitionf("pedido %s changed state concurrently", o.ID)
		}
		o.Estado = next
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	return s.owned(ctx, s.store, orderID, userID)
}

// List returns the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.store.Orders.ListByUser(ctx, userID)
}

// owned loads the order and hides other users' orders as NotFound.
func (s *OrderService) owned(ctx context.Context, st *repos.Store, orderID, userID string) (*domain.Order, error) {
	o, err := st.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UsuarioID != userID {
		return nil, domain.NotFoundf("pedido %s not found", orderID)
	}
	return o, nil
}
