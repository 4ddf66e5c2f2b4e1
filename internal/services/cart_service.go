package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"decohogar/internal/cache"
	"decohogar/internal/domain"
	"decohogar/internal/log"
	"decohogar/internal/pricing"
	"decohogar/internal/repos"
	"decohogar/internal/validate"
)

type CartService struct {
	store *repos.Store
	cache cache.CartCache
	sfg   singleflight.Group
}

func NewCartService(store *repos.Store, c cache.CartCache) *CartService {
	if c == nil {
		c = cache.Nop{}
	}
	return &CartService{store: store, cache: c}
}

// EnsureCart returns the user's cart id, creating the cart on first use. A
// new cart drops the cached empty snapshot, which carries no id.
func (s *CartService) EnsureCart(ctx context.Context, userID string) (string, error) {
	id, err := s.store.Carts.CartIDByUser(ctx, userID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if id, err = s.store.Carts.EnsureCart(ctx, userID); err != nil {
		return "", err
	}
	s.Invalidate(ctx, userID)
	return id, nil
}

// GetCart returns the user's cart snapshot. A user without a cart gets an
// empty one. Concurrent misses for the same user share one database read,
// which runs detached from any single caller's cancellation.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sfg.Do(userID, func() (any, error) {
		return s.fetch(shared, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// fetch reads the generation before the database so a snapshot loaded
// across a concurrent mutation is never stored.
func (s *CartService) fetch(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.cache.Get(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.L().Warn("cart cache get", zap.String("user_id", userID), zap.Error(err))
	}

	gen, genErr := s.cache.Generation(ctx, userID)
	cart, err = s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		log.L().Warn("cart cache generation", zap.String("user_id", userID), zap.Error(genErr))
		return cart, nil
	}
	err = s.cache.Set(ctx, userID, gen, cart)
	switch {
	case errors.Is(err, cache.ErrStale):
		log.L().Debug("cart cache set skipped", zap.String("user_id", userID))
	case err != nil:
		log.L().Warn("cart cache set", zap.String("user_id", userID), zap.Error(err))
	}
	return cart, nil
}

func (s *CartService) load(ctx context.Context, userID string) (*domain.Cart, error) {
	cart := &domain.Cart{UsuarioID: userID, Items: []domain.CartLine{}, Total: decimal.Zero}
	cartID, err := s.store.Carts.CartIDByUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return cart, nil
	}
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Carts.Lines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.ID = cartID
	for _, r := range rows {
		line, err := priced(r)
		if err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, line)
	}
	cart.Total = pricing.CartTotal(cart.Items)
	return cart, nil
}

// priced fills the display unit price of a stored line.
func priced(r repos.LineRow) (domain.CartLine, error) {
	unit, err := pricing.DiscountedPrice(r.Precio, r.Descuento)
	if err != nil {
		return domain.CartLine{}, err
	}
	l := r.CartLine
	l.PrecioUnitario = unit
	return l, nil
}

// AddItem adds qty units of the product. An existing line grows and is
// re-priced at the current discounted price.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, qty int) (*domain.CartLine, error) {
	if !validate.Quantity(qty) {
		return nil, domain.ErrInvalidQuantity
	}
	var (
		line  domain.CartLine
		owner string
	)
	err := s.store.Atomic(ctx, func(tx *repos.Store) error {
		var err error
		if owner, err = tx.Carts.Owner(ctx, cartID); err != nil {
			return err
		}
		p, err := tx.Products.Get(ctx, productID)
		if err != nil {
			return err
		}
		if !p.Stock {
			return domain.ErrOutOfStock
		}
		unit, err := pricing.ProductPrice(*p)
		if err != nil {
			return err
		}

		existing, err := tx.Carts.LineByProduct(ctx, cartID, productID)
		switch {
		case err == nil:
			newQty := existing.Cantidad + qty
			if !validate.Quantity(newQty) {
				return domain.ErrInvalidQuantity
			}
			line = existing.CartLine
			line.Cantidad = newQty
			line.PrecioTotal = pricing.LineTotal(unit, newQty)
			if err := tx.Carts.UpdateLine(ctx, line.ID, line.Cantidad, line.PrecioTotal); err != nil {
				return err
			}
		case errors.Is(err, domain.ErrNotFound):
			line = domain.CartLine{
				ID:            uuid.NewString(),
				CarritoID:     cartID,
				ProductoID:    productID,
				Nombre:        p.Nombre,
				Cantidad:      qty,
				PrecioTotal:   pricing.LineTotal(unit, qty),
				FechaAgregado: time.Now().UTC(),
			}
			if err := tx.Carts.InsertLine(ctx, &line); err != nil {
				return err
			}
		default:
			return err
		}
		line.PrecioUnitario = unit
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, owner)
	return &line, nil
}

// UpdateQuantity sets the line quantity and re-prices it.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, productID string, qty int) (*domain.CartLine, error) {
	if !validate.Quantity(qty) {
		return nil, domain.ErrInvalidQuantity
	}
	var (
		line  domain.CartLine
		owner string
	)
	err := s.store.Atomic(ctx, func(tx *repos.Store) error {
		var err error
		if owner, err = tx.Carts.Owner(ctx, cartID); err != nil {
			return err
		}
		existing, err := tx.Carts.LineByProduct(ctx, cartID, productID)
		if err != nil {
			return err
		}
		unit, err := pricing.DiscountedPrice(existing.Precio, existing.Descuento)
		if err != nil {
			return err
		}
		line = existing.CartLine
		line.Cantidad = qty
		line.PrecioUnitario = unit
		line.PrecioTotal = pricing.LineTotal(unit, qty)
		return tx.Carts.UpdateLine(ctx, line.ID, line.Cantidad, line.PrecioTotal)
	})
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, owner)
	return &line, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) error {
	owner, err := s.store.Carts.Owner(ctx, cartID)
	if err != nil {
		return err
	}
	if err := s.store.Carts.DeleteLine(ctx, cartID, productID); err != nil {
		return err
	}
	s.Invalidate(ctx, owner)
	return nil
}

// ItemOwner resolves a cart line id to its cart and product. Lines in
// another user's cart report NotFound.
func (s *CartService) ItemOwner(ctx context.Context, itemID, userID string) (cartID, productID string, err error) {
	l, err := s.store.Carts.LineByID(ctx, itemID)
	if err != nil {
		return "", "", err
	}
	owner, err := s.store.Carts.Owner(ctx, l.CarritoID)
	if err != nil {
		return "", "", err
	}
	if owner != userID {
		return "", "", domain.NotFoundf("item %s not found", itemID)
	}
	return l.CarritoID, l.ProductoID, nil
}

// Invalidate drops cached snapshots and detaches later GetCart calls from
// a load already in flight. Cache failures are logged only; the entry
// expires on its own.
func (s *CartService) Invalidate(ctx context.Context, userIDs ...string) {
	if len(userIDs) == 0 {
		return
	}
	for _, id := range userIDs {
		s.sfg.Forget(id)
	}
	if err := s.cache.Delete(context.WithoutCancel(ctx), userIDs...); err != nil {
		log.L().Warn("cart cache delete", zap.Strings("user_ids", userIDs), zap.Error(err))
	}
}
