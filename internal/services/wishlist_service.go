package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"decohogar/internal/domain"
	"decohogar/internal/repos"
)

type WishlistService struct {
	store *repos.Store
}

func NewWishlistService(store *repos.Store) *WishlistService {
	return &WishlistService{store: store}
}

// Add saves the product for the user. Saving it twice is a Conflict.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*domain.WishlistEntry, error) {
	p, err := s.store.Products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	e := &domain.WishlistEntry{
		ID:            uuid.NewString(),
		UsuarioID:     userID,
		ProductoID:    p.ID,
		Nombre:        p.Nombre,
		FechaAgregado: time.Now().UTC(),
	}
	if err := s.store.Wishlist.Add(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	return s.store.Wishlist.Remove(ctx, userID, productID)
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	return s.store.Wishlist.List(ctx, userID)
}
