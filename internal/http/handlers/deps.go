package handlers

import (
	"context"

	"decohogar/internal/auth"
	"decohogar/internal/cache"
	"decohogar/internal/repos"
	"decohogar/internal/services"
)

type Deps struct {
	AuthService *services.AuthService

	AuthHandler     *AuthHandler
	CategoryHandler *TaxonomyHandler
	RoomHandler     *TaxonomyHandler
	ServiceHandler  *TaxonomyHandler
	ProductHandler  *ProductHandler
	WishlistHandler *WishlistHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler

	// Ping reports whether the database answers; used by /healthz.
	Ping func(context.Context) error
}

func NewDeps(store *repos.Store, hasher *auth.Hasher, tokens *auth.Tokens, carts cache.CartCache) *Deps {
	cartSvc := services.NewCartService(store, carts)
	authSvc := services.NewAuthService(store, hasher, tokens, cartSvc)
	catalogSvc := services.NewCatalogService(store, cartSvc)
	orderSvc := services.NewOrderService(store, cartSvc)
	wishSvc := services.NewWishlistService(store)

	return &Deps{
		AuthService:     authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc},
		CategoryHandler: NewCategoryHandler(catalogSvc),
		RoomHandler:     NewRoomHandler(catalogSvc),
		ServiceHandler:  NewServiceHandler(catalogSvc),
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		WishlistHandler: &WishlistHandler{Wish: wishSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		OrderHandler:    &OrderHandler{Order: orderSvc},
		Ping:            store.Ping,
	}
}
