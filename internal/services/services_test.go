package services_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"decohogar/internal/auth"
	"decohogar/internal/cache"
	"decohogar/internal/domain"
	"decohogar/internal/repos"
	"decohogar/internal/services"
)

const testPassword = "Sofa-2024!"

type env struct {
	store    *repos.Store
	redis    *miniredis.Miniredis
	auth     *services.AuthService
	carts    *services.CartService
	orders   *services.OrderService
	catalog  *services.CatalogService
	wishlist *services.WishlistService

	categories int
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithCache(t, nil)
}

// newEnvWithCache lets a test wrap the Redis cart cache.
func newEnvWithCache(t *testing.T, wrap func(cache.CartCache) cache.CartCache) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repos.NewStore(db)
	tokens := auth.NewTokens("test-secret", "decohogar", 15*time.Minute, time.Hour)
	var cc cache.CartCache = cache.NewRedisCache(client, time.Minute)
	if wrap != nil {
		cc = wrap(cc)
	}
	carts := services.NewCartService(store, cc)
	return &env{
		store:    store,
		redis:    mr,
		auth:     services.NewAuthService(store, auth.NewHasher(1000), tokens, carts),
		carts:    carts,
		orders:   services.NewOrderService(store, carts),
		catalog:  services.NewCatalogService(store, carts),
		wishlist: services.NewWishlistService(store),
	}
}

func (e *env) register(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), services.RegisterInput{
		Nombre: "Lucía", Apellido: "Pérez", Email: email,
		Password: testPassword, Password2: testPassword,
		Direccion: "Av. Diagonal 10, Barcelona", Telefono: "600111222",
	})
	require.NoError(t, err)
	return u
}

func (e *env) category(t *testing.T) *domain.Category {
	t.Helper()
	e.categories++
	c, err := e.catalog.CreateCategory(context.Background(), services.TaxonomyInput{
		Nombre: "Muebles " + strconv.Itoa(e.categories),
	})
	require.NoError(t, err)
	return c
}

func (e *env) product(t *testing.T, precio string, descuento int, stock bool) *domain.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), services.ProductInput{
		Nombre:      "Producto " + precio,
		Descripcion: "Producto de prueba",
		Precio:      decimal.RequireFromString(precio),
		Descuento:   descuento,
		Stock:       stock,
		CategoriaID: e.category(t).ID,
		Colores:     []byte(`["Blanco","Negro"]`),
		Peso:        1.5,
	})
	require.NoError(t, err)
	return p
}
