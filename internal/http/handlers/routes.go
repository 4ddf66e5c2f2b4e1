package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Route is one entry of the API table.
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
	// Auth routes require a valid access token.
	Auth bool
	// Throttled routes also pass the login limiter.
	Throttled bool
}

// Routes lists every endpoint. Static segments come before parameters so
// that /productos/ofertas is not taken as a product id.
func (d *Deps) Routes() []Route {
	return []Route{
		{Method: fiber.MethodPost, Path: "/usuarios/registro", Handler: d.AuthHandler.Register},
		{Method: fiber.MethodPost, Path: "/usuarios/login", Handler: d.AuthHandler.Login, Throttled: true},
		{Method: fiber.MethodPost, Path: "/token/refresh", Handler: d.AuthHandler.Refresh},
		{Method: fiber.MethodGet, Path: "/usuarios/me", Handler: d.AuthHandler.Me, Auth: true},
		{Method: fiber.MethodPut, Path: "/usuarios/:id/actualizar", Handler: d.AuthHandler.Update, Auth: true},
		{Method: fiber.MethodDelete, Path: "/usuarios/:id", Handler: d.AuthHandler.Delete, Auth: true},

		{Method: fiber.MethodGet, Path: "/categorias", Handler: d.CategoryHandler.List},
		{Method: fiber.MethodPost, Path: "/categorias", Handler: d.CategoryHandler.Create, Auth: true},
		{Method: fiber.MethodGet, Path: "/categorias/:id", Handler: d.CategoryHandler.Get},
		{Method: fiber.MethodDelete, Path: "/categorias/:id", Handler: d.CategoryHandler.Delete, Auth: true},

		{Method: fiber.MethodGet, Path: "/estancias", Handler: d.RoomHandler.List},
		{Method: fiber.MethodPost, Path: "/estancias", Handler: d.RoomHandler.Create, Auth: true},
		{Method: fiber.MethodGet, Path: "/estancias/:id", Handler: d.RoomHandler.Get},
		{Method: fiber.MethodDelete, Path: "/estancias/:id", Handler: d.RoomHandler.Delete, Auth: true},

		{Method: fiber.MethodGet, Path: "/servicios", Handler: d.ServiceHandler.List},
		{Method: fiber.MethodPost, Path: "/servicios", Handler: d.ServiceHandler.Create, Auth: true},
		{Method: fiber.MethodGet, Path: "/servicios/:id", Handler: d.ServiceHandler.Get},
		{Method: fiber.MethodDelete, Path: "/servicios/:id", Handler: d.ServiceHandler.Delete, Auth: true},

		{Method: fiber.MethodGet, Path: "/productos", Handler: d.ProductHandler.List},
		{Method: fiber.MethodPost, Path: "/productos", Handler: d.ProductHandler.Create, Auth: true},
		{Method: fiber.MethodGet, Path: "/productos/ofertas", Handler: d.ProductHandler.Offers},
		{Method: fiber.MethodGet, Path: "/productos/sin-ofertas", Handler: d.ProductHandler.NoOffers},
		{Method: fiber.MethodGet, Path: "/productos/destacados", Handler: d.ProductHandler.Featured},
		{Method: fiber.MethodGet, Path: "/productos/por-categoria/:id", Handler: d.ProductHandler.ByCategory},
		{Method: fiber.MethodGet, Path: "/productos/buscar/:texto", Handler: d.ProductHandler.Search},
		{Method: fiber.MethodGet, Path: "/productos/:id", Handler: d.ProductHandler.Detail},
		{Method: fiber.MethodPut, Path: "/productos/:id", Handler: d.ProductHandler.Update, Auth: true},
		{Method: fiber.MethodDelete, Path: "/productos/:id", Handler: d.ProductHandler.Delete, Auth: true},

		{Method: fiber.MethodGet, Path: "/wishlist", Handler: d.WishlistHandler.List, Auth: true},
		{Method: fiber.MethodPost, Path: "/wishlist/:producto_id", Handler: d.WishlistHandler.Save, Auth: true},
		{Method: fiber.MethodDelete, Path: "/wishlist/:producto_id", Handler: d.WishlistHandler.Unsave, Auth: true},

		{Method: fiber.MethodGet, Path: "/carritos", Handler: d.CartHandler.View, Auth: true},
		{Method: fiber.MethodPost, Path: "/carritos", Handler: d.CartHandler.Ensure, Auth: true},
		{Method: fiber.MethodPost, Path: "/items-carrito", Handler: d.CartHandler.Add, Auth: true},
		{Method: fiber.MethodPut, Path: "/items-carrito/:id", Handler: d.CartHandler.Update, Auth: true},
		{Method: fiber.MethodDelete, Path: "/items-carrito/:id", Handler: d.CartHandler.Remove, Auth: true},

		{Method: fiber.MethodGet, Path: "/pedidos", Handler: d.OrderHandler.History, Auth: true},
		{Method: fiber.MethodPost, Path: "/pedidos", Handler: d.OrderHandler.Place, Auth: true},
		{Method: fiber.MethodGet, Path: "/pedidos/:id", Handler: d.OrderHandler.View, Auth: true},
		{Method: fiber.MethodPut, Path: "/pedidos/:id", Handler: d.OrderHandler.Transition, Auth: true},

		{Method: fiber.MethodGet, Path: "/healthz", Handler: d.Health},
	}
}

// Register mounts routes on r. Auth routes get requireUser in front;
// throttled routes get throttle (when non-nil) before anything else.
func Register(r fiber.Router, routes []Route, requireUser, throttle fiber.Handler) {
	for _, rt := range routes {
		chain := make([]fiber.Handler, 0, 3)
		if rt.Throttled && throttle != nil {
			chain = append(chain, throttle)
		}
		if rt.Auth {
			chain = append(chain, requireUser)
		}
		chain = append(chain, rt.Handler)
		r.Add(rt.Method, rt.Path, chain...)
	}
}

// Health answers 200 while the database is reachable.
func (d *Deps) Health(c *fiber.Ctx) error {
	if d.Ping != nil {
		if err := d.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}
