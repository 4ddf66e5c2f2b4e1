package handlers

import (
	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"

	"decohogar/internal/domain"
	applog "decohogar/internal/log"
	"decohogar/internal/services"
)

type OrderHandler struct {
	Order *services.OrderService
}

type checkoutRequest struct {
	DireccionEnvio string `json:"direccion_envio"`
	MetodoPago     string `json:"metodo_pago"`
}

// Place turns the caller's cart into a pending order. An empty body is
// allowed; the stored address is used then.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req checkoutRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	o, err := h.Order.Checkout(c.UserContext(), currentUser(c).ID, req.DireccionEnvio, req.MetodoPago)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"error": err.Error()})
		return err
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID,
		"total":    money(o.Total),
		"lines":    len(o.Detalles),
	})
	return created(c, orderJSON(o))
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	o, err := h.Order.Get(c.UserContext(), id, currentUser(c).ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
		}
		return err
	}
	return c.JSON(orderJSON(o))
}

// History lists the caller's orders, newest first.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Order.List(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	out := make([]orderView, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	return c.JSON(out)
}

type transitionRequest struct {
	Estado string `json:"estado"`
}

func (h *OrderHandler) Transition(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	var req transitionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	next, err := domain.ParseOrderStatus(req.Estado)
	if err != nil {
		return err
	}
	o, err := h.Order.Transition(c.UserContext(), id, currentUser(c).ID, next)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
		}
		return err
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": id, "estado": string(next)})
	return c.JSON(orderJSON(o))
}
