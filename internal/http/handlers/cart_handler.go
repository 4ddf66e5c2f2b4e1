package handlers

import (
	"github.com/gofiber/fiber/v2"

	"decohogar/internal/domain"
	"decohogar/internal/log"
	"decohogar/internal/services"
	"decohogar/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cart, err := h.Cart.GetCart(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(cartJSON(cart))
}

// Ensure creates the caller's cart if it does not exist yet and returns it.
func (h *CartHandler) Ensure(c *fiber.Ctx) error {
	ctx := c.UserContext()
	u := currentUser(c)
	if _, err := h.Cart.EnsureCart(ctx, u.ID); err != nil {
		return err
	}
	cart, err := h.Cart.GetCart(ctx, u.ID)
	if err != nil {
		return err
	}
	return created(c, cartJSON(cart))
}

type addItemRequest struct {
	Producto string `json:"producto_id"`
	Cantidad *int   `json:"cantidad"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pid, ok := validate.ID(req.Producto)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "producto_id"})
		return domain.Validation("producto_id is required")
	}
	qty := 1
	if req.Cantidad != nil {
		qty = *req.Cantidad
	}

	ctx := c.UserContext()
	cartID, err := h.Cart.EnsureCart(ctx, currentUser(c).ID)
	if err != nil {
		return err
	}
	line, err := h.Cart.AddItem(ctx, cartID, pid, qty)
	if err != nil {
		return err
	}
	log.Audit(c, "cart.add", map[string]any{"product": pid, "qty": qty})
	return created(c, cartLineJSON(*line))
}

type updateItemRequest struct {
	Cantidad *int `json:"cantidad"`
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	itemID, err := param(c, "id")
	if err != nil {
		return err
	}
	var req updateItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Cantidad == nil {
		return domain.Validation("cantidad is required")
	}
	ctx := c.UserContext()
	cartID, pid, err := h.Cart.ItemOwner(ctx, itemID, currentUser(c).ID)
	if err != nil {
		return err
	}
	line, err := h.Cart.UpdateQuantity(ctx, cartID, pid, *req.Cantidad)
	if err != nil {
		return err
	}
	log.Audit(c, "cart.update", map[string]any{"item": itemID, "qty": *req.Cantidad})
	return c.JSON(cartLineJSON(*line))
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	itemID, err := param(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	cartID, pid, err := h.Cart.ItemOwner(ctx, itemID, currentUser(c).ID)
	if err != nil {
		return err
	}
	if err := h.Cart.RemoveItem(ctx, cartID, pid); err != nil {
		return err
	}
	log.Audit(c, "cart.remove", map[string]any{"item": itemID})
	return c.SendStatus(fiber.StatusNoContent)
}
