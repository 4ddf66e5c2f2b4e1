package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "decohogar/internal/log"
	"decohogar/internal/services"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	items, err := h.Wish.List(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	out := make([]wishlistView, 0, len(items))
	for _, e := range items {
		out = append(out, wishlistJSON(e))
	}
	return c.JSON(out)
}

func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	pid, err := param(c, "producto_id")
	if err != nil {
		return err
	}
	e, err := h.Wish.Add(c.UserContext(), currentUser(c).ID, pid)
	if err != nil {
		return err
	}
	applog.Audit(c, "wishlist.save", map[string]any{"product": pid})
	return created(c, wishlistJSON(*e))
}

func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	pid, err := param(c, "producto_id")
	if err != nil {
		return err
	}
	if err := h.Wish.Remove(c.UserContext(), currentUser(c).ID, pid); err != nil {
		return err
	}
	applog.Audit(c, "wishlist.unsave", map[string]any{"product": pid})
	return c.SendStatus(fiber.StatusNoContent)
}
