package handlers

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/shopspring/decimal"

	"decohogar/internal/domain"
	"decohogar/internal/log"
	"decohogar/internal/services"
	"decohogar/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type productRequest struct {
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Descuento   int             `json:"descuento"`
	Stock       *bool           `json:"stock"`
	Categoria   string          `json:"categoria"`
	Estancia    *string         `json:"estancia"`
	Imagen      string          `json:"imagen"`
	Colores     json.RawMessage `json:"colores"`
	Materiales  json.RawMessage `json:"materiales"`
	Peso        float64         `json:"peso"`
}

func (r productRequest) input() services.ProductInput {
	stock := true
	if r.Stock != nil {
		stock = *r.Stock
	}
	estancia := r.Estancia
	if estancia != nil && strings.TrimSpace(*estancia) == "" {
		estancia = nil
	}
	return services.ProductInput{
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
		Precio:      r.Precio,
		Descuento:   r.Descuento,
		Stock:       stock,
		CategoriaID: r.Categoria,
		EstanciaID:  estancia,
		Imagen:      r.Imagen,
		Colores:     r.Colores,
		Materiales:  r.Materiales,
		Peso:        r.Peso,
	}
}

func (h *ProductHandler) listing(fetch func(context.Context) ([]domain.Product, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ps, err := fetch(c.UserContext())
		if err != nil {
			return err
		}
		out, err := productsJSON(ps)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

func (h *ProductHandler) List(c *fiber.Ctx) error     { return h.listing(h.Catalog.Products)(c) }
func (h *ProductHandler) Offers(c *fiber.Ctx) error   { return h.listing(h.Catalog.Offers)(c) }
func (h *ProductHandler) NoOffers(c *fiber.Ctx) error { return h.listing(h.Catalog.NoOffers)(c) }
func (h *ProductHandler) Featured(c *fiber.Ctx) error { return h.listing(h.Catalog.Featured)(c) }

func (h *ProductHandler) ByCategory(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	return h.listing(func(ctx context.Context) ([]domain.Product, error) {
		return h.Catalog.ByCategory(ctx, id)
	})(c)
}

// Search matches the path text against product names and descriptions.
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	raw, err := decodeParam(c.Params("texto"))
	if err != nil {
		return err
	}
	if _, ok := validate.Q(raw); !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "texto"})
		return domain.Validation("enter a valid search text")
	}
	return h.listing(func(ctx context.Context) ([]domain.Product, error) {
		return h.Catalog.Search(ctx, raw)
	})(c)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Catalog.Product(c.UserContext(), id)
	if err != nil {
		return err
	}
	v, err := productJSON(*p)
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), req.input())
	if err != nil {
		return err
	}
	v, err := productJSON(*p)
	if err != nil {
		return err
	}
	log.Audit(c, "producto.create", map[string]any{"id": p.ID})
	return created(c, v)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, req.input())
	if err != nil {
		return err
	}
	v, err := productJSON(*p)
	if err != nil {
		return err
	}
	log.Audit(c, "producto.update", map[string]any{"id": id})
	return c.JSON(v)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	log.Audit(c, "producto.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// decodeParam undoes percent-encoding in a path segment such as "l%C3%A1mpara".
func decodeParam(raw string) (string, error) {
	s := utils.CopyString(raw)
	if !strings.Contains(s, "%") {
		return s, nil
	}
	out, err := url.PathUnescape(s)
	if err != nil {
		return "", domain.Validation("invalid search text")
	}
	return out, nil
}
