package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"decohogar/internal/domain"
	"decohogar/internal/log"
	"decohogar/internal/services"
)

// TaxonomyHandler serves categorias, estancias and servicios, which share
// one shape.
type TaxonomyHandler struct {
	name   string
	list   func(context.Context) ([]taxonomyView, error)
	get    func(context.Context, string) (taxonomyView, error)
	create func(context.Context, services.TaxonomyInput) (taxonomyView, error)
	delete func(context.Context, string) error
}

func newTaxonomyHandler[T any](
	name string,
	conv func(*T) taxonomyView,
	list func(context.Context) ([]T, error),
	get func(context.Context, string) (*T, error),
	create func(context.Context, services.TaxonomyInput) (*T, error),
	del func(context.Context, string) error,
) *TaxonomyHandler {
	one := func(x *T, err error) (taxonomyView, error) {
		if err != nil {
			return taxonomyView{}, err
		}
		return conv(x), nil
	}
	return &TaxonomyHandler{
		name: name,
		list: func(ctx context.Context) ([]taxonomyView, error) {
			xs, err := list(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]taxonomyView, 0, len(xs))
			for i := range xs {
				out = append(out, conv(&xs[i]))
			}
			return out, nil
		},
		get: func(ctx context.Context, id string) (taxonomyView, error) {
			return one(get(ctx, id))
		},
		create: func(ctx context.Context, in services.TaxonomyInput) (taxonomyView, error) {
			return one(create(ctx, in))
		},
		delete: del,
	}
}

func NewCategoryHandler(s *services.CatalogService) *TaxonomyHandler {
	conv := func(x *domain.Category) taxonomyView {
		return taxonomyView{ID: x.ID, Nombre: x.Nombre, Descripcion: x.Descripcion}
	}
	return newTaxonomyHandler("categoria", conv, s.Categories, s.Category, s.CreateCategory, s.DeleteCategory)
}

func NewRoomHandler(s *services.CatalogService) *TaxonomyHandler {
	conv := func(x *domain.Room) taxonomyView {
		return taxonomyView{ID: x.ID, Nombre: x.Nombre, Descripcion: x.Descripcion}
	}
	return newTaxonomyHandler("estancia", conv, s.Rooms, s.Room, s.CreateRoom, s.DeleteRoom)
}

func NewServiceHandler(s *services.CatalogService) *TaxonomyHandler {
	conv := func(x *domain.Service) taxonomyView {
		return taxonomyView{ID: x.ID, Nombre: x.Nombre, Descripcion: x.Descripcion}
	}
	return newTaxonomyHandler("servicio", conv, s.Services, s.Service, s.CreateService, s.DeleteService)
}

func (h *TaxonomyHandler) List(c *fiber.Ctx) error {
	out, err := h.list(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *TaxonomyHandler) Get(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	v, err := h.get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(v)
}

type taxonomyRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

func (h *TaxonomyHandler) Create(c *fiber.Ctx) error {
	var req taxonomyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	v, err := h.create(c.UserContext(), services.TaxonomyInput{Nombre: req.Nombre, Descripcion: req.Descripcion})
	if err != nil {
		return err
	}
	log.Audit(c, h.name+".create", map[string]any{"id": v.ID})
	return created(c, v)
}

func (h *TaxonomyHandler) Delete(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	if err := h.delete(c.UserContext(), id); err != nil {
		return err
	}
	log.Audit(c, h.name+".delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
