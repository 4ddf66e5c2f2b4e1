package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"decohogar/internal/domain"
	"decohogar/internal/repos"
	"decohogar/internal/validate"
)

const maxDescription = 2000

type CatalogService struct {
	store *repos.Store
	carts *CartService
}

func NewCatalogService(store *repos.Store, carts *CartService) *CatalogService {
	return &CatalogService{store: store, carts: carts}
}

// TaxonomyInput is the body accepted for categorias, estancias and servicios.
type TaxonomyInput struct {
	Nombre      string
	Descripcion string
}

func (in TaxonomyInput) clean() (string, string, error) {
	nombre, ok := validate.Name(in.Nombre)
	if !ok {
		return "", "", domain.Validation("nombre is required")
	}
	desc, ok := validate.Text(in.Descripcion, maxDescription)
	if !ok {
		return "", "", domain.Validation("descripcion is too long")
	}
	return nombre, desc, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.store.Categories.List(ctx)
}

func (s *CatalogService) Category(ctx context.Context, id string) (*domain.Category, error) {
	return s.store.Categories.Get(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in TaxonomyInput) (*domain.Category, error) {
	nombre, desc, err := in.clean()
	if err != nil {
		return nil, err
	}
	c := &domain.Category{ID: uuid.NewString(), Nombre: nombre, Descripcion: desc}
	if err := s.store.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.store.Categories.Delete(ctx, id)
}

func (s *CatalogService) Rooms(ctx context.Context) ([]domain.Room, error) {
	return s.store.Rooms.List(ctx)
}

func (s *CatalogService) Room(ctx context.Context, id string) (*domain.Room, error) {
	return s.store.Rooms.Get(ctx, id)
}

func (s *CatalogService) CreateRoom(ctx context.Context, in TaxonomyInput) (*domain.Room, error) {
	nombre, desc, err := in.clean()
	if err != nil {
		return nil, err
	}
	r := &domain.Room{ID: uuid.NewString(), Nombre: nombre, Descripcion: desc}
	if err := s.store.Rooms.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *CatalogService) DeleteRoom(ctx context.Context, id string) error {
	return s.store.Atomic(ctx, func(tx *repos.Store) error {
		return tx.Rooms.Delete(ctx, id)
	})
}

func (s *CatalogService) Services(ctx context.Context) ([]domain.Service, error) {
	return s.store.Services.List(ctx)
}

func (s *CatalogService) Service(ctx context.Context, id string) (*domain.Service, error) {
	return s.store.Services.Get(ctx, id)
}

func (s *CatalogService) CreateService(ctx context.Context, in TaxonomyInput) (*domain.Service, error) {
	nombre, desc, err := in.clean()
	if err != nil {
		return nil, err
	}
	sv := &domain.Service{ID: uuid.NewString(), Nombre: nombre, Descripcion: desc}
	if err := s.store.Services.Create(ctx, sv); err != nil {
		return nil, err
	}
	return sv, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	return s.store.Services.Delete(ctx, id)
}

// ProductInput is the writable part of a product. Colores and Materiales
// must be JSON arrays of strings; null is treated as an empty list.
type ProductInput struct {
	Nombre      string
	Descripcion string
	Precio      decimal.Decimal
	Descuento   int
	Stock       bool
	CategoriaID string
	EstanciaID  *string
	Imagen      string
	Colores     json.RawMessage
	Materiales  json.RawMessage
	Peso        float64
}

func (in ProductInput) apply(p *domain.Product) error {
	nombre, ok := validate.Name(in.Nombre)
	if !ok {
		return domain.Validation("nombre is required")
	}
	desc, ok := validate.Text(in.Descripcion, maxDescription)
	if !ok {
		return domain.Validation("descripcion is too long")
	}
	if !validate.Price(in.Precio) {
		return domain.Validation("precio must be non-negative with at most two decimals")
	}
	if !validate.Discount(in.Descuento) {
		return domain.ErrInvalidDiscount
	}
	if in.Peso < 0 {
		return domain.Validation("peso must not be negative")
	}
	cat, ok := validate.ID(in.CategoriaID)
	if !ok {
		return domain.Validation("categoria_id is required")
	}
	var room *string
	if in.EstanciaID != nil && strings.TrimSpace(*in.EstanciaID) != "" {
		id, ok := validate.ID(*in.EstanciaID)
		if !ok {
			return domain.Validation("estancia_id is not valid")
		}
		room = &id
	}
	colores, err := stringList("colores", in.Colores)
	if err != nil {
		return err
	}
	materiales, err := stringList("materiales", in.Materiales)
	if err != nil {
		return err
	}
	imagen, ok := validate.Text(in.Imagen, 500)
	if !ok {
		return domain.Validation("imagen is too long")
	}

	p.Nombre = nombre
	p.Descripcion = desc
	p.Precio = in.Precio
	p.Descuento = in.Descuento
	p.Stock = in.Stock
	p.CategoriaID = cat
	p.EstanciaID = room
	p.Imagen = imagen
	p.Colores = colores
	p.Materiales = materiales
	p.Peso = in.Peso
	return nil
}

func stringList(field string, raw json.RawMessage) (domain.StringList, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return domain.StringList{}, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, domain.Validationf("%s must be a JSON array of strings", field)
	}
	return out, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{ID: uuid.NewString(), FechaCreacion: time.Now().UTC()}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.store.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct replaces the writable fields. Cart lines keep the line
// totals they were priced at; they are re-priced on their next change.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	var (
		p     *domain.Product
		users []string
	)
	err := s.store.Atomic(ctx, func(tx *repos.Store) error {
		var err error
		if p, err = tx.Products.Get(ctx, id); err != nil {
			return err
		}
		if err := in.apply(p); err != nil {
			return err
		}
		if err := tx.Products.Update(ctx, p); err != nil {
			return err
		}
		users, err = tx.Carts.UsersWithProduct(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	// Cached snapshots show the live name and unit price.
	s.carts.Invalidate(ctx, users...)
	return p, nil
}

// DeleteProduct removes the product and every cart line, order line and
// wishlist row referencing it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	var users []string
	err := s.store.Atomic(ctx, func(tx *repos.Store) error {
		var err error
		users, err = tx.Products.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.carts.Invalidate(ctx, users...)
	return nil
}

func (s *CatalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	return s.store.Products.Get(ctx, id)
}

func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	return s.store.Products.List(ctx)
}

func (s *CatalogService) Offers(ctx context.Context) ([]domain.Product, error) {
	return s.store.Products.Offers(ctx)
}

func (s *CatalogService) NoOffers(ctx context.Context) ([]domain.Product, error) {
	return s.store.Products.NoOffers(ctx)
}

func (s *CatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	return s.store.Products.Featured(ctx)
}

// ByCategory reports NotFound for an unknown category rather than an empty list.
func (s *CatalogService) ByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	if _, err := s.store.Categories.Get(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.store.Products.ByCategory(ctx, categoryID)
}

func (s *CatalogService) Search(ctx context.Context, text string) ([]domain.Product, error) {
	q, ok := validate.Q(text)
	if !ok {
		return nil, domain.Validation("search text must be 1-50 letters, digits or spaces")
	}
	return s.store.Products.Search(ctx, q)
}
