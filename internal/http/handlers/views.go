package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"decohogar/internal/domain"
	"decohogar/internal/pricing"
)

// JSON shapes returned by the API. Money is always a string with two
// decimals so clients never see float rounding.

func money(d decimal.Decimal) string { return d.StringFixed(2) }

type userView struct {
	ID            string    `json:"id"`
	Nombre        string    `json:"nombre"`
	Apellido      string    `json:"apellido"`
	Email         string    `json:"email"`
	Direccion     string    `json:"direccion"`
	Telefono      string    `json:"telefono"`
	Activo        bool      `json:"activo"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

func userJSON(u *domain.User) userView {
	return userView{
		ID:            u.ID,
		Nombre:        u.Nombre,
		Apellido:      u.Apellido,
		Email:         u.Email,
		Direccion:     u.Direccion,
		Telefono:      u.Telefono,
		Activo:        u.Activo,
		FechaCreacion: u.FechaCreacion,
	}
}

type taxonomyView struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

type productView struct {
	ID              string    `json:"id"`
	Nombre          string    `json:"nombre"`
	Descripcion     string    `json:"descripcion"`
	Precio          string    `json:"precio"`
	Descuento       int       `json:"descuento"`
	PrecioDescuento string    `json:"precio_descuento"`
	Stock           bool      `json:"stock"`
	Categoria       string    `json:"categoria"`
	Estancia        *string   `json:"estancia"`
	Imagen          string    `json:"imagen"`
	Colores         []string  `json:"colores"`
	ColoresTexto    string    `json:"colores_texto"`
	Materiales      []string  `json:"materiales"`
	MaterialesTexto string    `json:"materiales_texto"`
	Peso            float64   `json:"peso"`
	FechaCreacion   time.Time `json:"fecha_creacion"`
}

func productJSON(p domain.Product) (productView, error) {
	discounted, err := pricing.ProductPrice(p)
	if err != nil {
		return productView{}, err
	}
	colores, materiales := p.Colores, p.Materiales
	if colores == nil {
		colores = domain.StringList{}
	}
	if materiales == nil {
		materiales = domain.StringList{}
	}
	return productView{
		ID:              p.ID,
		Nombre:          p.Nombre,
		Descripcion:     p.Descripcion,
		Precio:          money(p.Precio),
		Descuento:       p.Descuento,
		PrecioDescuento: money(discounted),
		Stock:           p.Stock,
		Categoria:       p.CategoriaID,
		Estancia:        p.EstanciaID,
		Imagen:          p.Imagen,
		Colores:         colores,
		ColoresTexto:    colores.Format(),
		Materiales:      materiales,
		MaterialesTexto: materiales.Format(),
		Peso:            p.Peso,
		FechaCreacion:   p.FechaCreacion,
	}, nil
}

func productsJSON(ps []domain.Product) ([]productView, error) {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		v, err := productJSON(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type wishlistView struct {
	ID            string    `json:"id"`
	Producto      string    `json:"producto"`
	Nombre        string    `json:"nombre"`
	FechaAgregado time.Time `json:"fecha_agregado"`
}

func wishlistJSON(e domain.WishlistEntry) wishlistView {
	return wishlistView{ID: e.ID, Producto: e.ProductoID, Nombre: e.Nombre, FechaAgregado: e.FechaAgregado}
}

type cartLineView struct {
	ID             string    `json:"id"`
	Producto       string    `json:"producto"`
	Nombre         string    `json:"nombre"`
	Cantidad       int       `json:"cantidad"`
	PrecioUnitario string    `json:"precio_unitario"`
	PrecioTotal    string    `json:"precio_total"`
	FechaAgregado  time.Time `json:"fecha_agregado"`
}

type cartView struct {
	ID      string         `json:"id"`
	Usuario string         `json:"usuario"`
	Items   []cartLineView `json:"items"`
	Total   string         `json:"total"`
}

func cartLineJSON(l domain.CartLine) cartLineView {
	return cartLineView{
		ID:             l.ID,
		Producto:       l.ProductoID,
		Nombre:         l.Nombre,
		Cantidad:       l.Cantidad,
		PrecioUnitario: money(l.PrecioUnitario),
		PrecioTotal:    money(l.PrecioTotal),
		FechaAgregado:  l.FechaAgregado,
	}
}

func cartJSON(c *domain.Cart) cartView {
	items := make([]cartLineView, 0, len(c.Items))
	for _, l := range c.Items {
		items = append(items, cartLineJSON(l))
	}
	return cartView{ID: c.ID, Usuario: c.UsuarioID, Items: items, Total: money(c.Total)}
}

type orderLineView struct {
	ID             string `json:"id"`
	Producto       string `json:"producto"`
	NombreProducto string `json:"nombre_producto"`
	Cantidad       int    `json:"cantidad"`
	PrecioTotal    string `json:"precio_total"`
}

type orderView struct {
	ID             string          `json:"id"`
	Usuario        string          `json:"usuario"`
	FechaPedido    time.Time       `json:"fecha_pedido"`
	Estado         string          `json:"estado"`
	DireccionEnvio string          `json:"direccion_envio"`
	MetodoPago     string          `json:"metodo_pago"`
	Total          string          `json:"total"`
	Detalles       []orderLineView `json:"detalles"`
}

func orderJSON(o *domain.Order) orderView {
	lines := make([]orderLineView, 0, len(o.Detalles))
	for _, d := range o.Detalles {
		lines = append(lines, orderLineView{
			ID:             d.ID,
			Producto:       d.ProductoID,
			NombreProducto: d.NombreProducto,
			Cantidad:       d.Cantidad,
			PrecioTotal:    money(d.PrecioTotal),
		})
	}
	return orderView{
		ID:             o.ID,
		Usuario:        o.UsuarioID,
		FechaPedido:    o.FechaPedido,
		Estado:         string(o.Estado),
		DireccionEnvio: o.DireccionEnvio,
		MetodoPago:     o.MetodoPago,
		Total:          money(o.Total),
		Detalles:       lines,
	}
}
