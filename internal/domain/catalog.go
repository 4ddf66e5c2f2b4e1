package domain

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          string `db:"id"`
	Nombre      string `db:"nombre"`
	Descripcion string `db:"descripcion"`
}

// Room is an "estancia" tag (living room, kitchen, ...) attached to products.
type Room struct {
	ID          string `db:"id"`
	Nombre      string `db:"nombre"`
	Descripcion string `db:"descripcion"`
}

// Service is an offered service such as assembly or delivery. No behaviour.
type Service struct {
	ID          string `db:"id"`
	Nombre      string `db:"nombre"`
	Descripcion string `db:"descripcion"`
}

type Product struct {
	ID            string          `db:"id"`
	Nombre        string          `db:"nombre"`
	Descripcion   string          `db:"descripcion"`
	Precio        decimal.Decimal `db:"precio"`
	Descuento     int             `db:"descuento"` // percent, 0..100
	Stock         bool            `db:"stock"`
	CategoriaID   string          `db:"categoria_id"`
	EstanciaID    *string         `db:"estancia_id"`
	Imagen        string          `db:"imagen"`
	Colores       StringList      `db:"colores"`
	Materiales    StringList      `db:"materiales"`
	Peso          float64         `db:"peso"`
	FechaCreacion time.Time       `db:"fecha_creacion"`
}

// StringList is a free-form list of tags stored as a JSON array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	case nil:
		*l = StringList{}
		return nil
	default:
		return errors.Errorf("scan string list: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return errors.Wrap(err, "scan string list")
	}
	*l = out
	return nil
}

// Format joins the entries for display, e.g. "Roble, Nogal".
func (l StringList) Format() string {
	parts := make([]string, 0, len(l))
	for _, s := range l {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

type WishlistEntry struct {
	ID            string    `db:"id"`
	UsuarioID     string    `db:"usuario_id"`
	ProductoID    string    `db:"producto_id"`
	Nombre        string    `db:"nombre"`
	FechaAgregado time.Time `db:"fecha_agregado"`
}
