package domain

import (
	"time"

	"decohogar/internal/auth"
)

// User is a store customer. Password always holds a one-way hash.
type User struct {
	ID            string                `db:"id"`
	Nombre        string                `db:"nombre"`
	Apellido      string                `db:"apellido"`
	Email         string                `db:"email"`
	Password      auth.HashedCredential `db:"password"`
	Direccion     string                `db:"direccion"`
	Telefono      string                `db:"telefono"`
	Activo        bool                  `db:"activo"`
	FechaCreacion time.Time             `db:"fecha_creacion"`
}
