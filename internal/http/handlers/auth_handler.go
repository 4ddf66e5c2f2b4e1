package handlers

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"

	"decohogar/internal/domain"
	"decohogar/internal/log"
	"decohogar/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.Auth.Register(c.UserContext(), services.RegisterInput{
		Nombre:    req.Nombre,
		Apellido:  req.Apellido,
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			log.Security(c, "auth.register.duplicate", nil)
		}
		return err
	}
	log.Audit(c, "auth.register", map[string]any{"user": u.ID})
	return created(c, userJSON(u))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Usuario          userView  `json:"usuario"`
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, sess, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			log.Security(c, "auth.login.fail", nil)
		}
		return err
	}
	c.Locals(log.UserIDKey, u.ID)
	log.Audit(c, "auth.login.success", nil)
	return c.JSON(loginResponse{
		Usuario:          userJSON(u),
		Access:           sess.AccessToken,
		Refresh:          sess.RefreshToken,
		AccessExpiresAt:  sess.AccessExpiresAt,
		RefreshExpiresAt: sess.RefreshExpiresAt,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	access, exp, err := h.Auth.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			log.Security(c, "auth.refresh.fail", nil)
		}
		return err
	}
	return c.JSON(fiber.Map{"access": access, "access_expires_at": exp})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(userJSON(currentUser(c)))
}

type updateRequest struct {
	Nombre    *string `json:"nombre"`
	Apellido  *string `json:"apellido"`
	Email     *string `json:"email"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Password  string  `json:"password"`
	Password2 string  `json:"password2"`
}

func (h *AuthHandler) Update(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	var req updateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	actor := currentUser(c)
	u, err := h.Auth.Update(c.UserContext(), actor.ID, id, services.UpdateInput{
		Nombre:    req.Nombre,
		Apellido:  req.Apellido,
		Email:     req.Email,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Password:  req.Password,
		Password2: req.Password2,
	})
	if err != nil {
		if actor.ID != id {
			log.Security(c, "access.denied.user", map[string]any{"target": id})
		}
		return err
	}
	log.Audit(c, "user.update", map[string]any{"password_changed": req.Password != ""})
	return c.JSON(userJSON(u))
}

// Delete removes the caller's own account.
func (h *AuthHandler) Delete(c *fiber.Ctx) error {
	id, err := param(c, "id")
	if err != nil {
		return err
	}
	actor := currentUser(c)
	if err := h.Auth.Delete(c.UserContext(), actor.ID, id); err != nil {
		if actor.ID != id {
			log.Security(c, "access.denied.user", map[string]any{"target": id})
		}
		return err
	}
	log.Audit(c, "user.delete", nil)
	return c.SendStatus(fiber.StatusNoContent)
}
