package handlers

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"decohogar/internal/domain"
	applog "decohogar/internal/log"
	"decohogar/internal/validate"
)

const genericFailure = "Something went wrong. Please try again."

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var kindStatus = map[domain.Kind]int{
	domain.KindValidation:         fiber.StatusBadRequest,
	domain.KindInvalidDiscount:    fiber.StatusBadRequest,
	domain.KindInvalidQuantity:    fiber.StatusBadRequest,
	domain.KindOutOfStock:         fiber.StatusBadRequest,
	domain.KindEmptyCart:          fiber.StatusBadRequest,
	domain.KindInvalidTransition:  fiber.StatusBadRequest,
	domain.KindInvalidCredentials: fiber.StatusUnauthorized,
	domain.KindNotFound:           fiber.StatusNotFound,
	domain.KindConflict:           fiber.StatusConflict,
}

// classify maps err to the response status and the body shown to clients.
// Anything that is not a domain or fiber error is a 500 with a generic text.
func classify(err error) (int, errorDetail) {
	var de *domain.Error
	if errors.As(err, &de) {
		if status, ok := kindStatus[de.Kind]; ok {
			return status, errorDetail{Kind: string(de.Kind), Message: de.Message}
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		kind := strings.ReplaceAll(utils.StatusMessage(fe.Code), " ", "")
		return fe.Code, errorDetail{Kind: kind, Message: fe.Message}
	}
	return fiber.StatusInternalServerError, errorDetail{Kind: "InternalError", Message: genericFailure}
}

// ErrorHandler is the app-wide fiber error handler. Server errors are logged
// with the request id; the client only sees the generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, detail := classify(err)
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	c.Status(status)
	if jerr := c.JSON(errorBody{Error: detail}); jerr != nil {
		return c.SendString(genericFailure)
	}
	return nil
}

// bind decodes the JSON request body into dst.
func bind(c *fiber.Ctx, dst any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return domain.Validation("request body is required")
	}
	if err := c.App().Config().JSONDecoder(body, dst); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": "malformed_json"})
		return domain.Validation("malformed JSON body")
	}
	return nil
}

// param returns the route parameter name after checking it is a well formed id.
func param(c *fiber.Ctx, name string) (string, error) {
	id, ok := validate.ID(utils.CopyString(c.Params(name)))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": name})
		return "", domain.Validationf("invalid %s", name)
	}
	return id, nil
}

func created(c *fiber.Ctx, v any) error {
	return c.Status(fiber.StatusCreated).JSON(v)
}
