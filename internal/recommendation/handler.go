package recommendation

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/customers/:id/recommendations", h.getCustomerRecommendations)
	app.Get("/api/v1/suppliers/:id/recommendations", h.getSupplierRecommendations)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	// recommendations for the customer carried in the JWT
	app.Get("/api/v1/recommendations/me", h.getMyRecommendations)
}

func (h *Handler) getCustomerRecommendations(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid id")
	}

	at, err := evaluationTime(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid at")
	}

	result, err := h.service.ForCustomer(id, at)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(result)
}

func (h *Handler) getSupplierRecommendations(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid id")
	}

	at, err := evaluationTime(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid at")
	}

	result, err := h.service.ForSupplier(id, at)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(result)
}

func (h *Handler) getMyRecommendations(c *fiber.Ctx) error {
	id, err := customerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).SendString("unauthorized")
	}

	at, err := evaluationTime(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid at")
	}

	result, err := h.service.ForCustomer(id, at)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(result)
}

// evaluationTime returns the scoring instant: the `at` query parameter when
// present (RFC3339), otherwise the current time. A malformed value is an
// error; falling back to "now" would silently change the score.
func evaluationTime(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("at")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

// customerIDFromCtx extracts the customer_id claim from the JWT token stored
// in `c.Locals("user")` by the jwt middleware.
func customerIDFromCtx(c *fiber.Ctx) (int, error) {
	u := c.Locals("user")
	if u == nil {
		return 0, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	if raw, ok := claims["customer_id"]; ok {
		switch v := raw.(type) {
		case float64:
			return int(v), nil
		case int:
			return v, nil
		case string:
			id, err := strconv.Atoi(v)
			if err != nil {
				return 0, fiber.ErrUnauthorized
			}
			return id, nil
		}
	}
	return 0, fiber.ErrUnauthorized
}
