package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var ErrInvalidID = errors.New("geçersiz ID")

// ParamID route parametresini pozitif bir ID olarak okur.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return uint(id), nil
}

// OptionalID boş değer için nil, geçerli bir sayı için işaretçi döner.
func OptionalID(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrInvalidID
	}
	v := uint(id)
	return &v, nil
}

// CurrentUserID oturumdaki kullanıcının ID'si. Oturum yoksa 0.
func CurrentUserID(c *fiber.Ctx) uint {
	if user, ok := CurrentUser(c); ok {
		return user.ID
	}
	return 0
}
