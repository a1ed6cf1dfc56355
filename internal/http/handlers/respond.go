package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"stockledger/internal/domain"
	applog "stockledger/internal/log"
)

var checker = newChecker()

// newChecker reports fields by their JSON names.
func newChecker() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// statusFor maps a ledger error kind to an HTTP status.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindDuplicate, domain.KindInsufficientStock:
		return fiber.StatusConflict
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindStorage:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// fail writes the JSON error body. Storage and untyped errors are logged and
// their detail is kept out of the response.
func fail(c *fiber.Ctx, action string, err error) error {
	code := statusFor(err)
	msg := err.Error()
	kind := string(domain.KindOf(err))
	switch {
	case code >= fiber.StatusInternalServerError:
		applog.Error(c, action+".fail", err, nil)
		msg = "the inventory store is unavailable, please retry"
		if kind == "" {
			kind = "internal"
			msg = "internal error"
		}
	case code == fiber.StatusBadRequest:
		applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": msg})
	}
	return c.Status(code).JSON(fiber.Map{"error": msg, "kind": kind, "status_code": code})
}

func badRequest(c *fiber.Ctx, action, msg string) error {
	return fail(c, action, domain.Validationf("%s", msg))
}

// bind parses a JSON body into dst and checks its validate tags.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.Validationf("malformed JSON body")
	}
	if err := checker.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.Validationf("%s failed %s", fe.Field(), fe.Tag())
		}
		return domain.Validationf("invalid body")
	}
	return nil
}
