package httpapi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	cityQueryPattern   = regexp.MustCompile(`^[a-zA-Z0-9\s,'\-]+$`)
	countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegisterPattern(v, "cityquery", cityQueryPattern)
	mustRegisterPattern(v, "countrycode", countryCodePattern)
	return v
}

// mustRegisterPattern adds a string tag matching re. It panics on a bad tag.
func mustRegisterPattern(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// checkStruct validates req and turns failures into a 400 with a readable
// message.
func checkStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "cityquery":
		return fmt.Sprintf("%s may only contain letters, numbers, spaces, commas, apostrophes and hyphens", field)
	case "countrycode":
		return fmt.Sprintf("%s must be a two-letter uppercase country code", field)
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// bindBody decodes the JSON body into req and validates it.
func bindBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return checkStruct(req)
}
