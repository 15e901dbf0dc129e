package validators

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"

	"trainr/middleware"
	"trainr/outline"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	videoRefTag = "video_ref"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(videoRefTag, videoRefValidation)

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, videoRefTag} {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustomValidationErrs)
	}
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case videoRefTag:
		return fe.Field() + " must be a YouTube, Vimeo, Loom or http(s) video link"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// videoRefValidation accepts known video providers and any absolute http(s) url.
func videoRefValidation(fl validator.FieldLevel) bool {
	ref, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if _, known := outline.EmbedURL(ref); known {
		return true
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Struct validates v and returns field -> message, or nil when v is valid.
func Struct(v interface{}) map[string]string {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Translate(Translator)
	}
	return out
}

// Body parses the request body into reqData, validates it and stores it in Locals under key.
func Body(key string, reqData interface{}) fiber.Handler {
	typ := reflect.TypeOf(reqData).Elem()
	return func(c *fiber.Ctx) error {
		data := reflect.New(typ).Interface()
		if err := c.BodyParser(data); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errs := Struct(data); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals(key, data)
		return c.Next()
	}
}

// Query parses the query string into reqData, validates it and stores it in Locals under key.
func Query(key string, reqData interface{}) fiber.Handler {
	typ := reflect.TypeOf(reqData).Elem()
	return func(c *fiber.Ctx) error {
		data := reflect.New(typ).Interface()
		if err := c.QueryParser(data); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errs := Struct(data); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals(key, data)
		return c.Next()
	}
}

// ParamID parses a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ID validates the route parameter name and stores it in Locals under key.
func ID(name, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := ParamID(c, name)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+strings.ReplaceAll(name, "_", " ")+"!", nil)
		}
		c.Locals(key, id)
		return c.Next()
	}
}
