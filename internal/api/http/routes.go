package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-archive-storage/internal/weather"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so error messages match
// the request body.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": "Everything looks healthy!"})
	})

	app.Post("/store-weather-data", func(c *fiber.Ctx) error {
		var req storeRequest
		if err := req.bind(c.Body()); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
		}

		created, err := service.Ingest(c.UserContext(), req.toQuery())
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"msg":           "Fetched and stored weather data successfully",
			"created_files": created,
		})
	})

	app.Get("/list-weather-files", func(c *fiber.Ctx) error {
		files, err := service.ListFiles(c.UserContext())
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"msg":       "Listed files successfully",
			"file_list": files,
		})
	})

	app.Get("/weather-file-content/:filename", func(c *fiber.Ctx) error {
		filename := c.Params("filename")

		content, err := service.ReadFile(c.UserContext(), filename)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"msg":      "Content fetched successfully",
			"content":  content,
			"filename": filename,
		})
	})
}

// ErrorHandler renders every failure as {"error": message} with a status
// derived from the error type.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		fiberErr *fiber.Error
		upstream *weather.UpstreamError
		schema   *weather.SchemaError
		notFound *weather.NotFoundError
	)

	code := fiber.StatusInternalServerError
	msg := "Unexpected error: " + err.Error()

	switch {
	case errors.As(err, &fiberErr):
		code, msg = fiberErr.Code, fiberErr.Message
	case errors.As(err, &upstream):
		code, msg = upstream.Status(), "Weather API error: "+upstream.Error()
	case errors.As(err, &schema):
		msg = schema.Error()
	case errors.As(err, &notFound):
		code, msg = fiber.StatusNotFound, notFound.Error()
	default:
		log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{"error": msg})
}

// storeRequest is the ingestion body. Fields accept any JSON scalar; only
// presence is checked.
type storeRequest struct {
	Latitude  any `json:"latitude" validate:"required"`
	Longitude any `json:"longitude" validate:"required"`
	StartDate any `json:"start_date" validate:"required"`
	EndDate   any `json:"end_date" validate:"required"`
}

// bind decodes body keeping numbers as written, so a latitude of 0 counts as
// present and is forwarded unchanged.
func (r *storeRequest) bind(body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(r)
}

func (r storeRequest) toQuery() weather.Query {
	return weather.Query{
		Latitude:  paramString(r.Latitude),
		Longitude: paramString(r.Longitude),
		StartDate: paramString(r.StartDate),
		EndDate:   paramString(r.EndDate),
	}
}

func paramString(v any) string {
	switch val := v.(type) {
	case json.Number:
		return val.String()
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// validationMessage names the first failing field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field() + " is required"
	}
	return err.Error()
}
