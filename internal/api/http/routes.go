package httpapi

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/drive-sensor-logger/internal/csvlog"
	"github.com/i474232898/drive-sensor-logger/internal/ingest"
	"github.com/i474232898/drive-sensor-logger/internal/share"
	"github.com/i474232898/drive-sensor-logger/internal/store"
	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

var validate = validator.New()

// Dependencies are the components the HTTP surface exposes.
type Dependencies struct {
	Monitor    *telemetry.Monitor
	Store      *store.MemoryStore
	Sharer     *share.Sharer
	Permission ingest.Permission
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	v1 := app.Group("/api/v1")

	v1.Get("/display", func(c *fiber.Ctx) error {
		d, err := deps.Monitor.Display(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "monitor is not running")
		}
		return c.JSON(d)
	})

	v1.Post("/sensors/:kind", func(c *fiber.Ctx) error {
		kind, err := telemetry.ParseSensorKind(c.Params("kind"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var body vectorBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid sensor payload")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Kinds absent on this device are accepted and dropped by the monitor.
		if err := deps.Monitor.UpdateSensor(c.UserContext(), kind, body.toVector()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "monitor is not running")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/location", func(c *fiber.Ctx) error {
		var body locationBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid location payload")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		// Range checks: lat within [-90,90], lon within [-180,180].
		if !ingest.ValidPosition(*body.Lat, *body.Lon) {
			return fiber.NewError(fiber.StatusBadRequest, "coordinates out of range")
		}

		// Without permission location updates never start; the fix is dropped.
		if !deps.Permission.Granted() {
			return c.SendStatus(fiber.StatusNoContent)
		}

		if err := deps.Monitor.UpdateLocation(c.UserContext(), body.toSample()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "monitor is not running")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/log", func(c *fiber.Ctx) error {
		shared, err := deps.Sharer.ShareWith(c.UserContext(), share.OpenerFunc(func(_ context.Context, path, mimeType string) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			c.Attachment(csvlog.FileName)
			c.Set(fiber.HeaderContentType, mimeType)
			return c.Send(data)
		}))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read sensor log")
		}
		if !shared {
			return fiber.NewError(fiber.StatusNotFound, "no sensor log recorded yet")
		}
		return nil
	})

	v1.Get("/readings", func(c *fiber.Ctx) error {
		var req readingsQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rows, err := deps.Store.Range(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no readings for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch readings")
		}

		return c.JSON(fiber.Map{
			"from":     req.From,
			"to":       req.To,
			"readings": rows,
		})
	})
}

// vectorBody is a pushed 3-axis sample.
type vectorBody struct {
	X *float32 `json:"x" validate:"required"`
	Y *float32 `json:"y" validate:"required"`
	Z *float32 `json:"z" validate:"required"`
}

func (b vectorBody) toVector() telemetry.Vector {
	return telemetry.Vector{X: *b.X, Y: *b.Y, Z: *b.Z}
}

// locationBody is a pushed location fix; speed is in m/s and optional.
type locationBody struct {
	Lat   *float64 `json:"lat" validate:"required"`
	Lon   *float64 `json:"lon" validate:"required"`
	Speed *float32 `json:"speed" validate:"omitempty,gte=0"`
}

func (b locationBody) toSample() telemetry.LocationSample {
	s := telemetry.LocationSample{Latitude: *b.Lat, Longitude: *b.Lon}
	if b.Speed != nil {
		s.Speed = *b.Speed
	}
	return s
}

// readingsQuery holds query parameters for the readings endpoint.
type readingsQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (q *readingsQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	q.From = from
	q.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
