package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kitewatch/kitespot-aggregation/internal/registry"
	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

var validate = validator.New()

// Engine is the read-side surface of the aggregation engine the HTTP layer
// consumes.
type Engine interface {
	Spots() []spot.Enriched
	SpotByIDForModel(id int, model spot.ForecastModel) (spot.Enriched, error)
	CountSpots() int
	CountCountries() int
	CountLiveStations() int
	KickForecastRefresh(id int)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, engine Engine) {
	v1 := app.Group("/api/v1")

	v1.Get("/spots", func(c *fiber.Ctx) error {
		return c.JSON(engine.Spots())
	})

	v1.Get("/spots/:id", func(c *fiber.Ctx) error {
		req, err := parseSpotParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		model := spot.ParseForecastModel(c.Query("model"))

		sp, err := engine.SpotByIDForModel(req.ID, model)
		if err != nil {
			if errors.Is(err, registry.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "unknown spot id")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read spot")
		}

		// Opportunistic out-of-cycle refresh; the response above is already
		// computed from the current caches.
		engine.KickForecastRefresh(req.ID)

		return c.JSON(sp)
	})

	v1.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"spots":        engine.CountSpots(),
			"countries":    engine.CountCountries(),
			"liveStations": engine.CountLiveStations(),
		})
	})
}

// spotParams holds path parameters for single-spot endpoints.
type spotParams struct {
	ID int `validate:"required,min=1"`
}

func parseSpotParams(c *fiber.Ctx) (spotParams, error) {
	var p spotParams

	id, err := c.ParamsInt("id")
	if err != nil {
		return p, errors.New("spot id must be an integer")
	}
	p.ID = id

	if err := validate.Struct(p); err != nil {
		return p, err
	}
	return p, nil
}
