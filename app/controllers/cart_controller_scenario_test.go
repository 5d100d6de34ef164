package controllers_test

import (
	"errors"
	"testing"

	"github.com/angotech/angotech/app/controllers"
	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/app/services"
	"github.com/angotech/angotech/pkg/notify"
	"github.com/angotech/angotech/pkg/router"
	"github.com/angotech/angotech/pkg/testkit"
)

const scenarioSpeakerID = "22222222-2222-2222-2222-222222222222"

type stubCartRows struct{}

func (stubCartRows) Upsert(uint, string, int) error              { return nil }
func (stubCartRows) Delete(uint, string) error                   { return nil }
func (stubCartRows) DeleteAll(uint) error                        { return nil }
func (stubCartRows) ListForUser(uint) ([]models.UserCart, error) { return nil, nil }

type stubCatalog struct {
	products []models.Product
}

func (s stubCatalog) All() ([]models.Product, error) { return s.products, nil }

func (s stubCatalog) Find(id string) (models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, errors.New("not found")
}

// cartHandler mounts the cart endpoints on a fresh router, the same
// layout the API route table uses.
func cartHandler() *router.Router {
	toasts := notify.NewHub()
	cart := services.NewCartService(
		stubCartRows{},
		stubCatalog{products: []models.Product{
			{ID: scenarioSpeakerID, Name: "Coluna Bluetooth Portátil", Price: 30000, Category: "Audio", Stock: 10},
		}},
		services.NewMemorySnapshots(),
		toasts,
	)
	ctl := controllers.NewCartController(cart, toasts)

	r := router.New()
	r.Get("/api/cart", "cart.show", ctl.Show)
	r.Post("/api/cart/items", "cart.add", ctl.Add)
	return r
}

// TestCartEndpointScenarios drives the cart endpoints from JSON
// scenario files. Each request arrives without a cookie, so every
// scenario starts from a fresh guest cart.
func TestCartEndpointScenarios(t *testing.T) {
	h := cartHandler().Handler()

	testkit.Run(t, h, "testdata/cart_empty.json")
	testkit.Run(t, h, "testdata/cart_add_missing_product.json")
	testkit.Run(t, h, "testdata/cart_add_unknown_product.json")
	testkit.Run(t, h, "testdata/cart_add_success.json")
}
