package controllers

import (
	"net/http"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/app/repositories"
	"github.com/angotech/angotech/app/services"
	"github.com/angotech/angotech/pkg/bind"
	"github.com/angotech/angotech/pkg/response"
	"github.com/angotech/angotech/pkg/router"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index lists the catalogue, optionally filtered by ?category=.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	var (
		products []models.Product
		err      error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		products, err = c.catalog.ByCategory(category)
	} else {
		products, err = c.catalog.All()
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load products")
		return
	}
	response.Success(w, products)
}

// Categories lists the distinct product categories.
func (c *ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.Categories()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load categories")
		return
	}
	response.Success(w, categories)
}

// Show returns one product with its reviews.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.catalog.Find(router.Param(r, "id"))
	if repositories.IsNotFound(err) {
		response.NotFound(w, "Product not found")
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load product")
		return
	}
	response.Success(w, product)
}

type reviewInput struct {
	Author  string `json:"author" validate:"required,max=255"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

// AddReview attaches a review to a product.
func (c *ProductController) AddReview(w http.ResponseWriter, r *http.Request) {
	productID := router.Param(r, "id")
	if _, err := c.catalog.Find(productID); err != nil {
		response.NotFound(w, "Product not found")
		return
	}

	var in reviewInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	review := &models.Review{
		ProductID: productID,
		Author:    in.Author,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := c.catalog.AddReview(review); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not save review")
		return
	}
	response.Created(w, review)
}
