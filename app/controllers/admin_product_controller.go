package controllers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/app/repositories"
	"github.com/angotech/angotech/app/services"
	"github.com/angotech/angotech/pkg/bind"
	"github.com/angotech/angotech/pkg/response"
	"github.com/angotech/angotech/pkg/router"
	"github.com/angotech/angotech/pkg/storage"
)

// AdminProductController manages the catalogue. All routes sit behind
// Auth + RequireRole(admin).
type AdminProductController struct {
	catalog *services.CatalogService
}

func NewAdminProductController(catalog *services.CatalogService) *AdminProductController {
	return &AdminProductController{catalog: catalog}
}

type productInput struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required,max=255"`
	Stock       int      `json:"stock" validate:"gte=0"`
	ImageURLs   []string `json:"image_urls"`
}

func (c *AdminProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
		Images:      in.ImageURLs,
	}
	if err := c.catalog.Create(product); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not create product")
		return
	}
	response.Created(w, product)
}

func (c *AdminProductController) Update(w http.ResponseWriter, r *http.Request) {
	product, err := c.catalog.Find(router.Param(r, "id"))
	if repositories.IsNotFound(err) {
		response.NotFound(w, "Product not found")
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load product")
		return
	}

	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Category = in.Category
	product.Stock = in.Stock
	product.Images = in.ImageURLs

	if err := c.catalog.Update(&product); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not update product")
		return
	}
	response.Success(w, product)
}

func (c *AdminProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "id")
	if _, err := c.catalog.Find(id); repositories.IsNotFound(err) {
		response.NotFound(w, "Product not found")
		return
	}
	if err := c.catalog.Delete(id); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not delete product")
		return
	}
	response.Success(w, map[string]string{"message": "Product deleted"})
}

// Image upload limits. Images land on the configured storage disk
// under products/ and the public URL comes back to the client.
const maxImageBytes = 10 << 20

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// UploadImage accepts a multipart `image` file and stores it on the
// active disk. The returned URL can be set on a product's image list.
func (c *AdminProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		response.Error(w, http.StatusRequestEntityTooLarge, "Image exceeds 10 MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		response.Error(w, http.StatusUnsupportedMediaType, "Unsupported image type")
		return
	}

	path := fmt.Sprintf("products/%s%s", uuid.NewString(), ext)
	if err := storage.PutStream(path, io.LimitReader(file, maxImageBytes)); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not store image")
		return
	}

	response.Created(w, map[string]string{
		"path": path,
		"url":  storage.URL(path),
	})
}
