package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/farmermarket/backend/app/services"
	"github.com/farmermarket/backend/pkg/bind"
	"github.com/farmermarket/backend/pkg/response"
)

const productNotFound = "Product not found"

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// Create handles multipart POST /api/products.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	in, img, ok := c.readForm(w, r)
	if !ok {
		return
	}

	p, err := c.products.Create(r.Context(), in, img)
	if err != nil {
		fail(w, r, err, productNotFound)
		return
	}
	response.Created(w, services.NewProductView(p))
}

// Update handles multipart PUT /api/products/{id}. Omitting the image keeps
// the stored one.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	in, img, ok := c.readForm(w, r)
	if !ok {
		return
	}

	p, err := c.products.Update(r.Context(), id, in, img)
	if err != nil {
		fail(w, r, err, productNotFound)
		return
	}
	response.Success(w, services.NewProductView(p))
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.List(r.Context())
	if err != nil {
		fail(w, r, err, productNotFound)
		return
	}

	views := make([]services.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, services.NewProductView(p))
	}
	response.Success(w, views)
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := c.products.Find(r.Context(), id)
	if err != nil {
		fail(w, r, err, productNotFound)
		return
	}
	response.Success(w, services.NewProductView(p))
}

// Image handles GET /api/products/{id}/image and writes the raw bytes.
func (c *ProductController) Image(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	img, err := c.products.Image(r.Context(), id)
	if err != nil {
		msg := productNotFound
		if errors.Is(err, services.ErrNoImage) {
			msg = "Product has no image"
		}
		fail(w, r, err, msg)
		return
	}
	response.Binary(w, img.ContentType, img.Data)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := c.products.Delete(r.Context(), id); err != nil {
		fail(w, r, err, productNotFound)
		return
	}
	response.NoContent(w)
}

// readForm parses the product fields and the optional "image" part.
func (c *ProductController) readForm(w http.ResponseWriter, r *http.Request) (services.ProductInput, *services.Image, bool) {
	var in services.ProductInput
	if err := bind.Multipart(w, r); err != nil {
		response.BadRequest(w, err.Error())
		return in, nil, false
	}

	in.Name = bind.Form(r, "name")
	in.Category = bind.Form(r, "category")
	in.Description = bind.Form(r, "description")
	if raw := bind.Form(r, "price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			response.ValidationError(w, map[string]string{"price": "The price must be a number."})
			return in, nil, false
		}
		in.Price = price
	}

	file, err := bind.File(r, "image")
	switch {
	case errors.Is(err, bind.ErrNoFile):
		return in, nil, true
	case err != nil:
		response.BadRequest(w, err.Error())
		return in, nil, false
	}
	return in, &services.Image{Data: file.Data, ContentType: file.EffectiveType()}, true
}

func productID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(param(r, "id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(w, productNotFound)
		return 0, false
	}
	return uint(id), true
}
