package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/cache"
	"github.com/farmermarket/backend/pkg/logger"
	"github.com/farmermarket/backend/pkg/validate"
)

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	Find(ctx context.Context, id uint) (models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
	Delete(ctx context.Context, id uint) error
}

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name        string          `json:"name"        validate:"required,notblank,max=255"`
	Category    string          `json:"category"    validate:"required"`
	Price       decimal.Decimal `json:"price"       validate:"gt=0"`
	Description string          `json:"description"`
}

// Image is an uploaded product picture.
type Image struct {
	Data        []byte
	ContentType string
}

// ProductView is the public shape of a product. ImageURL is nil when no
// image is stored.
type ProductView struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Category    models.Category `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    *string         `json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewProductView(p models.Product) ProductView {
	v := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.HasImage() {
		u := fmt.Sprintf("/api/products/%d/image", p.ID)
		v.ImageURL = &u
	}
	return v
}

// cachedProduct keeps the image fields that models.Product hides from JSON.
type cachedProduct struct {
	Product          models.Product `json:"product"`
	Image            []byte         `json:"image,omitempty"`
	ImageContentType string         `json:"imageContentType,omitempty"`
}

type ProductService struct {
	products ProductStore
	cache    cache.Store
	ttl      time.Duration
}

// NewProductService reads products through store c. Pass cache.Noop{} to
// disable caching.
func NewProductService(products ProductStore, c cache.Store, ttl time.Duration) *ProductService {
	if c == nil {
		c = cache.Noop{}
	}
	return &ProductService{products: products, cache: c, ttl: ttl}
}

func productKey(id uint) string { return fmt.Sprintf("product:%d", id) }

func (s *ProductService) Create(ctx context.Context, in ProductInput, img *Image) (models.Product, error) {
	category, err := checkProduct(in)
	if err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Category:    category,
		Price:       in.Price,
		Description: in.Description,
	}
	if img != nil {
		p.SetImage(img.Data, img.ContentType)
	}

	if err := s.products.Create(ctx, &p); err != nil {
		return p, fmt.Errorf("services: create product: %w", translate(err))
	}
	return p, nil
}

// Update overwrites the editable fields. A nil img keeps the stored image.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput, img *Image) (models.Product, error) {
	category, err := checkProduct(in)
	if err != nil {
		return models.Product{}, err
	}

	p, err := s.products.Find(ctx, id)
	if err != nil {
		return p, fmt.Errorf("services: update product %d: %w", id, translate(err))
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Category = category
	p.Price = in.Price
	p.Description = in.Description
	if img != nil {
		p.SetImage(img.Data, img.ContentType)
	}

	if err := s.products.Save(ctx, &p); err != nil {
		return p, fmt.Errorf("services: update product %d: %w", id, translate(err))
	}
	s.forget(ctx, id)
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("services: list products: %w", err)
	}
	return products, nil
}

// Find is read-through cached.
func (s *ProductService) Find(ctx context.Context, id uint) (models.Product, error) {
	var entry cachedProduct
	hit, err := s.cache.Get(ctx, productKey(id), &entry)
	if err != nil {
		logger.WithCtx(ctx).Warn("product cache read failed", "id", id, "error", err)
	}
	if hit {
		p := entry.Product
		p.SetImage(entry.Image, entry.ImageContentType)
		return p, nil
	}

	p, err := s.products.Find(ctx, id)
	if err != nil {
		return p, fmt.Errorf("services: product %d: %w", id, translate(err))
	}

	entry = cachedProduct{Product: p, Image: p.Image, ImageContentType: p.ImageContentType}
	if err := s.cache.Set(ctx, productKey(id), entry, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("product cache write failed", "id", id, "error", err)
	}
	return p, nil
}

// Image returns the stored picture of product id.
func (s *ProductService) Image(ctx context.Context, id uint) (Image, error) {
	p, err := s.Find(ctx, id)
	if err != nil {
		return Image{}, err
	}
	if !p.HasImage() {
		return Image{}, fmt.Errorf("services: product %d: %w", id, ErrNoImage)
	}

	ct := p.ImageContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return Image{Data: p.Image, ContentType: ct}, nil
}

// Delete removes the product. Deleting a missing id succeeds.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("services: delete product %d: %w", id, err)
	}
	s.forget(ctx, id)
	return nil
}

func (s *ProductService) forget(ctx context.Context, id uint) {
	if err := s.cache.Del(ctx, productKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("product cache invalidation failed", "id", id, "error", err)
	}
}

func checkProduct(in ProductInput) (models.Category, error) {
	errs := validate.Struct(in)
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		if _, set := errs["category"]; !set {
			errs["category"] = "The selected category is invalid."
		}
	}
	if validate.HasErrors(errs) {
		return "", &ValidationError{Fields: errs}
	}
	return category, nil
}
