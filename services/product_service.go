package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shop-api/models"
	"shop-api/repositories"

	"go.uber.org/zap"
)

type ProductService struct {
	products repositories.ProductStore
	cache    repositories.ProductCache
}

// NewProductService wires the catalog. cache may be nil.
func NewProductService(products repositories.ProductStore, cache repositories.ProductCache) *ProductService {
	return &ProductService{products: products, cache: cache}
}

func (s *ProductService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.products.ListCategories(ctx)
	if err != nil {
		return nil, internalFault("list categories", err)
	}
	return categories, nil
}

func (s *ProductService) CreateCategory(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("name", "Category name is required")
	}

	category := &models.Category{
		Name:        name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := s.products.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, validationError("name", "Category already exists")
		}
		return nil, internalFault("create category", err)
	}
	return category, nil
}

func (s *ProductService) GetAllProducts(ctx context.Context, categoryID int, page Page) (*models.PaginationResponse, error) {
	return s.listProducts(ctx, repositories.ProductFilter{CategoryID: categoryID}, page, "Products retrieved successfully")
}

// GetTrendingProducts lists the newest active products first.
func (s *ProductService) GetTrendingProducts(ctx context.Context, page Page) (*models.PaginationResponse, error) {
	return s.listProducts(ctx, repositories.ProductFilter{NewestFirst: true}, page, "Trending products retrieved successfully")
}

func (s *ProductService) listProducts(ctx context.Context, filter repositories.ProductFilter, page Page, message string) (*models.PaginationResponse, error) {
	filter.Limit = page.Limit
	filter.Offset = page.Offset()

	products, total, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return nil, internalFault("list products", err)
	}

	return &models.PaginationResponse{
		Success: true,
		Message: message,
		Data:    products,
		Meta:    page.Meta(total),
	}, nil
}

// GetProductByID returns an active product, reading through the cache when
// one is configured.
func (s *ProductService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	if s.cache != nil {
		if p, ok := s.cache.GetProduct(ctx, id); ok && p.IsActive {
			return p, nil
		}
	}

	product, err := s.activeProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetProduct(ctx, product)
	}
	return product, nil
}

func (s *ProductService) activeProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, internalFault("get product", err)
	}
	if !product.IsActive {
		return nil, notFound("Product not found")
	}
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}

	if err := s.validateProduct(ctx, product); err != nil {
		return nil, err
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, internalFault("create product", err)
	}

	zap.L().Info("product created", zap.Int("product_id", product.ID))
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.activeProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}

	if err := s.validateProduct(ctx, product); err != nil {
		return nil, err
	}
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, internalFault("update product", err)
	}

	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, id)
	}
	return product, nil
}

// DeleteProduct deactivates the product. Existing order items keep
// referencing it.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.products.DeactivateProduct(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Product not found")
		}
		return internalFault("delete product", err)
	}

	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, id)
	}
	return nil
}

func (s *ProductService) validateProduct(ctx context.Context, p *models.Product) error {
	if p.Name == "" {
		return validationError("name", "Product name is required")
	}
	if p.Price.IsNegative() {
		return validationError("price", "Price must not be negative")
	}
	if p.Price.GreaterThan(maxAmount) {
		return validationError("price", fmt.Sprintf("Price must not exceed %s", maxAmount.StringFixed(2)))
	}
	if p.Stock < 0 {
		return validationError("stock", "Stock must not be negative")
	}
	if p.Stock > maxQuantity {
		return validationError("stock", fmt.Sprintf("Stock must not exceed %d", maxQuantity))
	}

	exists, err := s.products.CategoryExists(ctx, p.CategoryID)
	if err != nil {
		return internalFault("check category", err)
	}
	if !exists {
		return validationError("category", "Category not found")
	}
	return nil
}
