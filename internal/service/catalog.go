package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/events"
	"buildnchill-server/internal/model"
	"buildnchill-server/internal/repository"
)

var ErrMissingName = errors.New("name is required")

// CatalogService covers the shop's categories and products.
type CatalogService interface {
	ListCategories(ctx context.Context, includeInactive bool) ([]model.Category, error)
	CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, req *dto.CategoryRequest) error
	DeleteCategory(ctx context.Context, id string) error

	ListProducts(ctx context.Context, includeInactive bool) ([]model.Product, error)
	CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, req *dto.ProductRequest) error
	DeleteProduct(ctx context.Context, id string) error
}

type catalogServiceImpl struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	bus          *events.Bus
}

func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository, bus *events.Bus) CatalogService {
	return &catalogServiceImpl{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		bus:          bus,
	}
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	if includeInactive {
		return s.categoryRepo.ListAll(ctx)
	}
	return s.categoryRepo.ListActive(ctx)
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*model.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrMissingName
	}
	category := &model.Category{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Icon:         req.Icon,
		Active:       req.Active,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.bus.Publish(events.EntityCategories)
	return category, nil
}

func (s *catalogServiceImpl) UpdateCategory(ctx context.Context, id string, req *dto.CategoryRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrMissingName
	}
	err := s.categoryRepo.Update(ctx, id, map[string]interface{}{
		"name":          strings.TrimSpace(req.Name),
		"icon":          req.Icon,
		"active":        req.Active,
		"display_order": req.DisplayOrder,
	})
	if err != nil {
		return err
	}
	s.bus.Publish(events.EntityCategories)
	return nil
}

func (s *catalogServiceImpl) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categoryRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.EntityCategories)
	return nil
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, includeInactive bool) ([]model.Product, error) {
	if includeInactive {
		return s.productRepo.ListAll(ctx)
	}
	return s.productRepo.ListActive(ctx)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrMissingName
	}
	if req.Price < 0 {
		return nil, ErrInvalidAmount
	}
	product := &model.Product{
		ID:           uuid.NewString(),
		CategoryID:   req.CategoryID,
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		DisplayPrice: req.DisplayPrice,
		Description:  req.Description,
		Command:      req.Command,
		Active:       req.Active,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.bus.Publish(events.EntityProducts)
	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id string, req *dto.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrMissingName
	}
	if req.Price < 0 {
		return ErrInvalidAmount
	}
	err := s.productRepo.Update(ctx, id, map[string]interface{}{
		"category_id":   req.CategoryID,
		"name":          strings.TrimSpace(req.Name),
		"price":         req.Price,
		"display_price": req.DisplayPrice,
		"description":   req.Description,
		"command":       req.Command,
		"active":        req.Active,
		"display_order": req.DisplayOrder,
	})
	if err != nil {
		return err
	}
	s.bus.Publish(events.EntityProducts)
	return nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.EntityProducts)
	return nil
}
