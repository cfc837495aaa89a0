package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/events"
	"buildnchill-server/internal/helpers"
	"buildnchill-server/internal/model"
	"buildnchill-server/internal/repository"
)

var ErrMissingTitle = errors.New("title is required")

type ContentService interface {
	ListNews(ctx context.Context) ([]model.News, error)
	GetNewsBySlug(ctx context.Context, slug string) (*model.News, error)
	AddNews(ctx context.Context, req *dto.NewsRequest) (*model.News, error)
	UpdateNews(ctx context.Context, id uint, req *dto.NewsRequest) error
	DeleteNews(ctx context.Context, id uint) error

	ListCarousel(ctx context.Context) ([]model.CarouselImage, error)
	AddCarouselImage(ctx context.Context, req *dto.CarouselImageRequest) (*model.CarouselImage, error)
	UpdateCarouselImage(ctx context.Context, id uint, req *dto.CarouselImageRequest) error
	DeleteCarouselImage(ctx context.Context, id uint) error
}

type contentServiceImpl struct {
	newsRepo     repository.NewsRepository
	carouselRepo repository.CarouselRepository
	bus          *events.Bus
}

func NewContentService(newsRepo repository.NewsRepository, carouselRepo repository.CarouselRepository, bus *events.Bus) ContentService {
	return &contentServiceImpl{
		newsRepo:     newsRepo,
		carouselRepo: carouselRepo,
		bus:          bus,
	}
}

func (s *contentServiceImpl) ListNews(ctx context.Context) ([]model.News, error) {
	return s.newsRepo.List(ctx)
}

func (s *contentServiceImpl) GetNewsBySlug(ctx context.Context, slug string) (*model.News, error) {
	return s.newsRepo.FindBySlug(ctx, slug)
}

func (s *contentServiceImpl) AddNews(ctx context.Context, req *dto.NewsRequest) (*model.News, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}
	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	news := &model.News{
		Title:       title,
		Slug:        helpers.Slugify(title),
		Description: req.Description,
		Content:     req.Content,
		Image:       req.Image,
		Date:        date,
	}
	if err := s.newsRepo.Create(ctx, news); err != nil {
		return nil, err
	}
	s.bus.Publish(events.EntityNews)
	return news, nil
}

func (s *contentServiceImpl) UpdateNews(ctx context.Context, id uint, req *dto.NewsRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return ErrMissingTitle
	}
	err := s.newsRepo.Update(ctx, id, map[string]interface{}{
		"title":       title,
		"slug":        helpers.Slugify(title),
		"description": req.Description,
		"content":     req.Content,
		"image":       req.Image,
		"date":        req.Date,
	})
	if err != nil {
		return err
	}
	s.bus.Publish(events.EntityNews)
	return nil
}

func (s *contentServiceImpl) DeleteNews(ctx context.Context, id uint) error {
	if err := s.newsRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.EntityNews)
	return nil
}

func (s *contentServiceImpl) ListCarousel(ctx context.Context) ([]model.CarouselImage, error) {
	return s.carouselRepo.List(ctx)
}

func (s *contentServiceImpl) AddCarouselImage(ctx context.Context, req *dto.CarouselImageRequest) (*model.CarouselImage, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, errors.New("image url is required")
	}
	image := &model.CarouselImage{
		URL:          req.URL,
		Caption:      req.Caption,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.carouselRepo.Create(ctx, image); err != nil {
		return nil, err
	}
	s.bus.Publish(events.EntityCarousel)
	return image, nil
}

func (s *contentServiceImpl) UpdateCarouselImage(ctx context.Context, id uint, req *dto.CarouselImageRequest) error {
	err := s.carouselRepo.Update(ctx, id, map[string]interface{}{
		"url":           req.URL,
		"caption":       req.Caption,
		"display_order": req.DisplayOrder,
	})
	if err != nil {
		return err
	}
	s.bus.Publish(events.EntityCarousel)
	return nil
}

func (s *contentServiceImpl) DeleteCarouselImage(ctx context.Context, id uint) error {
	if err := s.carouselRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.EntityCarousel)
	return nil
}
