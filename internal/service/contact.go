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

var (
	ErrMissingContactFields = errors.New("ign, email and message are required")
	ErrInvalidStatus        = errors.New("unknown status value")
)

type ContactService interface {
	Submit(ctx context.Context, req *dto.SubmitContactRequest) (*model.Contact, error)
	List(ctx context.Context, limit int) ([]model.Contact, error)
	MarkRead(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type contactServiceImpl struct {
	contactRepo repository.ContactRepository
	bus         *events.Bus
}

func NewContactService(contactRepo repository.ContactRepository, bus *events.Bus) ContactService {
	return &contactServiceImpl{contactRepo: contactRepo, bus: bus}
}

func (s *contactServiceImpl) Submit(ctx context.Context, req *dto.SubmitContactRequest) (*model.Contact, error) {
	ign := strings.TrimSpace(req.IGN)
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)
	if ign == "" || email == "" || message == "" {
		return nil, ErrMissingContactFields
	}

	contact := &model.Contact{
		ID:       uuid.NewString(),
		IGN:      ign,
		Email:    email,
		Phone:    strings.TrimSpace(req.Phone),
		Category: req.Category,
		Message:  message,
		ImageURL: req.ImageURL,
		Status:   model.ContactStatusPending,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	s.bus.Publish(events.EntityContacts)
	return contact, nil
}

func (s *contactServiceImpl) List(ctx context.Context, limit int) ([]model.Contact, error) {
	return s.contactRepo.List(ctx, limit)
}

func (s *contactServiceImpl) MarkRead(ctx context.Context, id string) error {
	if err := s.contactRepo.MarkRead(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.EntityContacts)
	return nil
}

func (s *contactServiceImpl) SetStatus(ctx context.Context, id, status string) error {
	switch status {
	case model.ContactStatusPending, model.ContactStatusProcessing, model.ContactStatusResolved:
	default:
		return ErrInvalidStatus
	}
	if err := s.contactRepo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.bus.Publish(events.EntityContacts)
	return nil
}

func (s *contactServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.contactRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.EntityContacts)
	return nil
}
