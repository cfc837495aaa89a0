package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"buildnchill-server/internal/client"
	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/events"
	"buildnchill-server/internal/model"
	"buildnchill-server/internal/repository"
)

type StatusService interface {
	Settings(ctx context.Context) (*model.SiteSettings, error)
	UpdateSettings(ctx context.Context, req *dto.SiteSettingsRequest) error
	ServerStatus(ctx context.Context) (*model.ServerStatus, error)
	UpdateServerStatus(ctx context.Context, req *dto.ServerStatusRequest) error
	// Refresh queries the public status API for the configured server IP
	// and persists the result. Failures leave the stored status untouched.
	Refresh(ctx context.Context) error
	// StartPolling refreshes on a fixed interval until ctx is cancelled.
	StartPolling(ctx context.Context, interval time.Duration)
}

type statusServiceImpl struct {
	settingsRepo repository.SettingsRepository
	mcClient     client.MinecraftStatusClient
	bus          *events.Bus
	logger       *zap.Logger
}

func NewStatusService(settingsRepo repository.SettingsRepository, mcClient client.MinecraftStatusClient, bus *events.Bus, logger *zap.Logger) StatusService {
	return &statusServiceImpl{
		settingsRepo: settingsRepo,
		mcClient:     mcClient,
		bus:          bus,
		logger:       logger,
	}
}

func (s *statusServiceImpl) Settings(ctx context.Context) (*model.SiteSettings, error) {
	return s.settingsRepo.GetSettings(ctx)
}

func (s *statusServiceImpl) UpdateSettings(ctx context.Context, req *dto.SiteSettingsRequest) error {
	return s.settingsRepo.UpdateSettings(ctx, map[string]interface{}{
		"site_title":       req.SiteTitle,
		"server_ip":        req.ServerIP,
		"server_version":   req.ServerVersion,
		"contact_email":    req.ContactEmail,
		"contact_phone":    req.ContactPhone,
		"discord_url":      req.DiscordURL,
		"maintenance_mode": req.MaintenanceMode,
	})
}

func (s *statusServiceImpl) ServerStatus(ctx context.Context) (*model.ServerStatus, error) {
	return s.settingsRepo.GetServerStatus(ctx)
}

func (s *statusServiceImpl) UpdateServerStatus(ctx context.Context, req *dto.ServerStatusRequest) error {
	err := s.settingsRepo.UpdateServerStatus(ctx, map[string]interface{}{
		"status":      req.Status,
		"players":     req.Players,
		"max_players": req.MaxPlayers,
		"version":     req.Version,
	})
	if err != nil {
		return err
	}
	s.bus.Publish(events.EntityServerStatus)
	return nil
}

func (s *statusServiceImpl) Refresh(ctx context.Context) error {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return err
	}
	if settings.ServerIP == "" {
		return nil
	}

	status, err := s.mcClient.FetchStatus(ctx, settings.ServerIP)
	if err != nil {
		return err
	}

	label := "Offline"
	if status.Online {
		label = "Online"
	}
	err = s.settingsRepo.UpdateServerStatus(ctx, map[string]interface{}{
		"status":      label,
		"players":     status.Players,
		"max_players": status.MaxPlayers,
		"version":     status.Version,
	})
	if err != nil {
		return err
	}
	s.bus.Publish(events.EntityServerStatus)
	return nil
}

// StartPolling is fire-and-forget per tick: a failed poll is logged and the
// next tick tries again. No retry in between.
func (s *statusServiceImpl) StartPolling(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn("refresh minecraft status", zap.Error(err))
			}
		}
	}
}
