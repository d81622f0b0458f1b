package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"clubhub-backend/internal/authz"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
	"clubhub-backend/internal/storage"

	"github.com/google/uuid"
)

var logoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type logoService struct {
	store       repository.Store
	notes       NotificationService
	storage     storage.StorageInterface
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

func NewLogoService(store repository.Store, notes NotificationService, st storage.StorageInterface, uploadTTL, downloadTTL time.Duration) LogoService {
	return &logoService{
		store:       store,
		notes:       notes,
		storage:     st,
		uploadTTL:   uploadTTL,
		downloadTTL: downloadTTL,
	}
}

func (s *logoService) RequestLogoUpload(ctx context.Context, actorID, clubID, contentType string) (*LogoUpload, error) {
	logger.EnterMethod("logoService.RequestLogoUpload", "actorID", actorID, "clubID", clubID, "contentType", contentType)

	in := struct {
		ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/gif"`
	}{ContentType: strings.ToLower(strings.TrimSpace(contentType))}
	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("logoService.RequestLogoUpload", err)
		return nil, err
	}

	if _, err := s.authorizedClub(ctx, s.store, actorID, clubID); err != nil {
		logger.ExitMethodWithError("logoService.RequestLogoUpload", err)
		return nil, err
	}

	key := path.Join("clubs", clubID, uuid.NewString()+logoExtensions[in.ContentType])
	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, key, in.ContentType, s.uploadTTL)
	if err != nil {
		logger.ExitMethodWithError("logoService.RequestLogoUpload", err)
		return nil, fmt.Errorf("failed to generate upload url: %w", err)
	}

	logger.ExitMethod("logoService.RequestLogoUpload", "key", key)
	return &LogoUpload{
		UploadURL: uploadURL,
		Key:       key,
		ExpiresAt: now().Add(s.uploadTTL),
	}, nil
}

func (s *logoService) ConfirmLogoUpload(ctx context.Context, actorID, clubID, key string) (*domain.Club, error) {
	logger.EnterMethod("logoService.ConfirmLogoUpload", "actorID", actorID, "clubID", clubID, "key", key)

	if !strings.HasPrefix(key, path.Join("clubs", clubID)+"/") {
		err := domain.NewValidationError("key", "does not belong to this club")
		logger.ExitMethodWithError("logoService.ConfirmLogoUpload", err)
		return nil, err
	}
	exists, _, err := s.storage.FileExists(ctx, key)
	if err == nil && !exists {
		err = fmt.Errorf("logo %q %w", key, domain.ErrNotFound)
	} else if err != nil {
		err = fmt.Errorf("failed to check uploaded logo: %w", err)
	}
	if err != nil {
		logger.ExitMethodWithError("logoService.ConfirmLogoUpload", err)
		return nil, err
	}
	downloadURL, err := s.storage.GeneratePresignedDownloadURL(ctx, key, s.downloadTTL)
	if err != nil {
		logger.ExitMethodWithError("logoService.ConfirmLogoUpload", err)
		return nil, fmt.Errorf("failed to generate download url: %w", err)
	}

	var club *domain.Club
	err = runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		c, err := s.authorizedClub(ctx, tx, actorID, clubID)
		if err != nil {
			return err
		}
		club = c
		club.Logo = downloadURL
		club.UpdatedAt = now()
		if err := tx.Clubs().Update(ctx, club); err != nil {
			return fmt.Errorf("failed to update club logo: %w", err)
		}
		_, err = out.notify(ctx, club.LeaderID, fmt.Sprintf("The logo of %s has been updated", club.Name))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("logoService.ConfirmLogoUpload", err, "clubID", clubID)
		return nil, err
	}

	logger.ExitMethod("logoService.ConfirmLogoUpload", "clubID", clubID)
	return club, nil
}

// RemoveLogo clears the club's logo. Removing an absent logo is a no-op.
func (s *logoService) RemoveLogo(ctx context.Context, actorID, clubID string) (*domain.Club, error) {
	logger.EnterMethod("logoService.RemoveLogo", "actorID", actorID, "clubID", clubID)

	var club *domain.Club
	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		c, err := s.authorizedClub(ctx, tx, actorID, clubID)
		if err != nil {
			return err
		}
		club = c
		if club.Logo == "" {
			return nil
		}
		club.Logo = ""
		club.UpdatedAt = now()
		if err := tx.Clubs().Update(ctx, club); err != nil {
			return fmt.Errorf("failed to clear club logo: %w", err)
		}
		_, err = out.notify(ctx, club.LeaderID, fmt.Sprintf("The logo of %s has been removed", club.Name))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("logoService.RemoveLogo", err, "clubID", clubID)
		return nil, err
	}

	logger.ExitMethod("logoService.RemoveLogo", "clubID", clubID)
	return club, nil
}

func (s *logoService) authorizedClub(ctx context.Context, store repository.Store, actorID, clubID string) (*domain.Club, error) {
	actor, err := loadActor(ctx, store.Users(), actorID)
	if err != nil {
		return nil, err
	}
	club, err := store.Clubs().GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ManageLogo, authz.Resource{Club: club}); err != nil {
		return nil, err
	}
	return club, nil
}
