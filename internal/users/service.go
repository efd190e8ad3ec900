// Package users holds the account domain: the record model, its
// persistence contract, and the service orchestrating signup, login,
// profile reads, and profile-image replacement.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/auth"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/common"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// ObjectStore is the slice of the object-store gateway the service needs:
// presigning direct-upload URLs and deriving the public retrieval URL for
// an object key. Image bytes never pass through this service.
type ObjectStore interface {
	PresignPut(ctx context.Context, key string, contentType string) (string, error)
	ObjectURL(key string) string
}

type Service struct {
	repo                        Repository
	store                       ObjectStore
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(repo Repository, store ObjectStore, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		store:                       store,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// SignUp creates (or, for a repeated email, overwrites) the account record
// and returns a presigned URL the client PUTs the profile image to. The
// record's image URL is derived from the object key up front; the record
// and the eventual upload are not atomic.
func (s *Service) SignUp(ctx context.Context, email, password, profileName, fileName, contentType string) (string, error) {

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", common.ErrorInternal
	}

	uploadURL, err := s.store.PresignPut(ctx, fileName, contentType)
	if err != nil {
		return "", fmt.Errorf("error presigning upload: %w", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: string(hash),
		ProfileName:  profileName,
		ImageURL:     s.store.ObjectURL(fileName),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return "", fmt.Errorf("error creating user: %w", err)
	}

	return uploadURL, nil
}

// Login verifies the credentials and issues a bearer token carrying the
// email. An unknown email surfaces as common.ErrorNotFound and a wrong
// password as common.ErrorUnauthorized so the handler can keep the two
// 401 bodies distinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// Profile returns the record for the authenticated email.
func (s *Service) Profile(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// NewUploadURL presigns a fresh upload URL for a replacement image and
// points the record's image URL at the new object. The two steps are
// independent single-shot calls: a failed upload after a successful update
// is not detected here.
func (s *Service) NewUploadURL(ctx context.Context, email, fileName, contentType string) (string, error) {

	uploadURL, err := s.store.PresignPut(ctx, fileName, contentType)
	if err != nil {
		return "", fmt.Errorf("error presigning upload: %w", err)
	}

	if err := s.repo.UpdateImageURL(ctx, email, s.store.ObjectURL(fileName)); err != nil {
		return "", fmt.Errorf("error updating image url: %w", err)
	}

	return uploadURL, nil
}
