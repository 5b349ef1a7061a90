package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/accounts-api/internal/core/domain"
	"github.com/storefront/accounts-api/internal/core/ports"
	"github.com/storefront/accounts-api/internal/core/security"
)

// ProductService is a thin layer over the catalog repository that gates
// writes on the ADMIN role.
type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

func (s *ProductService) List(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.repo.List(ctx, strings.TrimSpace(category))
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, principal domain.Principal, in ports.ProductInput) (*domain.Product, error) {
	if !security.Authorize(principal.Roles, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := toProduct(in)
	p.CreatedAt = now
	p.UpdatedAt = now

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Str("by", principal.Identity).Msg("product created")
	return created, nil
}

// Update replaces the writable fields of product id.
func (s *ProductService) Update(ctx context.Context, principal domain.Principal, id string, in ports.ProductInput) (*domain.Product, error) {
	if !security.Authorize(principal.Roles, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := toProduct(in)
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", id).Str("by", principal.Identity).Msg("product updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, principal domain.Principal, id string) error {
	if !security.Authorize(principal.Roles, domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("product_id", id).Str("by", principal.Identity).Msg("product deleted")
	return nil
}

func validateProduct(in ports.ProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case in.Price < 0:
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	case in.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func toProduct(in ports.ProductInput) *domain.Product {
	return &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Category:    strings.TrimSpace(in.Category),
	}
}
