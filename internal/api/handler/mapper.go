package handler

import (
	"github.com/storefront/accounts-api/internal/core/domain"
	"github.com/storefront/accounts-api/internal/core/ports"
)

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Roles:     domain.RoleNames(a.Roles),
		CreatedAt: a.CreatedAt,
	}
}

func toLoginResponse(r *ports.LoginResult) loginResponse {
	return loginResponse{
		Token:     r.Token,
		Type:      r.TokenType,
		ExpiresAt: r.ExpiresAt,
		ID:        r.Account.ID,
		Username:  r.Account.Username,
		Email:     r.Account.Email,
		Roles:     domain.RoleNames(r.Account.Roles),
	}
}

func toProductInput(req productRequest) ports.ProductInput {
	return ports.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    req.Category,
	}
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
