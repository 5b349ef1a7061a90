package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/accounts-api/internal/core/domain"
)

// ProductStore implements ports.ProductRepository in memory.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]*domain.Product)}
}

func (s *ProductStore) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *p
	clone.ID = primitive.NewObjectID().Hex()
	s.products[clone.ID] = &clone
	s.order = append(s.order, clone.ID)
	out := clone
	return &out, nil
}

func (s *ProductStore) FindByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *ProductStore) List(_ context.Context, category string) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Product, 0, len(s.order))
	for _, id := range s.order {
		p := s.products[id]
		if category != "" && p.Category != category {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (s *ProductStore) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	s.products[p.ID] = &clone
	out := clone
	return &out, nil
}

func (s *ProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
