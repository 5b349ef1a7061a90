package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront/accounts-api/internal/core/domain"
)

func TestProductStore_CRUD(t *testing.T) {
	s := NewProductStore()
	ctx := context.Background()

	keyboard, _ := s.Create(ctx, &domain.Product{Name: "Keyboard", Category: "peripherals"})
	_, _ = s.Create(ctx, &domain.Product{Name: "Desk", Category: "furniture"})

	all, _ := s.List(ctx, "")
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}
	peripherals, _ := s.List(ctx, "peripherals")
	if len(peripherals) != 1 || peripherals[0].Name != "Keyboard" {
		t.Fatalf("unexpected category filter result: %+v", peripherals)
	}

	keyboard.Quantity = 5
	if _, err := s.Update(ctx, keyboard); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := s.FindByID(ctx, keyboard.ID)
	if got.Quantity != 5 {
		t.Fatalf("update not applied")
	}

	if err := s.Delete(ctx, keyboard.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.FindByID(ctx, keyboard.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := s.Delete(ctx, keyboard.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
	if _, err := s.Update(ctx, keyboard); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on update of deleted product, got %v", err)
	}
}
