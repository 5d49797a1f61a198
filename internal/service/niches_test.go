package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/wisechats/leadboard/api/internal/entity"
	"github.com/wisechats/leadboard/api/internal/repository"
)

type mockNichesRepository struct {
	list   func(ctx context.Context, userID uuid.UUID) ([]entity.Niche, error)
	create func(ctx context.Context, userID uuid.UUID, name string) (*entity.Niche, error)
	delete func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockNichesRepository) List(ctx context.Context, userID uuid.UUID) ([]entity.Niche, error) {
	if m.list != nil {
		return m.list(ctx, userID)
	}
	return nil, errors.New("List not implemented")
}

func (m *mockNichesRepository) Create(ctx context.Context, userID uuid.UUID, name string) (*entity.Niche, error) {
	if m.create != nil {
		return m.create(ctx, userID, name)
	}
	return nil, errors.New("Create not implemented")
}

func (m *mockNichesRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, userID, id)
	}
	return errors.New("Delete not implemented")
}

func TestNichesService_Create(t *testing.T) {
	repo := &mockNichesRepository{
		create: func(ctx context.Context, userID uuid.UUID, name string) (*entity.Niche, error) {
			if name != "clinicas" {
				t.Fatalf("name = %q, want trimmed value", name)
			}
			return &entity.Niche{ID: uuid.New(), UserID: userID, Name: name}, nil
		},
	}
	svc := NewNichesService(repo)

	niche, err := svc.Create(context.Background(), uuid.New(), "  clinicas  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if niche.Name != "clinicas" {
		t.Fatalf("niche name = %q", niche.Name)
	}

	if _, err := svc.Create(context.Background(), uuid.New(), "   "); err == nil {
		t.Fatal("expected error for blank name")
	}

	repo.create = func(ctx context.Context, userID uuid.UUID, name string) (*entity.Niche, error) {
		return nil, repository.ErrNicheDuplicate
	}
	if _, err := svc.Create(context.Background(), uuid.New(), "clinicas"); !errors.Is(err, repository.ErrNicheDuplicate) {
		t.Fatalf("expected ErrNicheDuplicate, got %v", err)
	}
}

func TestNichesService_Delete(t *testing.T) {
	repo := &mockNichesRepository{
		delete: func(ctx context.Context, userID, id uuid.UUID) error { return nil },
	}
	svc := NewNichesService(repo)

	if err := svc.Delete(context.Background(), uuid.New(), uuid.NewString()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.New(), "bad-uuid"); err == nil {
		t.Fatal("expected invalid uuid error")
	}
}
