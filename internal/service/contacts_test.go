package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/wisechats/leadboard/api/internal/dto"
	"github.com/wisechats/leadboard/api/internal/entity"
	"github.com/wisechats/leadboard/api/internal/repository"
)

type mockContactsRepository struct {
	createBatch  func(ctx context.Context, userID uuid.UUID, batch dto.SaveContactsRequest) ([]entity.Contact, error)
	list         func(ctx context.Context, userID uuid.UUID, filter dto.ContactListFilter) ([]entity.Contact, error)
	findByID     func(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error)
	findByIDs    func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]entity.Contact, error)
	delete       func(ctx context.Context, userID, id uuid.UUID) error
	bulkDelete   func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error)
	facets       func(ctx context.Context, userID uuid.UUID) (dto.ContactFacets, error)
	identityKeys func(ctx context.Context, userID uuid.UUID) ([]string, []string, error)
	markSent     func(ctx context.Context, userID, id uuid.UUID, leadID string) error
	stats        func(ctx context.Context, userID uuid.UUID) (dto.DashboardStats, error)
}

func (m *mockContactsRepository) CreateBatch(ctx context.Context, userID uuid.UUID, batch dto.SaveContactsRequest) ([]entity.Contact, error) {
	if m.createBatch != nil {
		return m.createBatch(ctx, userID, batch)
	}
	return nil, errors.New("CreateBatch not implemented")
}

func (m *mockContactsRepository) List(ctx context.Context, userID uuid.UUID, filter dto.ContactListFilter) ([]entity.Contact, error) {
	if m.list != nil {
		return m.list(ctx, userID, filter)
	}
	return nil, errors.New("List not implemented")
}

func (m *mockContactsRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error) {
	if m.findByID != nil {
		return m.findByID(ctx, userID, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockContactsRepository) FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]entity.Contact, error) {
	if m.findByIDs != nil {
		return m.findByIDs(ctx, userID, ids)
	}
	return nil, errors.New("FindByIDs not implemented")
}

func (m *mockContactsRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, userID, id)
	}
	return errors.New("Delete not implemented")
}

func (m *mockContactsRepository) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	if m.bulkDelete != nil {
		return m.bulkDelete(ctx, userID, ids)
	}
	return 0, errors.New("BulkDelete not implemented")
}

func (m *mockContactsRepository) Facets(ctx context.Context, userID uuid.UUID) (dto.ContactFacets, error) {
	if m.facets != nil {
		return m.facets(ctx, userID)
	}
	return dto.ContactFacets{}, errors.New("Facets not implemented")
}

func (m *mockContactsRepository) IdentityKeys(ctx context.Context, userID uuid.UUID) ([]string, []string, error) {
	if m.identityKeys != nil {
		return m.identityKeys(ctx, userID)
	}
	return nil, nil, errors.New("IdentityKeys not implemented")
}

func (m *mockContactsRepository) MarkSent(ctx context.Context, userID, id uuid.UUID, leadID string) error {
	if m.markSent != nil {
		return m.markSent(ctx, userID, id, leadID)
	}
	return errors.New("MarkSent not implemented")
}

func (m *mockContactsRepository) Stats(ctx context.Context, userID uuid.UUID) (dto.DashboardStats, error) {
	if m.stats != nil {
		return m.stats(ctx, userID)
	}
	return dto.DashboardStats{}, errors.New("Stats not implemented")
}

var _ repository.ContactsRepository = (*mockContactsRepository)(nil)

func TestContactsService_ExtractPartitionsAgainstStoredContacts(t *testing.T) {
	userID := uuid.New()
	repo := &mockContactsRepository{
		identityKeys: func(ctx context.Context, gotUser uuid.UUID) ([]string, []string, error) {
			if gotUser != userID {
				t.Fatalf("IdentityKeys called with user %s, want %s", gotUser, userID)
			}
			return []string{"Joao.Silva@Empresa.com.br "}, []string{"+55 (11) 98888-7777"}, nil
		},
	}
	svc := NewContactsService(repo, 0)

	text := "João Silva\nDiretor Comercial\njoao.silva@empresa.com.br\n\n" +
		"Maria Souza\nGerente de Vendas\nmaria@loja.com.br\nWhatsApp: (21) 97777-1234"

	resp, err := svc.Extract(context.Background(), userID, dto.ExtractRequest{Text: text})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("Total = %d, want 2", resp.Total)
	}
	if len(resp.Duplicated) != 1 || resp.Duplicated[0].Email != "joao.silva@empresa.com.br" {
		t.Fatalf("Duplicated = %+v, want João's contact flagged", resp.Duplicated)
	}
	if len(resp.Unique) != 1 || resp.Unique[0].Email != "maria@loja.com.br" {
		t.Fatalf("Unique = %+v, want Maria's contact", resp.Unique)
	}
}

func TestContactsService_ExtractNoContactsReturnsEmptyResponse(t *testing.T) {
	svc := NewContactsService(&mockContactsRepository{}, 0)

	resp, err := svc.Extract(context.Background(), uuid.New(), dto.ExtractRequest{Text: "nada aqui"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if resp.Total != 0 || len(resp.Unique) != 0 || len(resp.Duplicated) != 0 {
		t.Fatalf("expected empty response, got %+v", resp)
	}
	if resp.Unique == nil || resp.Duplicated == nil {
		t.Fatal("expected non-nil slices in empty response")
	}
}

func TestContactsService_ExtractUnknownStrategy(t *testing.T) {
	svc := NewContactsService(&mockContactsRepository{}, 0)

	_, err := svc.Extract(context.Background(), uuid.New(), dto.ExtractRequest{Text: "x", Strategy: "magic"})
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestContactsService_SaveValidation(t *testing.T) {
	svc := NewContactsService(&mockContactsRepository{}, 0)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Save(ctx, userID, dto.SaveContactsRequest{Niche: "  ", Contacts: []dto.ContactInput{{Name: "a"}}}); err == nil {
		t.Fatal("expected error for missing niche")
	}
	if _, err := svc.Save(ctx, userID, dto.SaveContactsRequest{Niche: "clinicas"}); err == nil {
		t.Fatal("expected error for empty contacts")
	}
}

func TestContactsService_SaveDelegatesToRepository(t *testing.T) {
	userID := uuid.New()
	repo := &mockContactsRepository{
		identityKeys: func(ctx context.Context, gotUser uuid.UUID) ([]string, []string, error) {
			return nil, nil, nil
		},
		createBatch: func(ctx context.Context, gotUser uuid.UUID, batch dto.SaveContactsRequest) ([]entity.Contact, error) {
			if batch.Niche != "clinicas" {
				t.Fatalf("niche = %q, want clinicas", batch.Niche)
			}
			if batch.Source != "LINKEDIN" || batch.Origin != "importacao agosto" {
				t.Fatalf("batch = %+v, want normalized source and origin", batch)
			}
			if len(batch.Contacts) != 1 || batch.Contacts[0].Name != "João Silva" {
				t.Fatalf("contacts = %+v", batch.Contacts)
			}
			return []entity.Contact{{ID: uuid.New(), UserID: gotUser, Name: "João Silva", Niche: batch.Niche}}, nil
		},
	}
	svc := NewContactsService(repo, 0)

	resp, err := svc.Save(context.Background(), userID, dto.SaveContactsRequest{
		Niche:    " clinicas ",
		Source:   " linkedin ",
		Origin:   " importacao agosto ",
		Contacts: []dto.ContactInput{{Name: "João Silva"}},
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if len(resp.Saved) != 1 || len(resp.Duplicated) != 0 {
		t.Fatalf("saved %d / duplicated %d contacts, want 1/0", len(resp.Saved), len(resp.Duplicated))
	}
}

func TestContactsService_SaveDropsDuplicatesBeforePersisting(t *testing.T) {
	repo := &mockContactsRepository{
		identityKeys: func(ctx context.Context, userID uuid.UUID) ([]string, []string, error) {
			return []string{"joao@empresa.com.br"}, nil, nil
		},
		createBatch: func(ctx context.Context, userID uuid.UUID, batch dto.SaveContactsRequest) ([]entity.Contact, error) {
			if len(batch.Contacts) != 1 || batch.Contacts[0].Name != "Maria Souza" {
				t.Fatalf("only the unique contact should be persisted, got %+v", batch.Contacts)
			}
			return []entity.Contact{{ID: uuid.New(), Name: "Maria Souza"}}, nil
		},
	}
	svc := NewContactsService(repo, 0)

	resp, err := svc.Save(context.Background(), uuid.New(), dto.SaveContactsRequest{
		Niche: "clinicas",
		Contacts: []dto.ContactInput{
			{Name: "João Silva", Email: "joao@empresa.com.br"},
			{Name: "Maria Souza", Email: "maria@outra.com.br", Phone: "(11) 98888-7777"},
			{Name: "Maria de Novo", Phone: "11 98888 7777"},
		},
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if len(resp.Saved) != 1 {
		t.Fatalf("saved %d contacts, want 1", len(resp.Saved))
	}
	if len(resp.Duplicated) != 2 || resp.Duplicated[0].Name != "João Silva" || resp.Duplicated[1].Name != "Maria de Novo" {
		t.Fatalf("duplicated = %+v, want João (stored email) and the repeated phone", resp.Duplicated)
	}
}

func TestContactsService_SaveAllDuplicatesSkipsPersistence(t *testing.T) {
	repo := &mockContactsRepository{
		identityKeys: func(ctx context.Context, userID uuid.UUID) ([]string, []string, error) {
			return []string{"joao@empresa.com.br"}, nil, nil
		},
		createBatch: func(ctx context.Context, userID uuid.UUID, batch dto.SaveContactsRequest) ([]entity.Contact, error) {
			t.Fatal("CreateBatch must not run for an all-duplicate batch")
			return nil, nil
		},
	}
	svc := NewContactsService(repo, 0)

	resp, err := svc.Save(context.Background(), uuid.New(), dto.SaveContactsRequest{
		Niche:    "clinicas",
		Contacts: []dto.ContactInput{{Name: "João Silva", Email: "joao@empresa.com.br"}},
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if len(resp.Saved) != 0 || len(resp.Duplicated) != 1 {
		t.Fatalf("saved %d / duplicated %d, want 0/1", len(resp.Saved), len(resp.Duplicated))
	}
}

func TestContactsService_DeleteInvalidID(t *testing.T) {
	svc := NewContactsService(&mockContactsRepository{}, 0)

	if err := svc.Delete(context.Background(), uuid.New(), "not-a-uuid"); err == nil {
		t.Fatal("expected error for malformed id")
	}
}

func TestContactsService_BulkDelete(t *testing.T) {
	ids := []string{uuid.NewString(), uuid.NewString()}
	repo := &mockContactsRepository{
		bulkDelete: func(ctx context.Context, userID uuid.UUID, got []uuid.UUID) (int, error) {
			if len(got) != 2 {
				t.Fatalf("BulkDelete received %d ids, want 2", len(got))
			}
			return 2, nil
		},
	}
	svc := NewContactsService(repo, 0)

	removed, err := svc.BulkDelete(context.Background(), uuid.New(), ids)
	if err != nil {
		t.Fatalf("BulkDelete returned error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	if _, err := svc.BulkDelete(context.Background(), uuid.New(), nil); err == nil {
		t.Fatal("expected error for empty id list")
	}
	if _, err := svc.BulkDelete(context.Background(), uuid.New(), []string{"nope"}); err == nil {
		t.Fatal("expected error for malformed id")
	}
}
