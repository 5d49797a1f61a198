package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wisechats/leadboard/api/internal/entity"
	"github.com/wisechats/leadboard/api/internal/repository"
)

type mockSpotterClient struct {
	addLead    func(ctx context.Context, token string, lead SpotterLead) (string, error)
	findLeadID func(ctx context.Context, token, name string) (string, error)
	addPerson  func(ctx context.Context, token string, person SpotterPerson) error
}

func (m *mockSpotterClient) AddLead(ctx context.Context, token string, lead SpotterLead) (string, error) {
	if m.addLead != nil {
		return m.addLead(ctx, token, lead)
	}
	return "", errors.New("AddLead not implemented")
}

func (m *mockSpotterClient) FindLeadID(ctx context.Context, token, name string) (string, error) {
	if m.findLeadID != nil {
		return m.findLeadID(ctx, token, name)
	}
	return "", errors.New("FindLeadID not implemented")
}

func (m *mockSpotterClient) AddPerson(ctx context.Context, token string, person SpotterPerson) error {
	if m.addPerson != nil {
		return m.addPerson(ctx, token, person)
	}
	return errors.New("AddPerson not implemented")
}

func spotterTestUsers(token string) *mockUsersRepository {
	return &mockUsersRepository{
		getSpotterToken: func(ctx context.Context, userID uuid.UUID) (string, error) {
			if token == "" {
				return "", repository.ErrSpotterTokenNotSet
			}
			return token, nil
		},
	}
}

func storedContact(id, userID uuid.UUID) *entity.Contact {
	return &entity.Contact{
		ID:        id,
		UserID:    userID,
		Name:      "João Silva",
		JobTitle:  "Diretor Comercial",
		Email:     "joao@empresa.com.br",
		Company:   "Empresa Alfa",
		Phone:     "+55 11 98888-7777",
		City:      "São Paulo",
		Niche:     "clinicas",
		Source:    entity.SourceCasaDosDados,
		Origin:    "importacao agosto",
		CreatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestSpotterService_SendHappyPath(t *testing.T) {
	userID := uuid.New()
	contactID := uuid.New()

	var markedLead string
	contacts := &mockContactsRepository{
		findByID: func(ctx context.Context, gotUser, id uuid.UUID) (*entity.Contact, error) {
			return storedContact(id, gotUser), nil
		},
		markSent: func(ctx context.Context, gotUser, id uuid.UUID, leadID string) error {
			markedLead = leadID
			return nil
		},
	}
	client := &mockSpotterClient{
		addLead: func(ctx context.Context, token string, lead SpotterLead) (string, error) {
			if token != "tok-123" {
				t.Fatalf("AddLead token = %q, want tok-123", token)
			}
			if lead.Name != "João Silva" || lead.Industry != "clinicas" || lead.City != "São Paulo" {
				t.Fatalf("unexpected lead %+v", lead)
			}
			if lead.DDIPhone != "55" || lead.Phone != "11988887777" {
				t.Fatalf("lead phone = %q/%q, want 55/11988887777", lead.DDIPhone, lead.Phone)
			}
			if lead.Source != "importacao agosto" || lead.SubSource != "Casa dos Dados" {
				t.Fatalf("lead source = %q/%q, want the import tag and the source label", lead.Source, lead.SubSource)
			}
			for _, want := range []string{"Cargo: Diretor Comercial", "Empresa: Empresa Alfa", "Email: joao@empresa.com.br", "Data de importação: 15/03/2026"} {
				if !strings.Contains(lead.Description, want) {
					t.Fatalf("description %q missing %q", lead.Description, want)
				}
			}
			return "lead-42", nil
		},
		addPerson: func(ctx context.Context, token string, person SpotterPerson) error {
			if person.LeadID != "lead-42" || !person.MainContact {
				t.Fatalf("unexpected person %+v", person)
			}
			return nil
		},
	}

	svc := NewSpotterService(contacts, spotterTestUsers("tok-123"), client)
	outcome, err := svc.Send(context.Background(), userID, contactID.String())
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if outcome.Status != SendStatusSent || outcome.LeadID != "lead-42" {
		t.Fatalf("outcome = %+v, want sent/lead-42", outcome)
	}
	if markedLead != "lead-42" {
		t.Fatalf("MarkSent lead id = %q, want lead-42", markedLead)
	}
}

func TestSpotterService_SendResolvesLeadIDWhenMissing(t *testing.T) {
	contacts := &mockContactsRepository{
		findByID: func(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error) {
			return storedContact(id, userID), nil
		},
		markSent: func(ctx context.Context, userID, id uuid.UUID, leadID string) error { return nil },
	}
	client := &mockSpotterClient{
		addLead: func(ctx context.Context, token string, lead SpotterLead) (string, error) {
			return "", nil
		},
		findLeadID: func(ctx context.Context, token, name string) (string, error) {
			if name != "João Silva" {
				t.Fatalf("FindLeadID name = %q", name)
			}
			return "lead-77", nil
		},
		addPerson: func(ctx context.Context, token string, person SpotterPerson) error { return nil },
	}

	svc := NewSpotterService(contacts, spotterTestUsers("tok"), client)
	outcome, err := svc.Send(context.Background(), uuid.New(), uuid.NewString())
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if outcome.Status != SendStatusSent || outcome.LeadID != "lead-77" {
		t.Fatalf("outcome = %+v, want sent/lead-77", outcome)
	}
}

func TestSpotterService_SendPartialWhenLeadIDUnresolved(t *testing.T) {
	markSentCalled := false
	var markedLead string
	contacts := &mockContactsRepository{
		findByID: func(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error) {
			return storedContact(id, userID), nil
		},
		markSent: func(ctx context.Context, userID, id uuid.UUID, leadID string) error {
			markSentCalled = true
			markedLead = leadID
			return nil
		},
	}
	client := &mockSpotterClient{
		addLead: func(ctx context.Context, token string, lead SpotterLead) (string, error) {
			return "", nil
		},
		findLeadID: func(ctx context.Context, token, name string) (string, error) {
			return "", errors.New("lookup unavailable")
		},
		addPerson: func(ctx context.Context, token string, person SpotterPerson) error {
			t.Fatal("AddPerson must not run without a lead id")
			return nil
		},
	}

	svc := NewSpotterService(contacts, spotterTestUsers("tok"), client)
	outcome, err := svc.Send(context.Background(), uuid.New(), uuid.NewString())
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if outcome.Status != SendStatusPartial || outcome.LeadID != "" {
		t.Fatalf("outcome = %+v, want partial with no lead id", outcome)
	}
	if !markSentCalled {
		t.Fatal("contact should be marked sent; the lead exists remotely")
	}
	if markedLead != "" {
		t.Fatalf("MarkSent lead id = %q, want empty", markedLead)
	}
}

func TestSpotterService_SendPartialWhenPersonFails(t *testing.T) {
	marked := false
	contacts := &mockContactsRepository{
		findByID: func(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error) {
			return storedContact(id, userID), nil
		},
		markSent: func(ctx context.Context, userID, id uuid.UUID, leadID string) error {
			marked = true
			return nil
		},
	}
	client := &mockSpotterClient{
		addLead:   func(ctx context.Context, token string, lead SpotterLead) (string, error) { return "lead-1", nil },
		addPerson: func(ctx context.Context, token string, person SpotterPerson) error { return errors.New("boom") },
	}

	svc := NewSpotterService(contacts, spotterTestUsers("tok"), client)
	outcome, err := svc.Send(context.Background(), uuid.New(), uuid.NewString())
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if outcome.Status != SendStatusPartial {
		t.Fatalf("status = %q, want partial", outcome.Status)
	}
	if !marked {
		t.Fatal("contact should be marked sent despite the person failure")
	}
}

func TestBuildSpotterLeadSourceFallbacks(t *testing.T) {
	contact := *storedContact(uuid.New(), uuid.New())
	contact.Origin = ""
	contact.Source = entity.SourceLinkedIn

	lead := buildSpotterLead(contact)
	if lead.Source != "Linkedin" || lead.SubSource != "Linkedin" {
		t.Fatalf("lead source = %q/%q, want the Linkedin label on both when no tag is set", lead.Source, lead.SubSource)
	}

	contact.Source = ""
	lead = buildSpotterLead(contact)
	if lead.Source != "Extração de Texto" || lead.SubSource != "Extração de Texto" {
		t.Fatalf("lead source = %q/%q, want the generic label for an unknown source", lead.Source, lead.SubSource)
	}
}

func TestSpotterService_SendFailsWithoutToken(t *testing.T) {
	svc := NewSpotterService(&mockContactsRepository{}, spotterTestUsers(""), &mockSpotterClient{})

	outcome, err := svc.Send(context.Background(), uuid.New(), uuid.NewString())
	if !errors.Is(err, repository.ErrSpotterTokenNotSet) {
		t.Fatalf("err = %v, want ErrSpotterTokenNotSet", err)
	}
	if outcome.Status != SendStatusFailed {
		t.Fatalf("status = %q, want failed", outcome.Status)
	}
}

func TestSpotterService_SendRejectsAlreadySent(t *testing.T) {
	contacts := &mockContactsRepository{
		findByID: func(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error) {
			contact := storedContact(id, userID)
			contact.SentToSpotter = true
			return contact, nil
		},
	}
	svc := NewSpotterService(contacts, spotterTestUsers("tok"), &mockSpotterClient{})

	_, err := svc.Send(context.Background(), uuid.New(), uuid.NewString())
	if !errors.Is(err, ErrContactAlreadySent) {
		t.Fatalf("err = %v, want ErrContactAlreadySent", err)
	}
}

func TestSpotterService_SendRejectsConcurrentSubmission(t *testing.T) {
	contactID := uuid.New()
	started := make(chan struct{})
	proceed := make(chan struct{})

	contacts := &mockContactsRepository{
		findByID: func(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error) {
			return storedContact(id, userID), nil
		},
		markSent: func(ctx context.Context, userID, id uuid.UUID, leadID string) error { return nil },
	}
	client := &mockSpotterClient{
		addLead: func(ctx context.Context, token string, lead SpotterLead) (string, error) {
			close(started)
			<-proceed
			return "lead-1", nil
		},
		addPerson: func(ctx context.Context, token string, person SpotterPerson) error { return nil },
	}
	svc := NewSpotterService(contacts, spotterTestUsers("tok"), client)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.Send(context.Background(), uuid.New(), contactID.String()); err != nil {
			t.Errorf("first Send returned error: %v", err)
		}
	}()

	<-started
	_, err := svc.Send(context.Background(), uuid.New(), contactID.String())
	if !errors.Is(err, ErrSendInFlight) {
		t.Fatalf("err = %v, want ErrSendInFlight", err)
	}
	close(proceed)
	wg.Wait()
}

func TestSpotterService_BulkSendAggregatesOutcomes(t *testing.T) {
	okID := uuid.New()
	badID := uuid.New()

	contacts := &mockContactsRepository{
		findByID: func(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error) {
			if id == badID {
				return nil, repository.ErrContactNotFound
			}
			return storedContact(id, userID), nil
		},
		markSent: func(ctx context.Context, userID, id uuid.UUID, leadID string) error { return nil },
	}
	client := &mockSpotterClient{
		addLead:   func(ctx context.Context, token string, lead SpotterLead) (string, error) { return "lead-9", nil },
		addPerson: func(ctx context.Context, token string, person SpotterPerson) error { return nil },
	}
	svc := NewSpotterService(contacts, spotterTestUsers("tok"), client)

	resp, err := svc.BulkSend(context.Background(), uuid.New(), []string{okID.String(), badID.String()})
	if err != nil {
		t.Fatalf("BulkSend returned error: %v", err)
	}
	if resp.Sent != 1 || resp.Failed != 1 || resp.Partial != 0 {
		t.Fatalf("counts = %d/%d/%d, want 1 sent, 1 failed", resp.Sent, resp.Partial, resp.Failed)
	}
	if resp.Outcomes[0].ContactID != okID.String() || resp.Outcomes[1].ContactID != badID.String() {
		t.Fatalf("outcomes out of order: %+v", resp.Outcomes)
	}
}

func TestSpotterService_BulkSendWithoutToken(t *testing.T) {
	svc := NewSpotterService(&mockContactsRepository{}, spotterTestUsers(""), &mockSpotterClient{})

	if _, err := svc.BulkSend(context.Background(), uuid.New(), []string{uuid.NewString()}); !errors.Is(err, repository.ErrSpotterTokenNotSet) {
		t.Fatalf("err = %v, want ErrSpotterTokenNotSet", err)
	}
	if _, err := svc.BulkSend(context.Background(), uuid.New(), nil); err == nil {
		t.Fatal("expected error for empty id list")
	}
}
