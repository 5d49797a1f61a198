package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/wisechats/leadboard/api/internal/dto"
	"github.com/wisechats/leadboard/api/internal/entity"
	"github.com/wisechats/leadboard/api/internal/repository"
	"github.com/wisechats/leadboard/api/internal/service/extract"
)

// ContactsService coordinates text extraction and contact persistence.
type ContactsService struct {
	contacts repository.ContactsRepository
	maxInput int
}

// NewContactsService constructs a ContactsService. maxInput caps the
// extraction input size in runes; zero applies the extractor default.
func NewContactsService(contacts repository.ContactsRepository, maxInput int) *ContactsService {
	return &ContactsService{contacts: contacts, maxInput: maxInput}
}

// Extract runs the extraction pipeline over raw text and partitions the
// result against the user's stored contacts.
func (s *ContactsService) Extract(ctx context.Context, userID uuid.UUID, req dto.ExtractRequest) (*dto.ExtractResponse, error) {
	pipeline, err := extract.NewPipeline(extract.Options{
		Strategy:    extract.Strategy(req.Strategy),
		MaxInputLen: s.maxInput,
	})
	if err != nil {
		return nil, err
	}

	found, err := pipeline.Extract(req.Text)
	if err != nil {
		if errors.Is(err, extract.ErrNoContactsFound) {
			return &dto.ExtractResponse{Unique: []extract.Contact{}, Duplicated: []extract.Contact{}}, nil
		}
		return nil, err
	}

	existing, err := s.existingKeys(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := extract.Dedupe(found, existing)
	resp := &dto.ExtractResponse{
		Unique:     result.Unique,
		Duplicated: result.Duplicated,
		Total:      len(found),
	}
	if resp.Unique == nil {
		resp.Unique = []extract.Contact{}
	}
	if resp.Duplicated == nil {
		resp.Duplicated = []extract.Contact{}
	}
	return resp, nil
}

func (s *ContactsService) existingKeys(ctx context.Context, userID uuid.UUID) (extract.ExistingKeys, error) {
	emails, phones, err := s.contacts.IdentityKeys(ctx, userID)
	if err != nil {
		return extract.ExistingKeys{}, err
	}

	keys := extract.ExistingKeys{
		Emails: make(map[string]struct{}, len(emails)),
		Phones: make(map[string]struct{}, len(phones)),
	}
	for _, email := range emails {
		keys.Emails[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	for _, phone := range phones {
		if _, digits := extract.NormalizePhone(phone); digits != "" {
			keys.Phones[digits] = struct{}{}
		}
	}
	return keys, nil
}

// Save persists a batch of contacts under a niche. The batch is deduped
// against itself and the user's stored identity keys before anything is
// written; duplicated contacts come back in the response instead of failing
// the batch. The batch source and origin tag are optional.
func (s *ContactsService) Save(ctx context.Context, userID uuid.UUID, req dto.SaveContactsRequest) (*dto.SaveContactsResponse, error) {
	req.Niche = strings.TrimSpace(req.Niche)
	req.Source = strings.ToUpper(strings.TrimSpace(req.Source))
	req.Origin = strings.TrimSpace(req.Origin)
	if req.Niche == "" {
		return nil, errors.New("niche is required")
	}
	if len(req.Contacts) == 0 {
		return nil, errors.New("contacts are required")
	}

	existing, err := s.existingKeys(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := make([]extract.Contact, len(req.Contacts))
	for i, input := range req.Contacts {
		candidates[i] = extractContact(input)
	}
	partition := extract.Dedupe(candidates, existing)

	resp := &dto.SaveContactsResponse{
		Saved:      []entity.Contact{},
		Duplicated: make([]dto.ContactInput, 0, len(partition.Duplicated)),
	}
	for _, c := range partition.Duplicated {
		resp.Duplicated = append(resp.Duplicated, contactInput(c))
	}
	if len(partition.Unique) == 0 {
		return resp, nil
	}

	unique := req
	unique.Contacts = make([]dto.ContactInput, 0, len(partition.Unique))
	for _, c := range partition.Unique {
		unique.Contacts = append(unique.Contacts, contactInput(c))
	}

	saved, err := s.contacts.CreateBatch(ctx, userID, unique)
	if err != nil {
		return nil, err
	}
	resp.Saved = saved
	return resp, nil
}

func extractContact(input dto.ContactInput) extract.Contact {
	return extract.Contact{
		Name:       input.Name,
		JobTitle:   input.JobTitle,
		Email:      input.Email,
		Company:    input.Company,
		Phone:      input.Phone,
		City:       input.City,
		SourceText: input.SourceText,
	}
}

func contactInput(c extract.Contact) dto.ContactInput {
	return dto.ContactInput{
		Name:       c.Name,
		JobTitle:   c.JobTitle,
		Email:      c.Email,
		Company:    c.Company,
		Phone:      c.Phone,
		City:       c.City,
		SourceText: c.SourceText,
	}
}

// List returns the user's contacts matching the filter.
func (s *ContactsService) List(ctx context.Context, userID uuid.UUID, filter dto.ContactListFilter) ([]entity.Contact, error) {
	return s.contacts.List(ctx, userID, filter)
}

// Delete removes one contact.
func (s *ContactsService) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid contact id")
	}
	return s.contacts.Delete(ctx, userID, contactID)
}

// BulkDelete removes several contacts and reports how many went away.
func (s *ContactsService) BulkDelete(ctx context.Context, userID uuid.UUID, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, errors.New("ids are required")
	}
	contactIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		contactID, err := uuid.Parse(id)
		if err != nil {
			return 0, errors.New("invalid contact id")
		}
		contactIDs = append(contactIDs, contactID)
	}
	return s.contacts.BulkDelete(ctx, userID, contactIDs)
}

// Facets returns distinct niches, cities and import tags for filter dropdowns.
func (s *ContactsService) Facets(ctx context.Context, userID uuid.UUID) (dto.ContactFacets, error) {
	return s.contacts.Facets(ctx, userID)
}

// Stats aggregates the user's contact base for the dashboard.
func (s *ContactsService) Stats(ctx context.Context, userID uuid.UUID) (dto.DashboardStats, error) {
	return s.contacts.Stats(ctx, userID)
}
