package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"

	"github.com/wisechats/leadboard/api/internal/dto"
	"github.com/wisechats/leadboard/api/internal/entity"
	"github.com/wisechats/leadboard/api/internal/repository"
	"github.com/wisechats/leadboard/api/internal/service/extract"
)

// Submission outcome statuses. A partial submission means the lead reached
// Spotter but the person record or the lead id resolution failed; the contact
// is still marked as sent.
const (
	SendStatusSent    = "sent"
	SendStatusPartial = "partial"
	SendStatusFailed  = "failed"
)

var (
	// ErrSendInFlight is returned when the same contact is already being
	// submitted.
	ErrSendInFlight = errors.New("contact submission already in progress")
	// ErrContactAlreadySent is returned when the contact was submitted
	// before.
	ErrContactAlreadySent = errors.New("contact already sent to spotter")
)

const spotterDefaultRegion = "BR"

// SpotterService submits stored contacts to the Spotter CRM. Each
// submission creates a lead, resolves its id and attaches the contact as the
// lead's main person.
type SpotterService struct {
	contacts repository.ContactsRepository
	users    repository.UsersRepository
	client   SpotterClient

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

// NewSpotterService constructs a SpotterService.
func NewSpotterService(contacts repository.ContactsRepository, users repository.UsersRepository, client SpotterClient) *SpotterService {
	return &SpotterService{
		contacts: contacts,
		users:    users,
		client:   client,
		inflight: map[uuid.UUID]struct{}{},
	}
}

// Send submits one contact. The returned outcome always describes the
// attempt; the error is non-nil for failures the caller can act on (missing
// token, unknown contact, concurrent submission, transport failure).
func (s *SpotterService) Send(ctx context.Context, userID uuid.UUID, contactID string) (dto.SendOutcome, error) {
	outcome := dto.SendOutcome{ContactID: contactID, Status: SendStatusFailed}

	id, err := uuid.Parse(contactID)
	if err != nil {
		outcome.Error = "invalid contact id"
		return outcome, errors.New("invalid contact id")
	}

	// The token is fetched per submission so a replaced token takes
	// effect without restarts.
	token, err := s.users.GetSpotterToken(ctx, userID)
	if err != nil {
		outcome.Error = err.Error()
		return outcome, err
	}

	if !s.acquire(id) {
		outcome.Error = ErrSendInFlight.Error()
		return outcome, ErrSendInFlight
	}
	defer s.release(id)

	contact, err := s.contacts.FindByID(ctx, userID, id)
	if err != nil {
		outcome.Error = err.Error()
		return outcome, err
	}
	if contact.SentToSpotter {
		outcome.Error = ErrContactAlreadySent.Error()
		return outcome, ErrContactAlreadySent
	}

	leadID, err := s.client.AddLead(ctx, token, buildSpotterLead(*contact))
	if err != nil {
		outcome.Error = err.Error()
		return outcome, err
	}

	// From here on the lead exists remotely, so the contact is marked
	// sent regardless of how id resolution and person creation go.
	caveat := ""
	if leadID == "" {
		leadID, err = s.client.FindLeadID(ctx, token, spotterLeadName(*contact))
		if err != nil {
			leadID = ""
			caveat = "lead created but id not resolved"
		}
	}
	if leadID != "" {
		if err := s.client.AddPerson(ctx, token, buildSpotterPerson(leadID, *contact)); err != nil {
			caveat = fmt.Sprintf("lead created but person not attached: %v", err)
		}
	}

	if err := s.contacts.MarkSent(ctx, userID, id, leadID); err != nil {
		outcome.Error = err.Error()
		return outcome, err
	}

	outcome.LeadID = leadID
	if caveat != "" {
		outcome.Status = SendStatusPartial
		outcome.Error = caveat
		return outcome, nil
	}
	outcome.Status = SendStatusSent
	return outcome, nil
}

// BulkSend submits several contacts concurrently. Failures are isolated: one
// broken contact never aborts the rest. A missing token aborts the whole
// batch before any submission starts.
func (s *SpotterService) BulkSend(ctx context.Context, userID uuid.UUID, ids []string) (*dto.BulkSendResponse, error) {
	if len(ids) == 0 {
		return nil, errors.New("ids are required")
	}
	if _, err := s.users.GetSpotterToken(ctx, userID); err != nil {
		return nil, err
	}

	outcomes := make([]dto.SendOutcome, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			outcome, _ := s.Send(ctx, userID, id)
			outcomes[i] = outcome
		}(i, id)
	}
	wg.Wait()

	resp := &dto.BulkSendResponse{Outcomes: outcomes}
	for _, outcome := range outcomes {
		switch outcome.Status {
		case SendStatusSent:
			resp.Sent++
		case SendStatusPartial:
			resp.Partial++
		default:
			resp.Failed++
		}
	}
	return resp, nil
}

func (s *SpotterService) acquire(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *SpotterService) release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
}

func spotterLeadName(contact entity.Contact) string {
	if strings.TrimSpace(contact.Name) != "" {
		return contact.Name
	}
	return "Nome não informado"
}

func buildSpotterLead(contact entity.Contact) SpotterLead {
	ddi, phone := spotterPhone(contact.Phone)

	var parts []string
	if contact.JobTitle != "" {
		parts = append(parts, "Cargo: "+contact.JobTitle)
	}
	if contact.Company != "" {
		parts = append(parts, "Empresa: "+contact.Company)
	}
	if contact.Email != "" {
		parts = append(parts, "Email: "+contact.Email)
	}
	if !contact.CreatedAt.IsZero() {
		parts = append(parts, "Data de importação: "+contact.CreatedAt.Format("02/01/2006"))
	}

	// Source carries the user's import tag when one exists; the scraping
	// origin label always goes into SubSource.
	subSource := spotterSourceLabel(contact.Source)
	source := strings.TrimSpace(contact.Origin)
	if source == "" {
		source = subSource
	}

	return SpotterLead{
		Name:        spotterLeadName(contact),
		Industry:    contact.Niche,
		Source:      source,
		SubSource:   subSource,
		DDIPhone:    ddi,
		Phone:       phone,
		City:        contact.City,
		Description: strings.Join(parts, " | "),
	}
}

// spotterSourceLabel maps a stored source value to the label Spotter shows.
func spotterSourceLabel(source string) string {
	switch source {
	case entity.SourceCasaDosDados:
		return "Casa dos Dados"
	case entity.SourceLinkedIn:
		return "Linkedin"
	default:
		return "Extração de Texto"
	}
}

func buildSpotterPerson(leadID string, contact entity.Contact) SpotterPerson {
	ddi, phone := spotterPhone(contact.Phone)
	return SpotterPerson{
		LeadID:      leadID,
		Name:        spotterLeadName(contact),
		Email:       contact.Email,
		JobTitle:    contact.JobTitle,
		DDIPhone1:   ddi,
		Phone1:      phone,
		MainContact: true,
	}
}

// spotterPhone splits a stored phone into DDI and national number. Numbers
// that parse as valid Brazilian phones go through the phone number library;
// anything else falls back to a plain digit strip.
func spotterPhone(raw string) (ddi, phone string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "55", ""
	}
	if number, err := phonenumbers.Parse(raw, spotterDefaultRegion); err == nil && phonenumbers.IsValidNumber(number) {
		return strconv.Itoa(int(number.GetCountryCode())), strconv.FormatUint(number.GetNationalNumber(), 10)
	}
	return extract.NormalizePhone(raw)
}
