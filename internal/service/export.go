package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wisechats/leadboard/api/internal/dto"
	"github.com/wisechats/leadboard/api/internal/entity"
	"github.com/wisechats/leadboard/api/internal/repository"
	"github.com/wisechats/leadboard/api/internal/service/extract"
)

// spotterTemplateHeaders is the fixed column layout of the Spotter import
// template. The order must not change.
var spotterTemplateHeaders = []string{
	"Nome do Lead", "Origem", "Sub-Origem", "Mercado", "Produto", "Site", "País", "Estado",
	"Cidade", "Logradouro", "Número", "Bairro", "Complemento", "CEP", "DDI", "Telefones",
	"Observação", "CPF/CNPJ", "Email Pré-vendedor", "Nome Contato", "E-mail Contato",
	"Cargo Contato", "DDI Contato", "Telefones Contato", "Tipo do Serv. Comunicação",
	"ID do Serv. Comunicação", "Faturamento", "Contato Anterior com IA", "Avaliacao Google",
	"Total Reviews Google", "Nome da Empresa", "Etapa", "Funil",
}

var contactExportHeaders = []string{
	"#", "Nome", "Cargo", "Email", "Empresa", "WhatsApp", "Cidade", "Nicho", "Data de Criação",
}

// ExportService renders contact batches as downloadable CSV documents.
type ExportService struct {
	contacts repository.ContactsRepository
}

// NewExportService constructs an ExportService.
func NewExportService(contacts repository.ContactsRepository) *ExportService {
	return &ExportService{contacts: contacts}
}

// ContactsCSV renders the user's contacts matching the filter as a plain CSV
// listing.
func (s *ExportService) ContactsCSV(ctx context.Context, userID uuid.UUID, filter dto.ContactListFilter) ([]byte, error) {
	contacts, err := s.contacts.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(contacts)+1)
	rows = append(rows, contactExportHeaders)
	for i, contact := range contacts {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			contact.Name,
			contact.JobTitle,
			contact.Email,
			contact.Company,
			contact.Phone,
			contact.City,
			contact.Niche,
			contact.CreatedAt.Format("02/01/2006"),
		})
	}
	return renderCSV(rows), nil
}

// SpotterTemplateCSV renders the user's contacts in the Spotter bulk import
// layout. Unmapped template columns stay empty; the country and DDI are fixed
// for Brazilian leads.
func (s *ExportService) SpotterTemplateCSV(ctx context.Context, userID uuid.UUID, filter dto.ContactListFilter) ([]byte, error) {
	contacts, err := s.contacts.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(contacts)+1)
	rows = append(rows, spotterTemplateHeaders)
	for _, contact := range contacts {
		rows = append(rows, spotterTemplateRow(contact))
	}
	return renderCSV(rows), nil
}

func spotterTemplateRow(contact entity.Contact) []string {
	_, phone := extract.NormalizePhone(contact.Phone)

	origem := strings.TrimSpace(contact.Origin)
	subOrigem := spotterSourceLabel(contact.Source)
	if origem == "" {
		origem = subOrigem
	}

	row := make([]string, len(spotterTemplateHeaders))
	row[0] = contact.Name      // Nome do Lead
	row[1] = origem            // Origem
	row[2] = subOrigem         // Sub-Origem
	row[3] = contact.Niche     // Mercado
	row[6] = "Brasil"          // País
	row[8] = contact.City      // Cidade
	row[14] = "55"             // DDI
	row[15] = phone            // Telefones
	row[19] = contact.Name     // Nome Contato
	row[20] = contact.Email    // E-mail Contato
	row[21] = contact.JobTitle // Cargo Contato
	row[22] = "55"             // DDI Contato
	row[23] = phone            // Telefones Contato
	row[30] = contact.Company  // Nome da Empresa
	return row
}

// renderCSV joins rows into CSV text with every field quoted, matching the
// format the Spotter importer expects.
func renderCSV(rows [][]string) []byte {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, field := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return []byte(b.String())
}
