package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wisechats/leadboard/api/internal/dto"
	"github.com/wisechats/leadboard/api/internal/entity"
)

// ErrContactNotFound indicates there is no contact row visible to the user.
var ErrContactNotFound = errors.New("contact not found")

// ContactsRepository describes persistence operations for contacts. All
// lookups are scoped to the owning user.
type ContactsRepository interface {
	CreateBatch(ctx context.Context, userID uuid.UUID, batch dto.SaveContactsRequest) ([]entity.Contact, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.ContactListFilter) ([]entity.Contact, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error)
	FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]entity.Contact, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error)
	Facets(ctx context.Context, userID uuid.UUID) (dto.ContactFacets, error)
	IdentityKeys(ctx context.Context, userID uuid.UUID) (emails, phones []string, err error)
	MarkSent(ctx context.Context, userID, id uuid.UUID, leadID string) error
	Stats(ctx context.Context, userID uuid.UUID) (dto.DashboardStats, error)
}

const contactColumns = `id, user_id, name, job_title, email, company, phone, city, niche, source, origin, source_text, sent_to_spotter, spotter_lead_id, created_at, updated_at`

// PGXContactsRepository implements ContactsRepository using pgx.
type PGXContactsRepository struct {
	pool pgxPool
}

// NewPGXContactsRepository wires a pgx backed repository.
func NewPGXContactsRepository(pool *pgxpool.Pool) *PGXContactsRepository {
	return &PGXContactsRepository{pool: pool}
}

const insertContactSQL = `
        INSERT INTO contacts (user_id, name, job_title, email, company, phone, city, niche, source, origin, source_text)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + contactColumns

// CreateBatch inserts a batch of contacts inside a single transaction. The
// batch-level niche, source and origin tag apply to every row.
func (r *PGXContactsRepository) CreateBatch(ctx context.Context, userID uuid.UUID, batch dto.SaveContactsRequest) ([]entity.Contact, error) {
	if len(batch.Contacts) == 0 {
		return nil, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("start contacts tx: %w", err)
	}
	defer tx.Rollback(ctx)

	saved := make([]entity.Contact, 0, len(batch.Contacts))
	for _, input := range batch.Contacts {
		row := tx.QueryRow(ctx, insertContactSQL,
			userID,
			input.Name,
			input.JobTitle,
			input.Email,
			input.Company,
			input.Phone,
			input.City,
			batch.Niche,
			batch.Source,
			batch.Origin,
			input.SourceText,
		)
		contact, err := scanContact(row)
		if err != nil {
			return nil, fmt.Errorf("insert contact %q: %w", input.Name, err)
		}
		saved = append(saved, *contact)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit contacts tx: %w", err)
	}

	return saved, nil
}

// List retrieves contacts matching the filter, newest first by default.
func (r *PGXContactsRepository) List(ctx context.Context, userID uuid.UUID, filter dto.ContactListFilter) ([]entity.Contact, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString(`SELECT ` + contactColumns + ` FROM contacts`)

	clauses := []string{"user_id = $1"}
	args := []any{userID}
	idx := 2

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)", idx, idx+1, idx+2))
		args = append(args, pattern, pattern, pattern)
		idx += 3
	}
	if filter.Niche != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(niche) = LOWER($%d)", idx))
		args = append(args, filter.Niche)
		idx++
	}
	if filter.City != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(city) = LOWER($%d)", idx))
		args = append(args, filter.City)
		idx++
	}
	if filter.Source != "" {
		clauses = append(clauses, fmt.Sprintf("source = $%d", idx))
		args = append(args, filter.Source)
		idx++
	}
	if filter.Tag != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(origin) = LOWER($%d)", idx))
		args = append(args, filter.Tag)
		idx++
	}
	if filter.Sent != nil {
		clauses = append(clauses, fmt.Sprintf("sent_to_spotter = $%d", idx))
		args = append(args, *filter.Sent)
		idx++
	}

	baseQuery.WriteString(" WHERE ")
	baseQuery.WriteString(strings.Join(clauses, " AND "))

	orderClause := "created_at DESC, name ASC"
	if strings.EqualFold(filter.Sort, "name") {
		orderClause = "name ASC, created_at DESC"
	}
	baseQuery.WriteString(" ORDER BY ")
	baseQuery.WriteString(orderClause)

	if filter.PerPage > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		perPage := filter.PerPage
		if perPage > 100 {
			perPage = 100
		}
		offset := (page - 1) * perPage
		baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
		args = append(args, perPage, offset)
	}

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// FindByID retrieves one contact owned by the user.
func (r *PGXContactsRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE user_id = $1 AND id = $2`, userID, id)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("query contact by id: %w", err)
	}
	return contact, nil
}

// FindByIDs retrieves the subset of the given ids owned by the user, in
// creation order.
func (r *PGXContactsRepository) FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]entity.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM contacts WHERE user_id = $1 AND id = ANY($2) ORDER BY created_at`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("list contacts by ids: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// Delete removes one contact owned by the user.
func (r *PGXContactsRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

// BulkDelete removes several contacts at once and reports how many rows went
// away. Ids not owned by the user are ignored.
func (r *PGXContactsRepository) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete contacts: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// Facets returns the distinct niches, cities and import tags present in the
// user's contacts.
func (r *PGXContactsRepository) Facets(ctx context.Context, userID uuid.UUID) (dto.ContactFacets, error) {
	var facets dto.ContactFacets

	rows, err := r.pool.Query(ctx, `SELECT DISTINCT niche FROM contacts WHERE user_id = $1 AND niche <> '' ORDER BY niche`, userID)
	if err != nil {
		return facets, fmt.Errorf("list niche facets: %w", err)
	}
	facets.Niches, err = scanStrings(rows)
	if err != nil {
		return facets, fmt.Errorf("scan niche facets: %w", err)
	}

	rows, err = r.pool.Query(ctx, `SELECT DISTINCT city FROM contacts WHERE user_id = $1 AND city <> '' ORDER BY city`, userID)
	if err != nil {
		return facets, fmt.Errorf("list city facets: %w", err)
	}
	facets.Cities, err = scanStrings(rows)
	if err != nil {
		return facets, fmt.Errorf("scan city facets: %w", err)
	}

	rows, err = r.pool.Query(ctx, `SELECT DISTINCT origin FROM contacts WHERE user_id = $1 AND origin <> '' ORDER BY origin`, userID)
	if err != nil {
		return facets, fmt.Errorf("list tag facets: %w", err)
	}
	facets.Tags, err = scanStrings(rows)
	if err != nil {
		return facets, fmt.Errorf("scan tag facets: %w", err)
	}

	return facets, nil
}

// IdentityKeys returns the raw emails and phones already stored for the user,
// for duplicate detection against fresh extractions.
func (r *PGXContactsRepository) IdentityKeys(ctx context.Context, userID uuid.UUID) (emails, phones []string, err error) {
	rows, err := r.pool.Query(ctx, `SELECT email, phone FROM contacts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list identity keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var email, phone string
		if err := rows.Scan(&email, &phone); err != nil {
			return nil, nil, fmt.Errorf("scan identity keys: %w", err)
		}
		if email != "" {
			emails = append(emails, email)
		}
		if phone != "" {
			phones = append(phones, phone)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate identity keys: %w", err)
	}
	return emails, phones, nil
}

// MarkSent flags a contact as submitted to Spotter, recording the resolved
// lead id when one is known.
func (r *PGXContactsRepository) MarkSent(ctx context.Context, userID, id uuid.UUID, leadID string) error {
	var leadArg any
	if leadID != "" {
		leadArg = leadID
	}
	cmd, err := r.pool.Exec(ctx, `
        UPDATE contacts
        SET sent_to_spotter = TRUE, spotter_lead_id = $3, updated_at = NOW()
        WHERE user_id = $1 AND id = $2
    `, userID, id, leadArg)
	if err != nil {
		return fmt.Errorf("mark contact sent: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

// Stats aggregates the user's contact base for the dashboard.
func (r *PGXContactsRepository) Stats(ctx context.Context, userID uuid.UUID) (dto.DashboardStats, error) {
	var stats dto.DashboardStats

	row := r.pool.QueryRow(ctx, `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE sent_to_spotter),
            COUNT(*) FILTER (WHERE email <> ''),
            COUNT(*) FILTER (WHERE phone <> '')
        FROM contacts
        WHERE user_id = $1
    `, userID)
	if err := row.Scan(&stats.TotalContacts, &stats.SentToSpotter, &stats.WithEmail, &stats.WithPhone); err != nil {
		return stats, fmt.Errorf("aggregate contact stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
        SELECT COALESCE(NULLIF(niche, ''), 'sem nicho'), COUNT(*)
        FROM contacts
        WHERE user_id = $1
        GROUP BY 1
        ORDER BY COUNT(*) DESC, 1 ASC
    `, userID)
	if err != nil {
		return stats, fmt.Errorf("aggregate niche stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nc dto.NicheCount
		if err := rows.Scan(&nc.Niche, &nc.Count); err != nil {
			return stats, fmt.Errorf("scan niche stats: %w", err)
		}
		stats.ByNiche = append(stats.ByNiche, nc)
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate niche stats: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
        SELECT COALESCE(NULLIF(source, ''), 'sem fonte'), COUNT(*)
        FROM contacts
        WHERE user_id = $1
        GROUP BY 1
        ORDER BY COUNT(*) DESC, 1 ASC
    `, userID)
	if err != nil {
		return stats, fmt.Errorf("aggregate source stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc dto.SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count); err != nil {
			return stats, fmt.Errorf("scan source stats: %w", err)
		}
		stats.BySource = append(stats.BySource, sc)
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate source stats: %w", err)
	}

	return stats, nil
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var (
		c      entity.Contact
		leadID sql.NullString
	)
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.JobTitle,
		&c.Email,
		&c.Company,
		&c.Phone,
		&c.City,
		&c.Niche,
		&c.Source,
		&c.Origin,
		&c.SourceText,
		&c.SentToSpotter,
		&leadID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if leadID.Valid {
		val := leadID.String
		c.SpotterLeadID = &val
	}
	return &c, nil
}

func scanContacts(rows pgx.Rows) ([]entity.Contact, error) {
	var contacts []entity.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func scanStrings(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}
