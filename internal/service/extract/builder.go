package extract

import "strings"

// Contact is one extracted record. All fields are plain strings; empty means
// the matcher found nothing.
type Contact struct {
	Name       string `json:"name"`
	JobTitle   string `json:"job_title"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	SourceText string `json:"source_text"`
}

// AcceptPolicy decides which partially-filled contacts survive a chunk.
type AcceptPolicy int

const (
	// AcceptAnyIdentity keeps a contact carrying at least one of email,
	// phone or name.
	AcceptAnyIdentity AcceptPolicy = iota
	// AcceptNameOnly requires a name; email and phone alone are dropped.
	AcceptNameOnly
	// AcceptEmailOrPhone requires a reachable channel; a bare name is
	// dropped.
	AcceptEmailOrPhone
)

// CompanyHeuristic selects how a company name is inferred when the chunk has
// no explicit header.
type CompanyHeuristic int

const (
	// CompanyFromSuffix takes the first line carrying a legal entity
	// suffix (LTDA, S.A., ...).
	CompanyFromSuffix CompanyHeuristic = iota
	// CompanyFromNearestLine takes the first line near the anchor that
	// matched no other field.
	CompanyFromNearestLine
)

// Builder turns a chunk into at most one contact. Field matchers run in a
// fixed precedence order (email, phone, job title, city, company, proper
// name) and every field is first-found-wins within the chunk.
type Builder struct {
	strategy Strategy
	accept   AcceptPolicy
	company  CompanyHeuristic
}

func NewBuilder(strategy Strategy, accept AcceptPolicy, company CompanyHeuristic) *Builder {
	return &Builder{strategy: strategy, accept: accept, company: company}
}

// Build extracts a contact from the chunk. The second return is false when
// the chunk yields nothing acceptable under the builder's policy.
func (b *Builder) Build(chunk Chunk) (Contact, bool) {
	contact := Contact{SourceText: chunk.Raw}
	lines := chunk.Lines

	if b.strategy == StrategyHeader && len(lines) > 0 {
		if company := matchCompanySuffix(lines[0]); company != "" {
			contact.Company = company
			contact.Name = company
			lines = lines[1:]
		}
	}

	for _, line := range lines {
		if isExcludedLine(line) {
			continue
		}
		matched := false
		if contact.Email == "" {
			if email := matchEmail(line); email != "" {
				contact.Email = email
				matched = true
			}
		}
		if contact.Phone == "" {
			if phone := matchPhone(line); phone != "" {
				contact.Phone = phone
				matched = true
			}
		}
		if contact.JobTitle == "" && matchJobTitle(line) {
			contact.JobTitle = strings.TrimSpace(line)
			matched = true
		}
		if contact.City == "" {
			if city := matchCity(line); city != "" {
				contact.City = city
				matched = true
			}
		}
		if contact.Company == "" && b.company == CompanyFromSuffix {
			if company := matchCompanySuffix(line); company != "" {
				contact.Company = company
				matched = true
			}
		}
		if matched {
			continue
		}
		if contact.Name == "" && matchProperName(line) {
			contact.Name = strings.TrimSpace(line)
			continue
		}
		if contact.Company == "" && b.company == CompanyFromNearestLine {
			contact.Company = strings.TrimSpace(line)
		}
	}

	if contact.Company == "" && contact.Email != "" {
		contact.Company = companyFromEmailDomain(contact.Email)
	}
	if contact.Name == "" && b.strategy == StrategyParagraph && len(chunk.Lines) > 0 {
		if first := chunk.Lines[0]; !isExcludedLine(first) {
			contact.Name = first
		}
	}

	return contact, b.accepts(contact)
}

func (b *Builder) accepts(c Contact) bool {
	switch b.accept {
	case AcceptNameOnly:
		return c.Name != ""
	case AcceptEmailOrPhone:
		return c.Email != "" || c.Phone != ""
	default:
		return c.Name != "" || c.Email != "" || c.Phone != ""
	}
}
