package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-']+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// Keyword-prefixed numbers take precedence over bare digit runs.
	keywordPhonePattern = regexp.MustCompile(`(?i)(?:whatsapp|telefone|fone|cel)[\s:]*(\+?[\d\s()\-]{8,20})`)
	barePhonePattern    = regexp.MustCompile(`\+?[\d\s()\-]{10,20}`)

	companySuffixPattern = regexp.MustCompile(`(?i)\b(LTDA|S\.?A\.?|ME|EPP|EIRELI|CNPJ)\b`)
	registryFragment     = regexp.MustCompile(`(?i)\s*-?\s*(CNPJ|CPF)[\s\d./\-]+`)
	legalSuffixTail      = regexp.MustCompile(`(?i)[\s\-]*\b(LTDA|S\.?A\.?|ME|EPP|EIRELI)\b\.?\s*$`)
)

// jobTitleKeywords is matched as a case-insensitive substring; the whole line
// becomes the job title.
var jobTitleKeywords = []string{
	"diretor", "gerente", "coordenador", "supervisor", "analista",
	"assistente", "consultor", "especialista", "líder", "head",
	"manager", "ceo", "cto", "cfo", "presidente", "vice", "sócio",
}

// cityGazetteer is matched exactly (case-insensitive, whole line). No fuzzy
// matching.
var cityGazetteer = []string{
	"São Paulo", "Rio de Janeiro", "Belo Horizonte", "Brasília", "Salvador",
	"Fortaleza", "Curitiba", "Manaus", "Recife", "Porto Alegre", "Goiânia",
	"Belém", "Campinas", "São Luís", "Maceió", "Natal", "Campo Grande",
	"Teresina", "João Pessoa", "Osasco", "Santo André", "São Bernardo do Campo",
	"Ribeirão Preto", "Uberlândia", "Sorocaba", "Niterói", "Florianópolis",
	"Cuiabá", "Joinville", "Londrina", "Aracaju", "Vitória", "Santos",
	"Blumenau", "Caxias do Sul",
}

// knownSources are names of the scraping sources themselves. Lines naming
// them must never populate a contact field.
var knownSources = []string{
	"casa dos dados", "linkedin", "serasa", "receita federal",
}

// properNameMaxRunes caps the length of a line accepted by the proper-name
// fallback.
const properNameMaxRunes = 50

// nameConnectors are Portuguese particles allowed lowercase inside a proper
// name ("Maria da Silva").
var nameConnectors = map[string]struct{}{
	"da": {}, "de": {}, "do": {}, "das": {}, "dos": {}, "e": {},
}

// isExcludedLine reports whether a line names a known scraping source or
// carries a URL. Excluded lines are skipped by every matcher in every
// strategy.
func isExcludedLine(line string) bool {
	lower := strings.ToLower(line)
	for _, source := range knownSources {
		if strings.Contains(lower, source) {
			return true
		}
	}
	return strings.Contains(lower, "http") || strings.Contains(lower, "www.")
}

// matchEmail returns the first plausible email address in the line, or "".
// The domain must survive IDNA ASCII conversion so the company-from-domain
// fallback never operates on garbage.
func matchEmail(line string) string {
	match := emailPattern.FindString(line)
	if match == "" {
		return ""
	}
	at := strings.LastIndex(match, "@")
	domain := strings.ToLower(match[at+1:])
	if !validEmailDomain(domain) {
		return ""
	}
	return match
}

func validEmailDomain(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	return err == nil && ascii != ""
}

// matchPhone returns the first phone-looking match in the line, or "".
// A keyword-prefixed number ("whatsapp: ...") wins over a bare digit run, and
// bare runs are suppressed on lines that contain an email so that digits
// inside addresses are never misread as numbers.
func matchPhone(line string) string {
	if m := keywordPhonePattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	if emailPattern.MatchString(line) {
		return ""
	}
	if m := barePhonePattern.FindString(line); m != "" {
		candidate := strings.TrimSpace(m)
		if digitCount(candidate) >= 8 {
			return candidate
		}
	}
	return ""
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// NormalizePhone strips a raw phone string down to bare digits and splits off
// the Brazilian country code. The DDI defaults to "55"; a leading "55" is
// removed from the local part only when enough digits remain for an area code
// plus subscriber number.
func NormalizePhone(raw string) (ddi, local string) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "55") && len(digits) >= 12 {
		digits = digits[2:]
	}
	return "55", digits
}

// matchJobTitle reports whether the line mentions a known role keyword. The
// whole line is used as the title.
func matchJobTitle(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range jobTitleKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// matchCity returns the gazetteer spelling when the trimmed line is exactly a
// known city name, or "".
func matchCity(line string) string {
	trimmed := strings.TrimSpace(line)
	for _, city := range cityGazetteer {
		if strings.EqualFold(trimmed, city) {
			return city
		}
	}
	return ""
}

// matchCompanySuffix returns the company name when the line carries a legal
// entity suffix or CNPJ marker, with the registry fragment and the suffix
// itself stripped ("Acme LTDA - CNPJ 12.345..." -> "Acme"). Returns "" when
// the line is not a company line.
func matchCompanySuffix(line string) string {
	if !companySuffixPattern.MatchString(line) {
		return ""
	}
	name := registryFragment.ReplaceAllString(line, "")
	name = legalSuffixTail.ReplaceAllString(name, "")
	name = strings.TrimSpace(strings.Trim(strings.TrimSpace(name), "-–"))
	return strings.TrimSpace(name)
}

// isCompanyHeader reports whether a line starts a new record in the
// header-triggered strategy.
func isCompanyHeader(line string) bool {
	return companySuffixPattern.MatchString(line) && !isExcludedLine(line)
}

// matchProperName reports whether the line looks like a person or company
// display name: capitalized word tokens (lowercase Portuguese connectors
// allowed) under a length ceiling.
func matchProperName(line string) bool {
	trimmed := strings.TrimSpace(line)
	runes := []rune(trimmed)
	if len(runes) == 0 || len(runes) > properNameMaxRunes {
		return false
	}
	tokens := strings.Fields(trimmed)
	if len(tokens) == 0 {
		return false
	}
	capitalized := 0
	for _, token := range tokens {
		if _, ok := nameConnectors[strings.ToLower(token)]; ok {
			continue
		}
		first := []rune(token)[0]
		if !unicode.IsUpper(first) {
			return false
		}
		for _, r := range token {
			if !unicode.IsLetter(r) {
				return false
			}
		}
		capitalized++
	}
	return capitalized > 0
}

// companyFromEmailDomain derives a company name from the label before the
// first dot of the email domain ("acme" from "x@acme.com.br").
func companyFromEmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	domain := email[at+1:]
	if dot := strings.Index(domain, "."); dot > 0 {
		domain = domain[:dot]
	}
	return domain
}
