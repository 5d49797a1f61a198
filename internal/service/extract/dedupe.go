package extract

import "strings"

// ExistingKeys carries the identity keys of contacts already persisted, so a
// fresh extraction can be partitioned against them.
type ExistingKeys struct {
	Emails map[string]struct{}
	Phones map[string]struct{}
}

// DedupeResult partitions an extraction batch. Order within each slice
// follows the input order.
type DedupeResult struct {
	Unique     []Contact
	Duplicated []Contact
}

// IdentityKey returns the dedupe key for a contact: the lowercased trimmed
// email when present, otherwise the bare digits of the phone. The second
// return is false when the contact has neither, in which case it can never be
// a duplicate.
func IdentityKey(c Contact) (key string, byEmail, ok bool) {
	if email := strings.ToLower(strings.TrimSpace(c.Email)); email != "" {
		return email, true, true
	}
	_, digits := NormalizePhone(c.Phone)
	if digits != "" {
		return digits, false, true
	}
	return "", false, false
}

// Dedupe splits contacts into unique and duplicated against both the batch
// itself and the supplied existing keys. Keyless contacts are always unique.
// Every kept contact records all of its keys, so a later phone-only contact
// collides with an earlier contact that carried the same phone next to an
// email.
func Dedupe(contacts []Contact, existing ExistingKeys) DedupeResult {
	seenEmails := map[string]struct{}{}
	seenPhones := map[string]struct{}{}

	var result DedupeResult
	for _, c := range contacts {
		key, byEmail, ok := IdentityKey(c)
		if !ok {
			result.Unique = append(result.Unique, c)
			continue
		}
		if isDuplicate(key, byEmail, existing, seenEmails, seenPhones) {
			result.Duplicated = append(result.Duplicated, c)
			continue
		}
		result.Unique = append(result.Unique, c)
		if email := strings.ToLower(strings.TrimSpace(c.Email)); email != "" {
			seenEmails[email] = struct{}{}
		}
		if _, digits := NormalizePhone(c.Phone); digits != "" {
			seenPhones[digits] = struct{}{}
		}
	}
	return result
}

func isDuplicate(key string, byEmail bool, existing ExistingKeys, seenEmails, seenPhones map[string]struct{}) bool {
	if byEmail {
		if _, dup := seenEmails[key]; dup {
			return true
		}
		_, dup := existing.Emails[key]
		return dup
	}
	if _, dup := seenPhones[key]; dup {
		return true
	}
	_, dup := existing.Phones[key]
	return dup
}
