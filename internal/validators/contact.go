package validators

import (
	"net"
	"strings"
)

// SplitContact sorts a single free-form contact field into email or phone.
// Walk-in kiosks collect one field; anything containing "@" is an email,
// the rest is taken as a phone number.
func SplitContact(contact string) (email string, phone string) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return "", ""
	}
	if strings.Contains(contact, "@") {
		return strings.ToLower(contact), ""
	}
	return "", contact
}

func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
