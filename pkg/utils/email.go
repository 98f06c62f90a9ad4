package utils

import "strings"

// DeriveEmail normalizes email, falling back to username@local. A domain
// without a dot gets ".local" appended so the address stays well formed.
func DeriveEmail(username, email string) string {
	mail := strings.TrimSpace(email)
	if mail == "" {
		mail = strings.TrimSpace(username) + "@local"
	}
	mail = strings.ToLower(mail)

	at := strings.LastIndex(mail, "@")
	if at < 0 {
		return mail + "@local.local"
	}
	if domain := mail[at+1:]; !strings.Contains(domain, ".") {
		mail += ".local"
	}
	return mail
}
