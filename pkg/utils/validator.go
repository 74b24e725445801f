package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail trims the address and lowercases its domain. Display-name
// forms such as "Jane <jane@example.com>" and bare names are rejected.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !emailRegex.MatchString(email) {
		return "", fmt.Errorf("invalid email format: %q", email)
	}
	local, domain, _ := strings.Cut(email, "@")
	if strings.Contains(domain, "..") || strings.HasPrefix(domain, ".") {
		return "", fmt.Errorf("invalid email domain: %q", domain)
	}
	return local + "@" + strings.ToLower(domain), nil
}
