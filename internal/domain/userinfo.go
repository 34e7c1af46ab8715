package domain

import (
	"regexp"
	"strings"
)

// UserInfo holds the personal details pulled out of an uploaded resume.
// Every field is best-effort and may be empty. The record is rebuilt
// wholesale on each upload and lives for the process lifetime.
type UserInfo struct {
	Name  string
	Email string
	Phone string
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9_.+-]+@[A-Za-z0-9-]+\.[A-Za-z0-9-.]+`)
	// Optional leading +, then digits with interior hyphens/spaces,
	// at least 10 characters in total.
	phonePattern = regexp.MustCompile(`\+?\d[\d \-]{8,}\d`)
)

// ExtractUserInfo scans raw document text for a name, email and phone number.
// The name is just the first non-empty line of the document, which works for
// the common resume layout but is a heuristic, not a validated parse.
func ExtractUserInfo(text string) UserInfo {
	var info UserInfo

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			info.Name = trimmed
			break
		}
	}

	info.Email = emailPattern.FindString(text)
	info.Phone = phonePattern.FindString(text)

	return info
}

// IsEmpty reports whether no field was extracted.
func (u UserInfo) IsEmpty() bool {
	return u.Name == "" && u.Email == "" && u.Phone == ""
}
