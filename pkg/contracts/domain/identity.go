package domain

import "strconv"

// Identity is the user record handed over by the hosting platform.
// It is used for filtering only and is never validated here.
type Identity struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// StudentID returns the identifier used in the grade sheets
func (i Identity) StudentID() string {
	return strconv.FormatInt(i.ID, 10)
}

// DisplayName returns the best available human readable name
func (i Identity) DisplayName() string {
	switch {
	case i.FirstName != "" && i.LastName != "":
		return i.FirstName + " " + i.LastName
	case i.FirstName != "":
		return i.FirstName
	case i.Username != "":
		return i.Username
	default:
		return i.StudentID()
	}
}
