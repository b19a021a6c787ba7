package models

import "strings"

const ProfileKey = "profile"

type Profile struct {
	Nickname string `json:"nickname" yaml:"nickname"`
	Phone    string `json:"phone" yaml:"phone"`
}

// OperatorName is the display name stamped on new records.
func (p Profile) OperatorName() string {
	if name := strings.TrimSpace(p.Nickname); name != "" {
		return name
	}
	return OperatorPlaceholder
}
