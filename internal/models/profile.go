package models

import (
	"fmt"
	"strings"
)

// Profile is the set of facts the assistant gathers about the user
type Profile struct {
	FullName          string `json:"fullName,omitempty"`
	ProfessionalTitle string `json:"professionalTitle,omitempty"`
	Skills            string `json:"skills,omitempty"`
	LastRole          string `json:"lastRole,omitempty"`
	Education         string `json:"education,omitempty"`
}

// IsEmpty reports whether no field has been filled
func (p Profile) IsEmpty() bool {
	return p == Profile{}
}

// IsComplete reports whether every field has a value
func (p Profile) IsComplete() bool {
	return len(p.Missing()) == 0
}

// Missing returns the JSON names of the fields still empty, in asking order
func (p Profile) Missing() []string {
	var missing []string
	for _, f := range p.fields() {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Merge overlays the non-empty fields of other onto p
func (p Profile) Merge(other Profile) Profile {
	if v := strings.TrimSpace(other.FullName); v != "" {
		p.FullName = v
	}
	if v := strings.TrimSpace(other.ProfessionalTitle); v != "" {
		p.ProfessionalTitle = v
	}
	if v := strings.TrimSpace(other.Skills); v != "" {
		p.Skills = v
	}
	if v := strings.TrimSpace(other.LastRole); v != "" {
		p.LastRole = v
	}
	if v := strings.TrimSpace(other.Education); v != "" {
		p.Education = v
	}
	return p
}

// Summary renders the profile as the block embedded in generation prompts
func (p Profile) Summary() string {
	return fmt.Sprintf("USER PROFILE:\nFull Name: %s\nProfessional Title: %s\nSkills: %s\nLast Role: %s\nEducation: %s",
		p.FullName, p.ProfessionalTitle, p.Skills, p.LastRole, p.Education)
}

type profileField struct {
	name  string
	value string
}

func (p Profile) fields() []profileField {
	return []profileField{
		{"fullName", p.FullName},
		{"professionalTitle", p.ProfessionalTitle},
		{"skills", p.Skills},
		{"lastRole", p.LastRole},
		{"education", p.Education},
	}
}

// ProfileFieldNames lists the profile fields in the order the assistant asks for them
func ProfileFieldNames() []string {
	return Profile{}.Missing()
}
