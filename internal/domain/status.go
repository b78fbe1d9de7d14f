package domain

import "strings"

// SectionType identifies how a layout section is rendered.
type SectionType string

const (
	// SectionHero is the leading banner of every generated site
	SectionHero SectionType = "hero"
	// SectionAbout introduces the brand
	SectionAbout SectionType = "about"
	// SectionServices renders a grid of offerings
	SectionServices SectionType = "services"
	// SectionContact closes every generated site
	SectionContact SectionType = "contact"
	// SectionCustom carries free-form narrative content
	SectionCustom SectionType = "custom"
)

// Valid reports whether the section type belongs to the closed set.
func (t SectionType) Valid() bool {
	switch t {
	case SectionHero, SectionAbout, SectionServices, SectionContact, SectionCustom:
		return true
	default:
		return false
	}
}

// NormalizeSectionType coerces user supplied strings, defaulting to custom.
func NormalizeSectionType(input string) SectionType {
	t := SectionType(strings.ToLower(strings.TrimSpace(input)))
	if t.Valid() {
		return t
	}
	return SectionCustom
}

// StepType tags a wizard step.
type StepType string

const (
	StepBrandName StepType = "brand-name"
	StepIndustry  StepType = "industry"
	StepLogo      StepType = "logo"
	StepOther     StepType = "other"
)

// NormalizeStepType maps unknown step types onto StepOther.
func NormalizeStepType(input string) StepType {
	switch t := StepType(strings.ToLower(strings.TrimSpace(input))); t {
	case StepBrandName, StepIndustry, StepLogo:
		return t
	default:
		return StepOther
	}
}
