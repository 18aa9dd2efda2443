package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	DefaultLeadName     = "Unknown Lead"
	DefaultLeadPhone    = "No phone"
	DefaultPropertyType = "General"
	DefaultLeadMessage  = "No message generated"
)

type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

func TierForScore(score float64) Tier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 60:
		return TierMedium
	default:
		return TierLow
	}
}

// LeadMatch is one ranked lead returned by the matching workflow.
// Fields the workflow omits stay empty here; Display fills in defaults.
type LeadMatch struct {
	Name                string  `json:"name"`
	Phone               string  `json:"phone"`
	PropertyType        string  `json:"propertyType"`
	RelevanceScore      float64 `json:"relevanceScore"`
	PersonalizedMessage string  `json:"personalizedMessage"`
}

// UnmarshalJSON accepts numbers where strings are expected and the other way
// around, since the workflow output is LLM generated.
func (m *LeadMatch) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name                flexString `json:"name"`
		Phone               flexString `json:"phone"`
		PropertyType        flexString `json:"propertyType"`
		RelevanceScore      FlexNumber `json:"relevanceScore"`
		PersonalizedMessage flexString `json:"personalizedMessage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = LeadMatch{
		Name:                string(raw.Name),
		Phone:               string(raw.Phone),
		PropertyType:        string(raw.PropertyType),
		RelevanceScore:      float64(raw.RelevanceScore),
		PersonalizedMessage: string(raw.PersonalizedMessage),
	}
	return nil
}

type LeadMatchView struct {
	Index               int     `json:"index"`
	Name                string  `json:"name"`
	Phone               string  `json:"phone"`
	PropertyType        string  `json:"propertyType"`
	RelevanceScore      float64 `json:"relevanceScore"`
	Tier                Tier    `json:"tier"`
	PersonalizedMessage string  `json:"personalizedMessage"`
}

func (m LeadMatch) Display(index int) LeadMatchView {
	return LeadMatchView{
		Index:               index,
		Name:                orDefault(m.Name, DefaultLeadName),
		Phone:               orDefault(m.Phone, DefaultLeadPhone),
		PropertyType:        orDefault(m.PropertyType, DefaultPropertyType),
		RelevanceScore:      m.RelevanceScore,
		Tier:                TierForScore(m.RelevanceScore),
		PersonalizedMessage: orDefault(m.PersonalizedMessage, DefaultLeadMessage),
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = flexString(num.String())
		return nil
	}
	// objects, arrays and booleans degrade to empty
	return nil
}

// FlexNumber decodes a JSON number or a numeric string. Anything else
// leaves it at zero.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = FlexNumber(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			*n = FlexNumber(f)
		}
	}
	return nil
}
