package ingredient

import (
	"fmt"
	"strings"
)

// DefaultRatingFloor is the health rating below which an ingredient is risky
// for everyone.
const DefaultRatingFloor = 5

// Profile fields a ConditionRule can inspect.
type Field string

const (
	FieldSkinConditions     Field = "skinConditions"
	FieldDietaryPreferences Field = "dietaryPreferences"
)

// Finding codes.
const (
	FindingAllergy         = "allergy"
	FindingSensitiveSkin   = "sensitive_skin"
	FindingEczema          = "eczema"
	FindingLowHealthRating = "low_health_rating"
)

// ConditionRule flags an ingredient when the profile field holds Value and
// the ingredient carries at least one of AnyRiskFactor.
type ConditionRule struct {
	Code          string
	Field         Field
	Value         string
	AnyRiskFactor []string
}

// Finding explains why an ingredient was flagged.
type Finding struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Policy decides whether an ingredient is risky for a profile. Allergies
// and the rating floor are always checked; Rules add profile-dependent
// checks on top.
type Policy struct {
	Rules       []ConditionRule
	RatingFloor int
}

// DefaultPolicy returns the production rule set.
func DefaultPolicy() Policy {
	return Policy{
		Rules: []ConditionRule{
			{
				Code:          FindingSensitiveSkin,
				Field:         FieldSkinConditions,
				Value:         "Sensitive Skin",
				AnyRiskFactor: []string{"skin irritation"},
			},
			{
				Code:          FindingEczema,
				Field:         FieldSkinConditions,
				Value:         "Eczema",
				AnyRiskFactor: []string{"skin irritation", "allergic reactions"},
			},
		},
		RatingFloor: DefaultRatingFloor,
	}
}

// Assess lists every check that flags rec for profile, in a fixed order:
// allergies, condition rules, then the rating floor.
func (p Policy) Assess(rec Record, profile Profile) []Finding {
	findings := make([]Finding, 0)

	if term, ok := matchAllergy(rec, profile.Allergies); ok {
		findings = append(findings, Finding{
			Code:   FindingAllergy,
			Detail: fmt.Sprintf("matches your allergy to %q", term),
		})
	}

	for _, rule := range p.Rules {
		factor, ok := rule.applies(rec, profile)
		if !ok {
			continue
		}
		findings = append(findings, Finding{
			Code:   rule.Code,
			Detail: fmt.Sprintf("%s with %s", factor, rule.Value),
		})
	}

	if rec.HealthRating < p.RatingFloor {
		findings = append(findings, Finding{
			Code:   FindingLowHealthRating,
			Detail: fmt.Sprintf("health rating %d/10 is below %d", rec.HealthRating, p.RatingFloor),
		})
	}
	return findings
}

// IsRisky reports whether any check flags rec for profile.
func (p Policy) IsRisky(rec Record, profile Profile) bool {
	return len(p.Assess(rec, profile)) > 0
}

// Annotate evaluates every record against profile, keeping record order.
func (p Policy) Annotate(records []Record, profile Profile) []Analyzed {
	analyzed := make([]Analyzed, 0, len(records))
	for _, rec := range records {
		findings := p.Assess(rec, profile)
		analyzed = append(analyzed, Analyzed{
			Record:   rec,
			IsRisky:  len(findings) > 0,
			Findings: findings,
		})
	}
	return analyzed
}

// Unscreened lists the profile's skin conditions that no rule checks for,
// in profile order. Ingredients are still checked against allergies and the
// rating floor for these users.
func (p Policy) Unscreened(profile Profile) []string {
	unscreened := make([]string, 0)
	for _, condition := range profile.SkinConditions {
		screened := false
		for _, rule := range p.Rules {
			if rule.Field == FieldSkinConditions && strings.EqualFold(strings.TrimSpace(rule.Value), strings.TrimSpace(condition)) {
				screened = true
				break
			}
		}
		if !screened {
			unscreened = append(unscreened, condition)
		}
	}
	return unscreened
}

func (r ConditionRule) applies(rec Record, profile Profile) (string, bool) {
	var values []string
	switch r.Field {
	case FieldSkinConditions:
		values = profile.SkinConditions
	case FieldDietaryPreferences:
		values = profile.DietaryPreferences
	default:
		return "", false
	}
	if !containsFold(values, r.Value) {
		return "", false
	}
	for _, factor := range r.AnyRiskFactor {
		if containsFold(rec.RiskFactors, factor) {
			return factor, true
		}
	}
	return "", false
}

func matchAllergy(rec Record, allergies []string) (string, bool) {
	names := make([]string, 0, len(rec.Aliases)+1)
	names = append(names, strings.ToLower(rec.CanonicalName))
	for _, alias := range rec.Aliases {
		names = append(names, strings.ToLower(alias))
	}
	for _, allergy := range allergies {
		term := strings.ToLower(strings.TrimSpace(allergy))
		if term == "" {
			continue
		}
		for _, name := range names {
			if strings.Contains(name, term) {
				return strings.TrimSpace(allergy), true
			}
		}
	}
	return "", false
}

func containsFold(values []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), want) {
			return true
		}
	}
	return false
}
