package safety

import (
	"fmt"
	"strconv"
	"strings"
)

// ConditionSeverity is the informational mild/moderate/severe grade on
// a condition record. It does not participate in threshold logic.
type ConditionSeverity string

const (
	ConditionMild     ConditionSeverity = "mild"
	ConditionModerate ConditionSeverity = "moderate"
	ConditionSevere   ConditionSeverity = "severe"
)

// HealthCondition is one health constraint attached to a person.
// Allergy conditions carry the allergen name in Subtype; without it
// they can never trigger.
type HealthCondition struct {
	ID       string
	Type     ConditionType
	Subtype  string
	Severity ConditionSeverity
	Label    string
}

// FamilyMember is a household member attached to a profile. Members
// with IncludeInRecommendations false are skipped entirely during
// evaluation.
type FamilyMember struct {
	Name                     string
	Relationship             string
	Conditions               []HealthCondition
	IncludeInRecommendations bool
}

// Profile is the normalized health profile an evaluation runs against:
// the primary person plus their family members, in saved order.
type Profile struct {
	Name          string
	Conditions    []HealthCondition
	FamilyMembers []FamilyMember
}

// Product is the normalized nutritional view of one product. Nutrients
// map per-100g keys like "sugars_100g" to measured values; a missing
// key means the value is unknown, which is distinct from zero.
// Allergen tags may carry a language prefix ("en:peanuts"); the
// evaluator strips it before matching.
type Product struct {
	Nutrients map[string]float64
	Allergens []string
	Quantity  string
}

// Warning is one safety message attributable to exactly one
// (person, condition) pair.
type Warning struct {
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	Person      string   `json:"person"`
	ConditionID string   `json:"condition_id"`
}

// Evaluator produces warnings for a product against a profile. It is
// stateless apart from its rule registry and safe for concurrent use.
type Evaluator struct {
	registry *Registry
}

// NewEvaluator creates an evaluator over the given registry. A nil
// registry means DefaultRegistry.
func NewEvaluator(registry *Registry) *Evaluator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Evaluator{registry: registry}
}

// Evaluate checks one product against every person in the profile's
// roster and returns the warnings in traversal order: the primary
// person first, then family members with IncludeInRecommendations set,
// each person's conditions in input order. Identical inputs always
// produce the identical ordered list; inputs are never mutated.
func (e *Evaluator) Evaluate(product Product, profile Profile) []Warning {
	allergens := normalizeAllergens(product.Allergens)

	warnings := e.checkPerson(nil, primaryDisplayName(profile.Name), profile.Conditions, product, allergens)
	for _, member := range profile.FamilyMembers {
		if !member.IncludeInRecommendations {
			continue
		}
		warnings = e.checkPerson(warnings, memberDisplayName(member), member.Conditions, product, allergens)
	}
	return warnings
}

func primaryDisplayName(name string) string {
	return fmt.Sprintf("You (%s)", name)
}

func memberDisplayName(m FamilyMember) string {
	if m.Relationship == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Relationship)
}

// checkPerson evaluates one person's conditions against the product.
// Each (person, condition) check is independent: a condition the
// registry does not know, or a nutrient the product does not declare,
// contributes nothing and never aborts the rest of the pass.
func (e *Evaluator) checkPerson(dst []Warning, who string, conditions []HealthCondition, product Product, allergens map[string]struct{}) []Warning {
	for _, cond := range conditions {
		if cond.Type == ConditionAllergy {
			subtype := strings.ToLower(strings.TrimSpace(cond.Subtype))
			if subtype == "" {
				continue
			}
			if _, found := allergens[subtype]; !found {
				continue
			}
			dst = append(dst, Warning{
				Message:     fmt.Sprintf("%s: %s - Contains %s", who, cond.Label, cond.Subtype),
				Severity:    SeverityHigh,
				Person:      who,
				ConditionID: cond.ID,
			})
			continue
		}

		rule, ok := e.registry.Rule(cond.Type)
		if !ok {
			continue
		}
		value, present := product.Nutrients[rule.NutrientKey]
		if !present {
			continue
		}

		// Boundary convention: the medium threshold is strict (a value
		// exactly at it does not trigger); the high threshold is
		// inclusive (exactly 1.5x medium is already high).
		var severity Severity
		var adjective string
		switch {
		case value >= rule.HighThreshold():
			severity, adjective = SeverityHigh, "High"
		case value > rule.MediumThreshold:
			severity, adjective = SeverityMedium, "Elevated"
		default:
			continue
		}

		denom := product.Quantity
		if denom == "" {
			denom = "100g"
		}
		dst = append(dst, Warning{
			Message:     fmt.Sprintf("%s: %s - %s %s (%sg/%s)", who, cond.Label, adjective, rule.Focus, formatAmount(value), denom),
			Severity:    severity,
			Person:      who,
			ConditionID: cond.ID,
		})
	}
	return dst
}

// normalizeAllergens lower-cases each tag and strips a leading
// language-code prefix such as "en:". Empty tags are dropped.
func normalizeAllergens(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if i := strings.IndexByte(tag, ':'); i >= 0 {
			tag = tag[i+1:]
		}
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

// formatAmount renders a measured value without trailing zeros, so 18
// prints as "18" and 10.01 as "10.01".
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
