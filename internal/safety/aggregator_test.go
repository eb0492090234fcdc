package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateDeduplicatesIdenticalMessages(t *testing.T) {
	eval := NewEvaluator(nil)
	profile := Profile{
		Name: "Alice",
		Conditions: []HealthCondition{
			{ID: "c1", Type: ConditionAllergy, Subtype: "peanuts", Label: "Peanut Allergy"},
		},
	}
	peanutButter := Product{Allergens: []string{"en:peanuts"}}
	peanutBar := Product{Allergens: []string{"en:peanuts", "en:milk"}}

	messages := eval.Aggregate([]Product{peanutButter, peanutBar}, profile)

	assert.Equal(t, []string{"You (Alice): Peanut Allergy - Contains peanuts"}, messages)
}

func TestAggregateKeepsDistinctMessages(t *testing.T) {
	eval := NewEvaluator(nil)
	profile := Profile{
		Name: "Alice",
		Conditions: []HealthCondition{
			{ID: "c1", Type: ConditionDiabetes, Label: "Type 2 Diabetes"},
		},
	}
	soda := Product{Nutrients: map[string]float64{"sugars_100g": 11}}
	candy := Product{Nutrients: map[string]float64{"sugars_100g": 56}}

	messages := eval.Aggregate([]Product{soda, candy}, profile)

	// Different measured values render differently and are both kept.
	assert.Equal(t, []string{
		"You (Alice): Type 2 Diabetes - Elevated sugar content (11g/100g)",
		"You (Alice): Type 2 Diabetes - High sugar content (56g/100g)",
	}, messages)
}

func TestAggregateEmptyInputs(t *testing.T) {
	eval := NewEvaluator(nil)
	profile := Profile{Name: "Alice"}

	assert.Empty(t, eval.Aggregate(nil, profile))
	assert.Empty(t, eval.Aggregate([]Product{{}, {}}, profile))
}

func TestAggregatePreservesFirstOccurrenceOrder(t *testing.T) {
	eval := NewEvaluator(nil)
	profile := Profile{
		Name: "Alice",
		Conditions: []HealthCondition{
			{ID: "c1", Type: ConditionDiabetes, Label: "Type 2 Diabetes"},
			{ID: "c2", Type: ConditionAllergy, Subtype: "milk", Label: "Milk Allergy"},
		},
	}
	first := Product{
		Nutrients: map[string]float64{"sugars_100g": 20},
		Allergens: []string{"en:milk"},
	}
	second := Product{Allergens: []string{"en:milk"}}

	messages := eval.Aggregate([]Product{first, second}, profile)

	assert.Equal(t, []string{
		"You (Alice): Type 2 Diabetes - High sugar content (20g/100g)",
		"You (Alice): Milk Allergy - Contains milk",
	}, messages)
}
