package corpus

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/ajitpratap0/kotoba/internal/models"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("entity", func(fl validator.FieldLevel) bool {
		return models.EntityType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("verbsemantic", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.VerbSemantics, fl.Field().String())
	})
	_ = v.RegisterValidation("domain", func(fl validator.FieldLevel) bool {
		return models.SemanticDomain(fl.Field().String()).IsValid()
	})
	return v
}

// validateRule checks the constraints struct tags cannot express: every
// entity slot lists at least one type and every dependency names an entity
// slot of the same rule.
func validateRule(v *validator.Validate, rule models.GrammarRule) error {
	if err := v.Struct(rule); err != nil {
		return err
	}
	seen := make(map[string]bool, len(rule.Slots))
	for _, slot := range rule.Slots {
		if seen[slot.Name] {
			return fmt.Errorf("slot %q declared twice", slot.Name)
		}
		seen[slot.Name] = true

		if slot.Dependency == nil {
			if len(slot.Entities) == 0 {
				return fmt.Errorf("slot %q lists no entity types", slot.Name)
			}
			continue
		}
		if err := v.Struct(slot.Dependency); err != nil {
			return fmt.Errorf("slot %q: %w", slot.Name, err)
		}
		target, ok := rule.Slot(slot.Dependency.DependsOn)
		if !ok {
			return fmt.Errorf("slot %q depends on unknown slot %q", slot.Name, slot.Dependency.DependsOn)
		}
		if target.IsDependent() {
			return fmt.Errorf("slot %q depends on dependency slot %q", slot.Name, target.Name)
		}
	}
	return nil
}
