package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	fluxionerrors "github.com/fluxionhq/fluxion/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	stepKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("step_key", func(fl validator.FieldLevel) bool {
			return stepKeyPattern.MatchString(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

// Validate runs struct-tag validation on a PipelineDefinition and rejects
// duplicate step keys. This catches shape errors (missing fields, malformed
// keys) with field-level messages; it never attempts dangling-reference
// detection, which corepipeline.NewPipeline performs once the definition is
// converted into a graph.
func Validate(def *PipelineDefinition) error {
	if def == nil {
		return fluxionerrors.NewValidationError("pipeline", "definition is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(def); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(def.Steps))
	for i, step := range def.Steps {
		if prev, dup := seen[step.Key]; dup {
			return fluxionerrors.NewValidationError(
				fieldForStep(i, "key"),
				fmt.Sprintf("duplicate step key %q (also used at steps[%d])", step.Key, prev),
				nil,
			)
		}
		seen[step.Key] = i
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		fe := ves[0]
		field := lowerFieldPath(fe)
		msg := fmt.Sprintf("%s failed validation for tag %q", field, fe.Tag())
		return fluxionerrors.NewValidationError(field, msg, err)
	}

	return fluxionerrors.NewValidationError("pipeline", err.Error(), err)
}

func lowerFieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	lowered := make([]string, 0, len(parts))
	for _, part := range parts[1:] {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForStep(index int, field string) string {
	return fmt.Sprintf("steps[%d].%s", index, field)
}
