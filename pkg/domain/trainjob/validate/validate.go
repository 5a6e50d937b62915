// Package validate gates training-job configurations before submission.
//
// Validation is a pure function over a flat parameter mapping and an
// explicit model catalog. It reports the first rule violated as a single
// human-readable message and never aggregates errors.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/weftml/weft/pkg/domain"
)

// Error is one rule violation. Its text is the user-facing verdict and is
// part of the API contract, so it is never rephrased or wrapped.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrModelTypeRequired    Error = "Model type is required"
	ErrModelVariantRequired Error = "Model variant is required"

	// one coarse message for every numeric coercion failure. Which field
	// failed is deliberately not reported, for contract compatibility.
	ErrInvalidNumeric Error = "Invalid numeric parameter values"

	ErrEpochsRange          Error = "Epochs must be a positive integer"
	ErrBatchSizeRange       Error = "Batch size must be a positive integer"
	ErrLearningRateRange    Error = "Learning rate must be a positive number"
	ErrValidationSplitRange Error = "Validation split must be between 0 and 1"
)

func errUnsupportedType(modelType any) Error {
	return Error(fmt.Sprintf("Unsupported model type: %v", modelType))
}

func errUnsupportedVariant(variant any, modelType any) Error {
	return Error(fmt.Sprintf("Unsupported model variant: %v for %v", variant, modelType))
}

// Validate checks params against catalog.
//
// Checks run in a fixed order and the first failure wins:
//
//  1. model_type is present and non-empty
//  2. model_type is one of catalog's supported types
//  3. model_variant is present and non-empty
//  4. when the catalog lists variants for the type, model_variant is
//     among them (a type without a variant list accepts any variant)
//  5. epochs, batch_size, learning_rate, validation_split each coerce to
//     a number and lie in range, field by field in that order
//
// Missing numeric fields coerce to zero and fail their range check rather
// than the coercion check. Returns nil when every check passes.
func Validate(params map[string]any, catalog domain.ModelCatalog) error {
	modelType := stringValue(params["model_type"])
	if modelType == "" {
		return ErrModelTypeRequired
	}
	if !catalog.HasType(modelType) {
		return errUnsupportedType(params["model_type"])
	}

	variant := stringValue(params["model_variant"])
	if variant == "" {
		return ErrModelVariantRequired
	}
	if _, catalogued := catalog.VariantsOf(modelType); catalogued && !catalog.HasVariant(modelType, variant) {
		return errUnsupportedVariant(params["model_variant"], params["model_type"])
	}

	epochs, ok := intValue(valueOrZero(params, "epochs"))
	if !ok {
		return ErrInvalidNumeric
	}
	if epochs <= 0 {
		return ErrEpochsRange
	}

	batchSize, ok := intValue(valueOrZero(params, "batch_size"))
	if !ok {
		return ErrInvalidNumeric
	}
	if batchSize <= 0 {
		return ErrBatchSizeRange
	}

	learningRate, ok := floatValue(valueOrZero(params, "learning_rate"))
	if !ok {
		return ErrInvalidNumeric
	}
	if learningRate <= 0 {
		return ErrLearningRateRange
	}

	validationSplit, ok := floatValue(valueOrZero(params, "validation_split"))
	if !ok {
		return ErrInvalidNumeric
	}
	if validationSplit <= 0 || 1 <= validationSplit {
		return ErrValidationSplitRange
	}

	return nil
}

func valueOrZero(params map[string]any, key string) any {
	if v, ok := params[key]; ok {
		return v
	}
	return 0
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

// intValue coerces like a strict number parser: integer kinds pass,
// floats are truncated, strings must spell an integer. Everything else,
// booleans included, fails.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	default:
		return 0, false
	}
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
