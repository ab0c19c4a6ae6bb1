package server

import (
	"strings"

	"github.com/bjarke-xyz/benefit-gateway/internal/domain"
	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
)

// The shape rules the intake form enforces client-side, enforced again here.
const createApplicationSchemaJSON = `{
	"type": "object",
	"required": ["first_name", "last_name", "date_of_birth", "ssn_last4", "address"],
	"properties": {
		"first_name": {"type": "string", "minLength": 1},
		"last_name": {"type": "string", "minLength": 1},
		"date_of_birth": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
		"ssn_last4": {"type": "string", "pattern": "^[0-9]{4}$"},
		"income": {"type": "number", "minimum": 0},
		"household_size": {"type": "integer", "minimum": 1, "maximum": 8},
		"address": {"type": "string", "minLength": 1},
		"is_enrolled_in_program": {"type": "boolean"},
		"program_name": {"type": "string"}
	}
}`

// The prediction features cannot be derived without income and household
// size, so both are required here with the same bounds as the intake shape.
const predictSchemaJSON = `{
	"type": "object",
	"required": ["date_of_birth", "income", "household_size"],
	"properties": {
		"date_of_birth": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
		"income": {"type": "number", "minimum": 0},
		"household_size": {"type": "integer", "minimum": 1, "maximum": 8},
		"is_enrolled_in_program": {"type": "boolean"},
		"program_name": {"type": "string"}
	}
}`

var (
	createApplicationSchema = gojsonschema.NewStringLoader(createApplicationSchemaJSON)
	predictSchema           = gojsonschema.NewStringLoader(predictSchemaJSON)
)

func validatePayload(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &domain.ValidationError{Field: "body", Message: "invalid JSON payload"}
	}
	if !result.Valid() {
		messages := lo.Map(result.Errors(), func(e gojsonschema.ResultError, _ int) string {
			return e.String()
		})
		return &domain.ValidationError{Field: "body", Message: strings.Join(messages, "; ")}
	}
	return nil
}

func validateCreatePayload(body []byte) error {
	return validatePayload(createApplicationSchema, body)
}

func validatePredictPayload(body []byte) error {
	return validatePayload(predictSchema, body)
}
