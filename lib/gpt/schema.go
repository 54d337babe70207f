package gpthandler

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

const questionsSchemaJSON = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 8,
      "maxItems": 12,
      "items": {"type": "string", "pattern": "\\S"}
    }
  }
}`

const analysisSchemaJSON = `{
  "type": "object",
  "required": ["summary", "skills", "fit", "recommendation"],
  "properties": {
    "summary": {"type": "string", "pattern": "\\S"},
    "skills": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 1, "maximum": 10}
    },
    "fit": {"type": "integer", "minimum": 1, "maximum": 10},
    "recommendation": {"type": "string", "pattern": "\\S"}
  }
}`

var (
	questionsSchema = mustSchema(questionsSchemaJSON)
	analysisSchema  = mustSchema(analysisSchemaJSON)
)

func mustSchema(schema string) *gojsonschema.Schema {
	result, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(errors.Wrap(err, "ошибка загрузки json схемы ответа ИИ"))
	}
	return result
}

// decodeJSONObject разбирает ответ модели: один JSON-объект, соответствующий схеме
func decodeJSONObject(answer string, schema *gojsonschema.Schema, out interface{}) *ModelError {
	content := cleanJSONBlock(answer)
	if content == "" {
		return newModelError(ModelErrorEmptyResponse, nil, "ИИ вернул пустой ответ")
	}
	if !json.Valid([]byte(content)) {
		return newModelError(ModelErrorMalformedJSON, nil, "ответ ИИ не является корректным json")
	}
	if !strings.HasPrefix(content, "{") {
		return newModelError(ModelErrorMalformedJSON, nil, "ответ ИИ не является json-объектом")
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(content))
	if err != nil {
		return newModelError(ModelErrorMalformedJSON, err, "ошибка разбора ответа ИИ")
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return newModelError(ModelErrorSchemaMismatch, errors.New(strings.Join(details, "; ")), "ответ ИИ не соответствует схеме")
	}
	decoder := json.NewDecoder(bytes.NewReader([]byte(content)))
	if err = decoder.Decode(out); err != nil {
		return newModelError(ModelErrorSchemaMismatch, err, "ошибка декодирования ответа ИИ")
	}
	return nil
}

// cleanJSONBlock убирает рассуждения модели и обертку markdown вокруг json
func cleanJSONBlock(answer string) string {
	if parts := strings.Split(answer, "</think>"); len(parts) > 1 {
		answer = parts[len(parts)-1]
	}
	answer = strings.TrimSpace(answer)
	answer = strings.TrimPrefix(answer, "```json")
	answer = strings.TrimPrefix(answer, "```")
	answer = strings.TrimSuffix(answer, "```")
	return strings.TrimSpace(answer)
}
