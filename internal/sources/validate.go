package sources

import (
	"strings"

	stderrors "storescout/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// validatePayload checks an upstream body against the source's JSON schema.
// A schema mismatch is a permanent error: retrying will not fix a provider
// that changed its contract.
func validatePayload(source string, schema map[string]interface{}, body []byte) error {
	if schema == nil {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return stderrors.NewSourceBadPayloadError(source, err)
	}

	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return stderrors.NewSourceSchemaInvalidError(source, strings.Join(details, "; "))
	}

	return nil
}
