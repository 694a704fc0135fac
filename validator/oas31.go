package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/issues"
	"github.com/erraggy/oascompose/internal/maputil"
)

// documentURL is the base URL the document is registered under, so that
// local references such as "#/components/schemas/User" resolve within it.
const documentURL = "https://oascompose.invalid/openapi.json"

// schemaSite is a schema location inside the document.
type schemaSite struct {
	pointer string
	value   map[string]any
}

// validate31 compiles every schema of the document with the JSON Schema
// 2020-12 compiler and checks component examples against their schemas.
func (v *Validator) validate31(ctx context.Context, raw map[string]any, jsonData []byte, result *ValidationResult) error {
	checkRequired31(raw, result)

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("validator: decode document: %w", err)
	}
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	if err := c.AddResource(documentURL, doc); err != nil {
		return fmt.Errorf("validator: register document: %w", err)
	}

	for _, site := range schemaSites(raw) {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.SchemaCount++
		sch, err := c.Compile(documentURL + "#" + site.pointer)
		if err != nil {
			result.add(ValidationError{
				Path:     issues.PointerToPath(site.pointer),
				Message:  compileMessage(err),
				Severity: SeverityError,
				Checker:  checkerJSONSchema,
			})
			continue
		}
		checkExamples(sch, site, result)
	}
	checkOperationIDs(raw, result)
	checkResponseRefs(raw, result)
	return nil
}

// toInstance converts a decoded YAML value into the JSON value model the
// schema validator expects.
func toInstance(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

func compileMessage(err error) string {
	var verr *jsonschema.SchemaValidationError
	if errors.As(err, &verr) {
		return "schema does not conform to JSON Schema 2020-12: " + verr.Err.Error()
	}
	return err.Error()
}

// checkExamples validates "example" and "examples" values against the
// compiled schema. Mismatches are warnings.
func checkExamples(sch *jsonschema.Schema, site schemaSite, result *ValidationResult) {
	var values []any
	if ex, ok := site.value["example"]; ok {
		values = append(values, ex)
	}
	if list, ok := site.value["examples"].([]any); ok {
		values = append(values, list...)
	}
	for _, ex := range values {
		inst, err := toInstance(ex)
		if err != nil {
			continue
		}
		if err := sch.Validate(inst); err != nil {
			result.add(ValidationError{
				Path:     issues.PointerToPath(site.pointer),
				Message:  "example does not match schema: " + err.Error(),
				Severity: SeverityWarning,
				Checker:  checkerJSONSchema,
			})
		}
	}
}

// schemaSites lists every schema position of an OpenAPI 3.1 document in a
// deterministic order: component schemas, component responses, then
// parameter, request body, response and header schemas of each operation.
func schemaSites(raw map[string]any) []schemaSite {
	var sites []schemaSite
	add := func(pointer string, v any) {
		if m, ok := v.(map[string]any); ok {
			sites = append(sites, schemaSite{pointer: pointer, value: m})
		}
	}

	components, _ := raw["components"].(map[string]any)
	schemas, _ := components["schemas"].(map[string]any)
	for _, name := range maputil.SortedKeys(schemas) {
		add("/components/schemas/"+issues.EscapePointerToken(name), schemas[name])
	}
	responses, _ := components["responses"].(map[string]any)
	for _, name := range maputil.SortedKeys(responses) {
		responseSites("/components/responses/"+issues.EscapePointerToken(name), responses[name], add)
	}

	paths, _ := raw["paths"].(map[string]any)
	for _, path := range maputil.SortedKeys(paths) {
		item, _ := paths[path].(map[string]any)
		base := "/paths/" + issues.EscapePointerToken(path)
		parameterSites(base, item["parameters"], add)
		for _, method := range document.Methods() {
			op, ok := item[method.Lower()].(map[string]any)
			if !ok {
				continue
			}
			opBase := base + "/" + method.Lower()
			parameterSites(opBase, op["parameters"], add)
			if body, ok := op["requestBody"].(map[string]any); ok {
				contentSites(opBase+"/requestBody", body["content"], add)
			}
			responses, _ := op["responses"].(map[string]any)
			for _, code := range maputil.StatusCodes(responses) {
				responseSites(opBase+"/responses/"+issues.EscapePointerToken(code), responses[code], add)
			}
		}
	}
	return sites
}

// responseSites adds the content and header schemas of one response. A
// $ref response has neither and adds nothing.
func responseSites(base string, v any, add func(string, any)) {
	resp, _ := v.(map[string]any)
	contentSites(base, resp["content"], add)
	headers, _ := resp["headers"].(map[string]any)
	for _, name := range maputil.SortedKeys(headers) {
		h, _ := headers[name].(map[string]any)
		add(base+"/headers/"+issues.EscapePointerToken(name)+"/schema", h["schema"])
	}
}

func parameterSites(base string, v any, add func(string, any)) {
	params, _ := v.([]any)
	for i, p := range params {
		if m, ok := p.(map[string]any); ok {
			add(fmt.Sprintf("%s/parameters/%d/schema", base, i), m["schema"])
		}
	}
}

func contentSites(base string, v any, add func(string, any)) {
	content, _ := v.(map[string]any)
	for _, ct := range maputil.SortedKeys(content) {
		mt, _ := content[ct].(map[string]any)
		add(base+"/content/"+issues.EscapePointerToken(ct)+"/schema", mt["schema"])
	}
}

