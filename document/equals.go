package document

import (
	"maps"
	"slices"

	"github.com/erraggy/oascompose/internal/equalutil"
)

// This file contains structural equality for the model types.
// Nil and empty collections compare equal; cheaper fields are checked first.

// EqualSchema reports whether two schemas are structurally identical.
//
//nolint:cyclop // Schema has many fields that must be compared
func EqualSchema(a, b *Schema) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Nullable != b.Nullable || a.Deprecated != b.Deprecated ||
		a.ReadOnly != b.ReadOnly || a.WriteOnly != b.WriteOnly {
		return false
	}
	if a.Ref != b.Ref || a.Type != b.Type || a.Format != b.Format ||
		a.Title != b.Title || a.Description != b.Description || a.Pattern != b.Pattern {
		return false
	}
	if !equalutil.EqualPtr(a.Minimum, b.Minimum) || !equalutil.EqualPtr(a.Maximum, b.Maximum) ||
		!equalutil.EqualPtr(a.MinLength, b.MinLength) || !equalutil.EqualPtr(a.MaxLength, b.MaxLength) ||
		!equalutil.EqualPtr(a.MinItems, b.MinItems) || !equalutil.EqualPtr(a.MaxItems, b.MaxItems) {
		return false
	}
	if !slices.Equal(a.Required, b.Required) {
		return false
	}
	if len(a.Properties) != len(b.Properties) {
		return false
	}
	for i := range a.Properties {
		if a.Properties[i].Name != b.Properties[i].Name ||
			!EqualSchema(a.Properties[i].Schema, b.Properties[i].Schema) {
			return false
		}
	}
	if !EqualSchema(a.Items, b.Items) || !EqualSchema(a.AdditionalProperties, b.AdditionalProperties) {
		return false
	}
	if !slices.EqualFunc(a.OneOf, b.OneOf, EqualSchema) ||
		!slices.EqualFunc(a.AllOf, b.AllOf, EqualSchema) ||
		!slices.EqualFunc(a.AnyOf, b.AnyOf, EqualSchema) {
		return false
	}
	return equalutil.EqualValue(a.Enum, b.Enum) && equalutil.EqualValue(a.Default, b.Default) &&
		equalutil.EqualValue(a.Example, b.Example)
}

// EqualSecurityScheme reports whether two security schemes are identical.
func EqualSecurityScheme(a, b *SecurityScheme) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Description != b.Description || a.Name != b.Name || a.In != b.In ||
		a.Scheme != b.Scheme || a.BearerFormat != b.BearerFormat || a.OpenIDConnectURL != b.OpenIDConnectURL {
		return false
	}
	return equalFlows(a.Flows, b.Flows)
}

func equalFlows(a, b *OAuthFlows) bool {
	if a == nil || b == nil {
		return a == b
	}
	return equalFlow(a.Implicit, b.Implicit) && equalFlow(a.Password, b.Password) &&
		equalFlow(a.ClientCredentials, b.ClientCredentials) && equalFlow(a.AuthorizationCode, b.AuthorizationCode)
}

func equalFlow(a, b *OAuthFlow) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.AuthorizationURL == b.AuthorizationURL && a.TokenURL == b.TokenURL &&
		a.RefreshURL == b.RefreshURL && maps.Equal(a.Scopes, b.Scopes)
}

// EqualOperation reports whether two operations are identical.
func EqualOperation(a, b *OperationEntry) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Path != b.Path || a.Method != b.Method || a.OperationID != b.OperationID ||
		a.Summary != b.Summary || a.Description != b.Description || a.Deprecated != b.Deprecated {
		return false
	}
	if !slices.Equal(a.Tags, b.Tags) {
		return false
	}
	if !slices.EqualFunc(a.Parameters, b.Parameters, equalParameter) {
		return false
	}
	if !equalRequestBody(a.RequestBody, b.RequestBody) {
		return false
	}
	if !maps.EqualFunc(a.Responses, b.Responses, equalResponse) {
		return false
	}
	if !slices.EqualFunc(a.Security, b.Security, equalSecurityRequirement) {
		return false
	}
	return equalutil.EqualValue(a.Extensions, b.Extensions)
}

func equalParameter(a, b *Parameter) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && a.In == b.In && a.Description == b.Description &&
		a.Required == b.Required && a.Deprecated == b.Deprecated &&
		EqualSchema(a.Schema, b.Schema) && equalutil.EqualValue(a.Example, b.Example)
}

func equalMediaType(a, b *MediaType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return EqualSchema(a.Schema, b.Schema) && equalutil.EqualValue(a.Example, b.Example)
}

func equalRequestBody(a, b *RequestBody) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Description == b.Description && a.Required == b.Required &&
		maps.EqualFunc(a.Content, b.Content, equalMediaType)
}

func equalResponse(a, b *Response) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Ref == b.Ref && a.Description == b.Description &&
		maps.EqualFunc(a.Content, b.Content, equalMediaType) &&
		maps.EqualFunc(a.Headers, b.Headers, equalParameter)
}

// EqualResponse reports whether two responses are structurally equal.
func EqualResponse(a, b *Response) bool {
	return equalResponse(a, b)
}

func equalSecurityRequirement(a, b SecurityRequirement) bool {
	return maps.EqualFunc(a, b, func(x, y []string) bool { return slices.Equal(x, y) })
}

// EqualDocument reports whether two documents have the same content.
// Registry and table insertion order is significant.
func EqualDocument(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !equalInfo(a.Info, b.Info) || !slices.Equal(a.Servers, b.Servers) ||
		!slices.Equal(a.Tags, b.Tags) ||
		!slices.EqualFunc(a.Security, b.Security, equalSecurityRequirement) ||
		!equalutil.EqualValue(a.Extensions, b.Extensions) {
		return false
	}

	if a.Schemas.Len() != b.Schemas.Len() || !slices.Equal(a.Schemas.Names(OrderInsertion), b.Schemas.Names(OrderInsertion)) {
		return false
	}
	for name, s := range a.Schemas.All(OrderInsertion) {
		other, _ := b.Schemas.Resolve(name)
		if !EqualSchema(s, other) {
			return false
		}
	}

	if a.SecuritySchemes.Len() != b.SecuritySchemes.Len() {
		return false
	}
	for name, s := range a.SecuritySchemes.All(OrderInsertion) {
		other, ok := b.SecuritySchemes.Resolve(name)
		if !ok || !EqualSecurityScheme(s, other) {
			return false
		}
	}

	if !slices.Equal(a.Responses.Names(OrderInsertion), b.Responses.Names(OrderInsertion)) {
		return false
	}
	for name, r := range a.Responses.All(OrderInsertion) {
		other, _ := b.Responses.Resolve(name)
		if !EqualResponse(r, other) {
			return false
		}
	}

	if a.Operations.Len() != b.Operations.Len() ||
		!slices.Equal(a.Operations.Paths(OrderInsertion), b.Operations.Paths(OrderInsertion)) {
		return false
	}
	for op := range a.Operations.Iterate(OrderInsertion) {
		other, ok := b.Operations.Get(op.Path, op.Method)
		if !ok || !EqualOperation(op, other) {
			return false
		}
	}
	return true
}

func equalInfo(a, b Info) bool {
	return a.Title == b.Title && a.Version == b.Version && a.Summary == b.Summary &&
		a.Description == b.Description && a.TermsOfService == b.TermsOfService &&
		equalutil.EqualPtr(a.Contact, b.Contact) && equalutil.EqualPtr(a.License, b.License)
}
