package parser

import (
	"slices"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oascompose/document"
)

// schema decodes a schema object. Both nullable conventions are folded into
// Schema.Nullable:
//
//   - 3.0: "nullable: true", and allOf: [$ref] wrappers around references
//   - 3.1: "type: [T, null]", and a {type: null} member of oneOf/anyOf
func (d *decoder) schema(n *yaml.Node) (*document.Schema, error) {
	n = resolveAlias(n)
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!bool" {
		// 3.1 boolean schema; "true" accepts anything.
		if n.Value == "false" {
			d.warnf("boolean schema false at line %d approximated as an empty schema", n.Line)
		}
		return &document.Schema{}, nil
	}
	if err := d.expectMapping(n, "schema"); err != nil {
		return nil, err
	}

	s := &document.Schema{}
	var err error
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"$ref", &s.Ref},
		{"format", &s.Format},
		{"title", &s.Title},
		{"description", &s.Description},
		{"pattern", &s.Pattern},
	} {
		if *f.dst, err = d.str(n, f.key); err != nil {
			return nil, err
		}
	}

	typeNullable := false
	if tn := field(n, "type"); tn != nil {
		if s.Type, typeNullable, err = d.schemaType(tn); err != nil {
			return nil, err
		}
	}
	if s.Nullable, err = d.boolean(n, "nullable"); err != nil {
		return nil, err
	}
	s.Nullable = s.Nullable || typeNullable

	for _, f := range []struct {
		key string
		dst *bool
	}{
		{"deprecated", &s.Deprecated},
		{"readOnly", &s.ReadOnly},
		{"writeOnly", &s.WriteOnly},
	} {
		if *f.dst, err = d.boolean(n, f.key); err != nil {
			return nil, err
		}
	}

	if s.Minimum, err = d.floatPtr(n, "minimum"); err != nil {
		return nil, err
	}
	if s.Maximum, err = d.floatPtr(n, "maximum"); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		key string
		dst **int
	}{
		{"minLength", &s.MinLength},
		{"maxLength", &s.MaxLength},
		{"minItems", &s.MinItems},
		{"maxItems", &s.MaxItems},
	} {
		if *f.dst, err = d.intPtr(n, f.key); err != nil {
			return nil, err
		}
	}

	if en := field(n, "enum"); en != nil {
		if en.Kind != yaml.SequenceNode {
			return nil, d.errorf(en, "\"enum\" must be an array")
		}
		for _, item := range en.Content {
			v, err := d.value(item)
			if err != nil {
				return nil, err
			}
			// The null member that accompanies "type: [T, null]" is implied
			// by Nullable.
			if v == nil && typeNullable {
				continue
			}
			s.Enum = append(s.Enum, v)
		}
	}
	if s.Default, err = d.optionalValue(n, "default"); err != nil {
		return nil, err
	}
	if s.Example, err = d.optionalValue(n, "example"); err != nil {
		return nil, err
	}

	if in := field(n, "items"); in != nil {
		if s.Items, err = d.schema(in); err != nil {
			return nil, err
		}
	}
	if pn := field(n, "properties"); pn != nil {
		if err := d.expectMapping(pn, "properties"); err != nil {
			return nil, err
		}
		for name, ps := range pairs(pn) {
			prop, err := d.schema(ps)
			if err != nil {
				return nil, err
			}
			s.Properties = append(s.Properties, document.Property{Name: name, Schema: prop})
		}
	}
	if s.Required, err = d.strList(n, "required"); err != nil {
		return nil, err
	}
	if an := field(n, "additionalProperties"); an != nil {
		switch {
		case an.Kind == yaml.ScalarNode && an.Value == "false":
		case an.Kind == yaml.ScalarNode:
			s.AdditionalProperties = &document.Schema{}
		default:
			if s.AdditionalProperties, err = d.schema(an); err != nil {
				return nil, err
			}
		}
	}

	for _, f := range []struct {
		key string
		dst *[]*document.Schema
	}{
		{"oneOf", &s.OneOf},
		{"allOf", &s.AllOf},
		{"anyOf", &s.AnyOf},
	} {
		if *f.dst, err = d.schemaList(n, f.key); err != nil {
			return nil, err
		}
	}

	return normalizeNullable(s), nil
}

// schemaType reads "type" as a string or, in 3.1, an array. A "null" entry
// makes the schema nullable.
func (d *decoder) schemaType(n *yaml.Node) (string, bool, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, false, nil
	case yaml.SequenceNode:
		var types []string
		nullable := false
		for _, item := range n.Content {
			item = resolveAlias(item)
			if item.Value == "null" {
				nullable = true
				continue
			}
			types = append(types, item.Value)
		}
		switch len(types) {
		case 0:
			// type: [null] on its own
			return "null", false, nil
		case 1:
		default:
			d.warnf("multi-type schema %v at line %d reduced to %q", types, n.Line, types[0])
		}
		return types[0], nullable, nil
	default:
		return "", false, d.errorf(n, "\"type\" must be a string or an array of strings")
	}
}

func (d *decoder) schemaList(n *yaml.Node, key string) ([]*document.Schema, error) {
	ln := field(n, key)
	if ln == nil {
		return nil, nil
	}
	if ln.Kind != yaml.SequenceNode {
		return nil, d.errorf(ln, "%q must be an array", key)
	}
	out := make([]*document.Schema, 0, len(ln.Content))
	for _, item := range ln.Content {
		s, err := d.schema(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func isNullMember(s *document.Schema) bool {
	return s != nil && s.Type == "null" && isBare(s) && s.Title == "" && s.Description == ""
}

// isBare reports whether s carries nothing beyond title and description, so
// it can be collapsed into a single wrapped member.
func isBare(s *document.Schema) bool {
	return s.Ref == "" && s.Format == "" && len(s.Properties) == 0 && len(s.Required) == 0 &&
		s.AdditionalProperties == nil && s.Items == nil && len(s.Enum) == 0 &&
		s.Default == nil && s.Example == nil && !s.Deprecated && !s.ReadOnly && !s.WriteOnly &&
		s.Minimum == nil && s.Maximum == nil && s.MinLength == nil && s.MaxLength == nil &&
		s.MinItems == nil && s.MaxItems == nil && s.Pattern == ""
}

// normalizeNullable folds the composition-based nullable encodings back into
// the Nullable flag and unwraps single-member wrappers.
func normalizeNullable(s *document.Schema) *document.Schema {
	removed := false
	for _, list := range []*[]*document.Schema{&s.OneOf, &s.AnyOf} {
		before := len(*list)
		*list = slices.DeleteFunc(*list, isNullMember)
		if len(*list) != before {
			removed = true
			if len(*list) == 0 {
				*list = nil
			}
		}
	}
	if removed {
		s.Nullable = true
		// oneOf: [X, {type: null}] where X carries the real definition.
		if s.Type == "" && isBare(s) && len(s.AllOf) == 0 {
			var single *document.Schema
			switch {
			case len(s.OneOf) == 1 && len(s.AnyOf) == 0:
				single = s.OneOf[0]
			case len(s.AnyOf) == 1 && len(s.OneOf) == 0:
				single = s.AnyOf[0]
			}
			if single != nil {
				s = absorb(s, single)
			}
		}
	}

	// allOf: [$ref] around a reference, used by 3.0 for nullable or described refs.
	if len(s.AllOf) == 1 && s.AllOf[0].Ref != "" && s.Type == "" && isBare(s) &&
		len(s.OneOf) == 0 && len(s.AnyOf) == 0 {
		s = absorb(s, s.AllOf[0])
	}
	return s
}

// absorb replaces the wrapper outer with its only member, keeping the
// wrapper's description, title and nullability.
func absorb(outer, member *document.Schema) *document.Schema {
	out := *member
	out.Nullable = out.Nullable || outer.Nullable
	if outer.Description != "" {
		out.Description = outer.Description
	}
	if outer.Title != "" {
		out.Title = outer.Title
	}
	return &out
}
