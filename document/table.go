package document

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/erraggy/oascompose/internal/pathutil"
	"github.com/erraggy/oascompose/oaserrors"
)

// DuplicatePolicy decides what happens when a (path, method) pair is
// inserted into a table that already holds it.
type DuplicatePolicy string

const (
	// PolicyReject fails with *oaserrors.DuplicateOperationError.
	PolicyReject DuplicatePolicy = "reject"
	// PolicyOverwrite replaces the existing operation.
	PolicyOverwrite DuplicatePolicy = "overwrite"
	// PolicyMergeTagsAndResponses fills empty fields of the existing operation
	// from the incoming one and unions tags, responses, parameters and security.
	PolicyMergeTagsAndResponses DuplicatePolicy = "merge"
)

// ValidDuplicatePolicies returns all valid policy strings.
func ValidDuplicatePolicies() []string {
	return []string{string(PolicyReject), string(PolicyOverwrite), string(PolicyMergeTagsAndResponses)}
}

// Valid reports whether p is a known policy.
func (p DuplicatePolicy) Valid() bool {
	switch p {
	case PolicyReject, PolicyOverwrite, PolicyMergeTagsAndResponses:
		return true
	default:
		return false
	}
}

// ParseDuplicatePolicy converts a user-supplied string into a DuplicatePolicy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyReject, "fail":
		return PolicyReject, nil
	case PolicyOverwrite, "replace":
		return PolicyOverwrite, nil
	case PolicyMergeTagsAndResponses, "":
		return PolicyMergeTagsAndResponses, nil
	default:
		return "", &oaserrors.ConfigError{
			Option:  "duplicate policy",
			Value:   s,
			Message: "valid policies are " + strings.Join(ValidDuplicatePolicies(), ", "),
		}
	}
}

// InsertOutcome reports what an Insert did.
type InsertOutcome int

const (
	// Inserted means the (path, method) pair was new.
	Inserted InsertOutcome = iota
	// Merged means the incoming operation was merged into an existing one.
	Merged
	// Replaced means the existing operation was overwritten.
	Replaced
)

// String returns the outcome name.
func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Merged:
		return "merged"
	case Replaced:
		return "replaced"
	default:
		return "unknown"
	}
}

type pathItem struct {
	path string
	ops  map[HTTPMethod]*OperationEntry
}

// Table maps (path template, method) to operations.
// Paths iterate in order of first appearance or lexicographically; methods
// within a path iterate in path item field order.
//
// Concurrency: a Table is not safe for concurrent use.
type Table struct {
	root  string
	items map[string]*pathItem
	order []*pathItem
	count int
}

// NewTable creates an empty table whose paths must lie under root.
// An empty root means "/".
func NewTable(root string) *Table {
	if root == "" {
		root = "/"
	}
	return &Table{
		root:  root,
		items: make(map[string]*pathItem),
	}
}

// Root returns the mount root.
func (t *Table) Root() string {
	if t == nil {
		return "/"
	}
	return t.root
}

// Len returns the number of operations.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.count
}

// Validate checks op's path and method against the table's mount root.
func (t *Table) Validate(op *OperationEntry) error {
	if op == nil {
		return &oaserrors.InvalidPathError{Reason: "operation is nil"}
	}
	if err := pathutil.ValidateTemplate(op.Path); err != nil {
		return &oaserrors.InvalidPathError{Path: op.Path, Reason: err.Error()}
	}
	if !pathutil.UnderRoot(op.Path, t.root) {
		return &oaserrors.InvalidPathError{Path: op.Path, Reason: fmt.Sprintf("not under mount root %q", t.root)}
	}
	if !op.Method.Valid() {
		return &oaserrors.InvalidPathError{Path: op.Path, Reason: fmt.Sprintf("unsupported method %q", op.Method)}
	}
	return nil
}

// Insert adds a copy of op to the table, resolving an existing
// (path, method) pair according to policy. An unknown policy is a
// *oaserrors.ConfigError and leaves the table unchanged.
func (t *Table) Insert(op *OperationEntry, policy DuplicatePolicy) (InsertOutcome, error) {
	if !policy.Valid() {
		return Inserted, &oaserrors.ConfigError{
			Option:  "duplicate policy",
			Value:   string(policy),
			Message: "valid policies are " + strings.Join(ValidDuplicatePolicies(), ", "),
		}
	}
	if err := t.Validate(op); err != nil {
		return Inserted, err
	}

	item, ok := t.items[op.Path]
	if !ok {
		item = &pathItem{path: op.Path, ops: make(map[HTTPMethod]*OperationEntry)}
		t.items[op.Path] = item
		t.order = append(t.order, item)
	}

	existing, dup := item.ops[op.Method]
	if !dup {
		item.ops[op.Method] = CopyOperation(op)
		t.count++
		return Inserted, nil
	}

	switch policy {
	case PolicyOverwrite:
		item.ops[op.Method] = CopyOperation(op)
		return Replaced, nil
	case PolicyMergeTagsAndResponses:
		item.ops[op.Method] = MergeOperations(existing, op)
		return Merged, nil
	default:
		return Inserted, &oaserrors.DuplicateOperationError{Path: op.Path, Method: string(op.Method)}
	}
}

// Get returns the operation at (path, method).
func (t *Table) Get(path string, method HTTPMethod) (*OperationEntry, bool) {
	if t == nil {
		return nil, false
	}
	item, ok := t.items[path]
	if !ok {
		return nil, false
	}
	op, ok := item.ops[method]
	return op, ok
}

// Methods returns the methods registered for path in path item field order.
func (t *Table) Methods(path string) []HTTPMethod {
	if t == nil {
		return nil
	}
	item, ok := t.items[path]
	if !ok {
		return nil
	}
	return sortedMethods(item)
}

// Paths returns the distinct path templates in the requested order.
func (t *Table) Paths(order Order) []string {
	if t == nil {
		return nil
	}
	paths := make([]string, 0, len(t.order))
	for _, item := range t.orderedItems(order) {
		paths = append(paths, item.path)
	}
	return paths
}

// Iterate returns a lazy, restartable sequence over all operations.
func (t *Table) Iterate(order Order) iter.Seq[*OperationEntry] {
	return func(yield func(*OperationEntry) bool) {
		if t == nil {
			return
		}
		for _, item := range t.orderedItems(order) {
			for _, m := range sortedMethods(item) {
				if !yield(item.ops[m]) {
					return
				}
			}
		}
	}
}

// Clone returns a deep copy of the table. A nil table clones to an empty
// table mounted at "/".
func (t *Table) Clone() *Table {
	if t == nil {
		return NewTable("/")
	}
	c := NewTable(t.root)
	for _, item := range t.order {
		ci := &pathItem{path: item.path, ops: make(map[HTTPMethod]*OperationEntry, len(item.ops))}
		for m, op := range item.ops {
			ci.ops[m] = CopyOperation(op)
		}
		c.items[item.path] = ci
		c.order = append(c.order, ci)
	}
	c.count = t.count
	return c
}

func (t *Table) orderedItems(order Order) []*pathItem {
	if order != OrderLexicographic {
		return t.order
	}
	items := slices.Clone(t.order)
	slices.SortFunc(items, func(a, b *pathItem) int {
		return strings.Compare(a.path, b.path)
	})
	return items
}

func sortedMethods(item *pathItem) []HTTPMethod {
	methods := make([]HTTPMethod, 0, len(item.ops))
	for _, m := range Methods() {
		if _, ok := item.ops[m]; ok {
			methods = append(methods, m)
		}
	}
	return methods
}

// MergeOperations merges second into a copy of first.
// Non-empty scalar fields of second fill empty fields of first; tags,
// responses, parameters and security requirements are set-unioned with
// first's entries taking precedence.
func MergeOperations(first, second *OperationEntry) *OperationEntry {
	merged := CopyOperation(first)
	in := CopyOperation(second)

	if merged.OperationID == "" {
		merged.OperationID = in.OperationID
	}
	if merged.Summary == "" {
		merged.Summary = in.Summary
	}
	if merged.Description == "" {
		merged.Description = in.Description
	}
	merged.Deprecated = merged.Deprecated || in.Deprecated
	merged.AddTags(in.Tags...)

	for _, p := range in.Parameters {
		if _, ok := merged.Parameter(p.Name, p.In); !ok {
			merged.Parameters = append(merged.Parameters, p)
		}
	}

	switch {
	case merged.RequestBody == nil:
		merged.RequestBody = in.RequestBody
	case in.RequestBody != nil:
		if merged.RequestBody.Description == "" {
			merged.RequestBody.Description = in.RequestBody.Description
		}
		merged.RequestBody.Required = merged.RequestBody.Required || in.RequestBody.Required
		merged.RequestBody.Content = mergeContent(merged.RequestBody.Content, in.RequestBody.Content)
	}

	for code, resp := range in.Responses {
		if merged.Responses == nil {
			merged.Responses = make(map[string]*Response)
		}
		cur, ok := merged.Responses[code]
		if !ok {
			merged.Responses[code] = resp
			continue
		}
		// A reference is kept whole; it cannot be merged field by field.
		if cur.Ref != "" || resp.Ref != "" {
			continue
		}
		if cur.Description == "" {
			cur.Description = resp.Description
		}
		cur.Content = mergeContent(cur.Content, resp.Content)
		for name, h := range resp.Headers {
			if cur.Headers == nil {
				cur.Headers = make(map[string]*Parameter)
			}
			if _, exists := cur.Headers[name]; !exists {
				cur.Headers[name] = h
			}
		}
	}

	for _, req := range in.Security {
		if !slices.ContainsFunc(merged.Security, func(r SecurityRequirement) bool {
			return equalSecurityRequirement(r, req)
		}) {
			merged.Security = append(merged.Security, req)
		}
	}

	for k, v := range in.Extensions {
		if merged.Extensions == nil {
			merged.Extensions = make(map[string]any)
		}
		if _, ok := merged.Extensions[k]; !ok {
			merged.Extensions[k] = v
		}
	}
	return merged
}

func mergeContent(first, second map[string]*MediaType) map[string]*MediaType {
	if len(second) == 0 {
		return first
	}
	if first == nil {
		first = make(map[string]*MediaType, len(second))
	}
	for ct, mt := range second {
		if _, ok := first[ct]; !ok {
			first[ct] = mt
		}
	}
	return first
}
