package pathutil

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// PathParamRegex matches path template parameters like {paramName}.
// It captures the parameter name inside the braces.
var PathParamRegex = regexp.MustCompile(`\{([^}]+)\}`)

var paramNameRegex = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// ValidateTemplate checks that path is a well-formed OpenAPI path template:
// non-empty, absolute, with balanced non-nested placeholders whose names are
// unique within the path.
func ValidateTemplate(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	if !strings.HasPrefix(path, "/") {
		return errors.New("path must start with /")
	}

	seen := make(map[string]bool)
	open := -1
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '{':
			if open >= 0 {
				return fmt.Errorf("nested '{' at offset %d", i)
			}
			open = i
		case '}':
			if open < 0 {
				return fmt.Errorf("unbalanced '}' at offset %d", i)
			}
			name := path[open+1 : i]
			if name == "" {
				return fmt.Errorf("empty parameter name at offset %d", open)
			}
			if !paramNameRegex.MatchString(name) {
				return fmt.Errorf("invalid parameter name %q", name)
			}
			if seen[name] {
				return fmt.Errorf("parameter %q appears more than once", name)
			}
			seen[name] = true
			open = -1
		case '?', '#':
			return fmt.Errorf("unexpected %q in path", path[i])
		}
	}
	if open >= 0 {
		return fmt.Errorf("unclosed '{' at offset %d", open)
	}
	return nil
}

// TemplateParams returns the placeholder names of path in order of appearance.
func TemplateParams(path string) []string {
	matches := PathParamRegex.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// CollapseSlashes replaces every run of consecutive slashes with one slash.
func CollapseSlashes(path string) string {
	if !strings.Contains(path, "//") {
		return path
	}
	var b strings.Builder
	b.Grow(len(path))
	prevSlash := false
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// NormalizePrefix converts a mount prefix into canonical form: a leading
// slash, no trailing slash, no repeated slashes. "" and "/" normalize to ""
// meaning "no prefix".
func NormalizePrefix(prefix string) string {
	p := strings.TrimSpace(prefix)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimRight(CollapseSlashes(p), "/")
	return p
}

// JoinPath mounts path under prefix. An empty or "/" prefix returns path
// unchanged. A "/" (or empty) path under a non-empty prefix yields the prefix
// itself. Repeated slashes at the seam and inside path are collapsed.
func JoinPath(prefix, path string) string {
	p := NormalizePrefix(prefix)
	if p == "" {
		return path
	}
	if path == "" || path == "/" {
		return p
	}
	return CollapseSlashes(p + "/" + strings.TrimLeft(path, "/"))
}

// UnderRoot reports whether path lies at or below the mount root.
func UnderRoot(path, root string) bool {
	r := NormalizePrefix(root)
	if r == "" {
		return strings.HasPrefix(path, "/")
	}
	return path == r || strings.HasPrefix(path, r+"/")
}

// RouteToTemplate converts router-style segments (":id", "*rest") into
// OpenAPI placeholders ("{id}", "{rest}").
func RouteToTemplate(route string) string {
	segments := strings.Split(route, "/")
	for i, seg := range segments {
		if len(seg) > 1 && (seg[0] == ':' || seg[0] == '*') {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

// TemplateToRoute converts OpenAPI placeholders into ":name" router segments.
// Placeholders that do not fill a whole segment are left untouched.
func TemplateToRoute(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' && !strings.ContainsAny(seg[1:len(seg)-1], "{}") {
			segments[i] = ":" + seg[1:len(seg)-1]
		}
	}
	return strings.Join(segments, "/")
}
