package batch

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/teranos/batchrest/errors"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// URI resolves op against the base URL. Every placeholder in the operation's
// template must have a non-empty value in pathParams; values are path-escaped.
// The dot segments "." and ".." are refused since they would change which
// resource the path names.
func (c *Client) URI(op Operation, pathParams map[string]string) (*url.URL, error) {
	r, ok := routes[op]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownOperation, "%s", op)
	}

	rel, err := resolveTemplate(r.template, pathParams)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", op)
	}

	escaped := strings.TrimSuffix(c.baseURL.EscapedPath(), "/") + "/" + resourceRoots[op.Resource]
	if rel != "" {
		escaped += "/" + rel
	}
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: invalid path %q", op, escaped)
	}

	u := *c.baseURL
	u.Path = unescaped
	u.RawPath = escaped
	u.RawQuery = ""
	u.Fragment = ""
	return &u, nil
}

// resolveTemplate substitutes {name} placeholders and returns the escaped path.
func resolveTemplate(template string, params map[string]string) (string, error) {
	var missing []string
	resolved := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := params[name]
		if !ok || v == "" || v == "." || v == ".." {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(v)
	})
	if len(missing) > 0 {
		return "", errors.Wrapf(ErrUnresolvedTemplate, "template %q has no usable value for %s", template, strings.Join(missing, ", "))
	}
	return resolved, nil
}

// Target returns a copy of u with every props entry added as a query
// parameter. Keys and values are forwarded verbatim.
func Target(u *url.URL, props map[string]string) *url.URL {
	t := *u
	if len(props) == 0 {
		return &t
	}
	q := t.Query()
	for k, v := range props {
		q.Add(k, v)
	}
	t.RawQuery = q.Encode()
	return &t
}
