package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedEmbed indicates a frame embed cell whose URL cannot be recovered.
var ErrMalformedEmbed = errors.New("malformed frame embed")

// frameCall opens the embed call whose first string literal is the frame URL.
const frameCall = FrameMarker + "("

// widthArtifact is cut from literals that swallowed the size arguments.
const widthArtifact = ", width"

var (
	// name = "value" on a line of its own.
	assignmentPattern = regexp.MustCompile(`(?m)^\s*([A-Za-z_]\w*)\s*=\s*["']([^"'\n]*)["']\s*$`)

	// {name} inside an f-string literal.
	placeholderPattern = regexp.MustCompile(`\{([A-Za-z_]\w*)\}`)
)

// FrameEmbed is the parsed form of a slide frame embed cell.
type FrameEmbed struct {
	URL string
}

// ParseFrameEmbed extracts the frame URL from a cell source.
//
// The URL is the first quoted literal (single or double quotes) after the
// first "IFrame(" call. A trailing ", width..." artifact and trailing commas
// or spaces are removed, and {name} placeholders are expanded from simple
// string assignments elsewhere in the cell. A placeholder without a matching
// assignment is an error, since the rewritten cell drops the assignments.
func ParseFrameEmbed(source string) (FrameEmbed, error) {
	_, call, ok := strings.Cut(source, frameCall)
	if !ok {
		return FrameEmbed{}, fmt.Errorf("%w: no %s call", ErrMalformedEmbed, frameCall)
	}

	literal, err := firstQuoted(call)
	if err != nil {
		return FrameEmbed{}, err
	}

	url, _, _ := strings.Cut(literal, widthArtifact)
	url = strings.TrimRight(url, ", ")
	url, err = expandPlaceholders(url, assignments(source))
	if err != nil {
		return FrameEmbed{}, err
	}
	if strings.TrimSpace(url) == "" {
		return FrameEmbed{}, fmt.Errorf("%w: empty URL", ErrMalformedEmbed)
	}
	return FrameEmbed{URL: url}, nil
}

// firstQuoted returns the content of the first quoted literal in s.
func firstQuoted(s string) (string, error) {
	start := strings.IndexAny(s, `"'`)
	if start < 0 {
		return "", fmt.Errorf("%w: no string literal", ErrMalformedEmbed)
	}
	quote := s[start]
	rest := s[start+1:]
	end := strings.IndexByte(rest, quote)
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated string literal", ErrMalformedEmbed)
	}
	return rest[:end], nil
}

// assignments collects name = "value" pairs. Later assignments win.
func assignments(source string) map[string]string {
	vars := make(map[string]string)
	for _, m := range assignmentPattern.FindAllStringSubmatch(source, -1) {
		vars[m[1]] = m[2]
	}
	return vars
}

func expandPlaceholders(url string, vars map[string]string) (string, error) {
	var missing []string
	expanded := placeholderPattern.ReplaceAllStringFunc(url, func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		missing = append(missing, name)
		return match
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: unresolved placeholder %s", ErrMalformedEmbed, strings.Join(missing, ", "))
	}
	return expanded, nil
}
