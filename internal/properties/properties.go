package properties

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/conn-castle/depgate/internal/messages"
)

// Property names the checks read from the host.
const (
	// IgnoreDependencies carries the semicolon list of dependents to ignore, or ALL.
	IgnoreDependencies = "IGNOREDEPENDENCIES"
	// AllUsers set to 1 runs the transaction in the per-machine context.
	AllUsers = "ALLUSERS"
)

// Properties is a set of host properties. Names match case-insensitively.
type Properties struct {
	values map[string]string
}

// Load reads and parses the property file at path.
func Load(path string) (Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Properties{}, fmt.Errorf(messages.PropertiesReadFmt, path, err)
	}
	props, err := Parse(string(data))
	if err != nil {
		return Properties{}, fmt.Errorf(messages.PropertiesParseFmt, path, err)
	}
	return props, nil
}

// Parse reads NAME=VALUE lines. Blank lines and lines starting with # are
// skipped. Values may be single-quoted (literal) or double-quoted (with \\, \"
// and \n escapes). Setting one name twice is an error.
func Parse(content string) (Properties, error) {
	props := Properties{values: map[string]string{}}
	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		name, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return Properties{}, fmt.Errorf(messages.PropertiesLineFmt, lineNo, err)
		}
		if !ok {
			continue
		}
		folded := strings.ToUpper(name)
		if _, dup := props.values[folded]; dup {
			return Properties{}, fmt.Errorf(messages.PropertiesLineFmt, lineNo, fmt.Errorf(messages.PropertiesDuplicateFmt, name))
		}
		props.values[folded] = value
	}
	if err := scanner.Err(); err != nil {
		return Properties{}, fmt.Errorf(messages.PropertiesScanFmt, err)
	}
	return props, nil
}

// Get returns the value of name and whether it was set.
func (p Properties) Get(name string) (string, bool) {
	value, ok := p.values[strings.ToUpper(strings.TrimSpace(name))]
	return value, ok
}

// Len returns the number of properties set.
func (p Properties) Len() int {
	return len(p.values)
}

// Machine reports whether ALLUSERS asks for the per-machine context. The
// second result is false when ALLUSERS is not set.
func (p Properties) Machine() (bool, bool) {
	value, ok := p.Get(AllUsers)
	if !ok {
		return false, false
	}
	return strings.TrimSpace(value) == "1", true
}

func parseLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	name, raw, found := strings.Cut(trimmed, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return "", "", false, errors.New(messages.PropertiesExpectedKeyValue)
	}
	value, err := unquote(strings.TrimSpace(raw))
	if err != nil {
		return "", "", false, err
	}
	return name, value, true, nil
}

func unquote(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	quote := raw[0]
	if quote != '"' && quote != '\'' {
		return raw, nil
	}
	var b strings.Builder
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == quote:
			rest := strings.TrimSpace(raw[i+1:])
			if rest != "" && !strings.HasPrefix(rest, "#") {
				return "", errors.New(messages.PropertiesTrailingContent)
			}
			return b.String(), nil
		case quote == '"' && c == '\\' && i+1 < len(raw):
			i++
			switch raw[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(raw[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", errors.New(messages.PropertiesUnterminatedQuote)
}
