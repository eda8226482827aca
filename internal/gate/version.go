package gate

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/conn-castle/depgate/internal/messages"
)

// Attributes are option bits carried by dependency and provider declarations.
type Attributes uint32

const (
	// AttrMinVersionExclusive makes the minimum bound exclusive. Minimum bounds are inclusive by default.
	AttrMinVersionExclusive Attributes = 1 << iota
	// AttrMaxVersionInclusive makes the maximum bound inclusive. Maximum bounds are exclusive by default.
	AttrMaxVersionInclusive
	// AttrIgnoreVersion accepts any registered version even when bounds are present.
	AttrIgnoreVersion
)

var attributeNames = []struct {
	flag Attributes
	name string
}{
	{AttrMinVersionExclusive, "min-exclusive"},
	{AttrMaxVersionInclusive, "max-inclusive"},
	{AttrIgnoreVersion, "ignore-version"},
}

// Has reports whether every bit in flag is set.
func (a Attributes) Has(flag Attributes) bool {
	return a&flag == flag
}

// Names returns the attribute names in declaration order.
func (a Attributes) Names() []string {
	var names []string
	for _, attr := range attributeNames {
		if a.Has(attr.flag) {
			names = append(names, attr.name)
		}
	}
	return names
}

// ParseAttributes converts attribute names (case-insensitive) into a bit set.
func ParseAttributes(names []string) (Attributes, error) {
	var attrs Attributes
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		found := false
		for _, attr := range attributeNames {
			if strings.EqualFold(name, attr.name) {
				attrs |= attr.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf(messages.GateUnknownAttributeFmt, raw)
		}
	}
	return attrs, nil
}

// VersionRange bounds the registered provider version a dependency accepts.
// Either bound may be empty.
type VersionRange struct {
	Min        string
	Max        string
	Attributes Attributes
}

// Bounded reports whether at least one bound was supplied.
func (r VersionRange) Bounded() bool {
	return strings.TrimSpace(r.Min) != "" || strings.TrimSpace(r.Max) != ""
}

// Checked reports whether a registered version has to be compared at all.
// Missing bounds and the ignore-version attribute each skip the comparison on their own.
func (r VersionRange) Checked() bool {
	return r.Bounded() && !r.Attributes.Has(AttrIgnoreVersion)
}

// Validate parses the bounds and rejects ranges that no version can satisfy.
func (r VersionRange) Validate() error {
	lower, upper, err := r.bounds()
	if err != nil {
		return err
	}
	if lower == nil || upper == nil || !r.Checked() {
		return nil
	}
	switch cmp := lower.Compare(upper); {
	case cmp > 0:
		return fmt.Errorf(messages.GateVersionRangeInvertedFmt, r.Min, r.Max)
	case cmp == 0 && (r.Attributes.Has(AttrMinVersionExclusive) || !r.Attributes.Has(AttrMaxVersionInclusive)):
		return fmt.Errorf(messages.GateVersionRangeEmptyFmt, r)
	}
	return nil
}

// Contains reports whether the registered version raw satisfies the range.
// An unchecked range accepts anything, including an empty version. A checked
// range never accepts an empty version.
func (r VersionRange) Contains(raw string) (bool, error) {
	if !r.Checked() {
		return true, nil
	}
	if strings.TrimSpace(raw) == "" {
		return false, nil
	}
	v, err := version.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf(messages.GateInvalidVersionFmt, raw, err)
	}
	lower, upper, err := r.bounds()
	if err != nil {
		return false, err
	}
	if lower != nil {
		if r.Attributes.Has(AttrMinVersionExclusive) {
			if !v.GreaterThan(lower) {
				return false, nil
			}
		} else if v.LessThan(lower) {
			return false, nil
		}
	}
	if upper != nil {
		if r.Attributes.Has(AttrMaxVersionInclusive) {
			if v.GreaterThan(upper) {
				return false, nil
			}
		} else if !v.LessThan(upper) {
			return false, nil
		}
	}
	return true, nil
}

// String renders the range in interval notation, e.g. "[1.0, 2.0)".
func (r VersionRange) String() string {
	if !r.Bounded() {
		return "*"
	}
	open, closing := "[", ")"
	if r.Attributes.Has(AttrMinVersionExclusive) {
		open = "("
	}
	if r.Attributes.Has(AttrMaxVersionInclusive) {
		closing = "]"
	}
	return fmt.Sprintf("%s%s, %s%s", open, strings.TrimSpace(r.Min), strings.TrimSpace(r.Max), closing)
}

func (r VersionRange) bounds() (*version.Version, *version.Version, error) {
	lower, err := parseBound(r.Min)
	if err != nil {
		return nil, nil, err
	}
	upper, err := parseBound(r.Max)
	if err != nil {
		return nil, nil, err
	}
	return lower, upper, nil
}

func parseBound(raw string) (*version.Version, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	v, err := version.NewVersion(trimmed)
	if err != nil {
		return nil, fmt.Errorf(messages.GateInvalidVersionFmt, raw, err)
	}
	return v, nil
}
