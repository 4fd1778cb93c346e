package scanner

import (
	"fmt"
	"regexp"

	"github.com/s3ferry/s3ferry/errors"
)

// FilterSet holds the compiled inclusion and exclusion patterns applied to
// every enumerated path. Patterns are matched with an unanchored search
// against the full path string, so `\.log$` and `tmp/` both behave the way
// they would in a grep.
type FilterSet struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// NewFilterSet compiles the given pattern lists into a FilterSet.
// An uncompilable pattern is a configuration error.
func NewFilterSet(include, exclude []string) (*FilterSet, error) {
	set := &FilterSet{}

	for _, expr := range include {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid include pattern %q: %v", expr, err))
		}
		set.include = append(set.include, re)
	}

	for _, expr := range exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid exclude pattern %q: %v", expr, err))
		}
		set.exclude = append(set.exclude, re)
	}

	return set, nil
}

// Match reports whether path passes the filter. The path must match at
// least one inclusion pattern (when any are configured) and no exclusion
// pattern; exclusion always wins. A nil FilterSet passes everything.
func (f *FilterSet) Match(path string) bool {
	if f == nil {
		return true
	}

	if len(f.include) > 0 {
		included := false
		for _, re := range f.include {
			if re.MatchString(path) {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}

	for _, re := range f.exclude {
		if re.MatchString(path) {
			return false
		}
	}

	return true
}
