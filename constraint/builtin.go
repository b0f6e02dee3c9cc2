// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package constraint

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Patterns for the regexp-backed built-ins. All are anchored.
var (
	floatPattern        = regexp.MustCompile(`^-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
	decimalPattern      = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
	alphaPattern        = regexp.MustCompile(`^[A-Za-z]+$`)
	alphanumericPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	slugPattern         = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Int accepts base-10 integers that fit in 32 bits.
func Int() Validator {
	return Func("must be a 32-bit integer", func(v string) bool {
		_, err := strconv.ParseInt(v, 10, 32)
		return err == nil
	})
}

// Long accepts base-10 integers that fit in 64 bits.
func Long() Validator {
	return Func("must be a 64-bit integer", func(v string) bool {
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	})
}

// Numeric accepts one or more ASCII digits with no sign.
func Numeric() Validator {
	return Func("must contain only digits", isDigits)
}

// Float accepts decimal floating point numbers with an optional exponent.
// NaN and Inf spellings are rejected.
func Float() Validator {
	return Regexp(floatPattern, "must be a floating point number")
}

// Decimal accepts fixed-point decimals like "-12.50".
func Decimal() Validator {
	return Regexp(decimalPattern, "must be a decimal number")
}

// Bool accepts "true" or "false", case-insensitively.
func Bool() Validator {
	return Func("must be true or false", func(v string) bool {
		return strings.EqualFold(v, "true") || strings.EqualFold(v, "false")
	})
}

// Alpha accepts ASCII letters only.
func Alpha() Validator {
	return Regexp(alphaPattern, "must contain only letters")
}

// Alphanumeric accepts ASCII letters and digits only.
func Alphanumeric() Validator {
	return Regexp(alphanumericPattern, "must contain only letters and digits")
}

// Slug accepts lowercase words joined by single hyphens.
func Slug() Validator {
	return Regexp(slugPattern, "must be a lowercase slug")
}

// UUID accepts any textual form understood by uuid.Parse.
func UUID() Validator {
	return Func("must be a UUID", func(v string) bool {
		_, err := uuid.Parse(v)
		return err == nil
	})
}

// Date accepts RFC 3339 full-date values (2006-01-02) naming a real day.
func Date() Validator {
	return Func("must be a date (YYYY-MM-DD)", func(v string) bool {
		_, err := time.Parse(time.DateOnly, v)
		return err == nil
	})
}

// DateTime accepts RFC 3339 date-time values.
func DateTime() Validator {
	return Func("must be an RFC 3339 date-time", func(v string) bool {
		_, err := time.Parse(time.RFC3339Nano, v)
		return err == nil
	})
}

// Length accepts values whose rune count lies within [lo, hi].
func Length(lo, hi int) Validator {
	msg := fmt.Sprintf("must be %d to %d characters", lo, hi)
	if lo == hi {
		msg = fmt.Sprintf("must be exactly %d characters", lo)
	}
	return Func(msg, func(v string) bool {
		n := utf8.RuneCountInString(v)
		return n >= lo && n <= hi
	})
}

// MinLength accepts values of at least n runes.
func MinLength(n int) Validator {
	return Func(fmt.Sprintf("must be at least %d characters", n), func(v string) bool {
		return utf8.RuneCountInString(v) >= n
	})
}

// MaxLength accepts values of at most n runes.
func MaxLength(n int) Validator {
	return Func(fmt.Sprintf("must be at most %d characters", n), func(v string) bool {
		return utf8.RuneCountInString(v) <= n
	})
}

// Min accepts integers greater than or equal to n.
func Min(n int64) Validator {
	return Func(fmt.Sprintf("must be an integer >= %d", n), func(v string) bool {
		x, err := strconv.ParseInt(v, 10, 64)
		return err == nil && x >= n
	})
}

// Max accepts integers less than or equal to n.
func Max(n int64) Validator {
	return Func(fmt.Sprintf("must be an integer <= %d", n), func(v string) bool {
		x, err := strconv.ParseInt(v, 10, 64)
		return err == nil && x <= n
	})
}

// Range accepts integers within [lo, hi].
func Range(lo, hi int64) Validator {
	return Func(fmt.Sprintf("must be an integer between %d and %d", lo, hi), func(v string) bool {
		x, err := strconv.ParseInt(v, 10, 64)
		return err == nil && x >= lo && x <= hi
	})
}

// Enum accepts exactly one of the given values.
func Enum(values ...string) Validator {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Func("must be one of "+strings.Join(values, ", "), func(v string) bool {
		_, ok := set[v]
		return ok
	})
}

// Regexp accepts values matched by re. The caller decides anchoring.
func Regexp(re *regexp.Regexp, message string) Validator {
	if message == "" {
		message = "must match " + re.String()
	}
	return Func(message, re.MatchString)
}

// Pattern compiles expr anchored at both ends and returns a Validator for it.
func Pattern(expr string) (Validator, error) {
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return nil, fmt.Errorf("%w: regex %q: %w", ErrConstraintArgs, expr, err)
	}
	return Regexp(re, "must match "+expr), nil
}

func isDigits(v string) bool {
	if v == "" {
		return false
	}
	for i := range len(v) {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}
