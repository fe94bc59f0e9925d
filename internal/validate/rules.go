package validate

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Required fails when the field is absent or an empty string.
func Required(msg string) Rule {
	return func(_ context.Context, _ *Request, v *Value) error {
		if !v.Present {
			return errors.New(msg)
		}
		if s, ok := v.Raw.(string); ok && s == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// IsString fails when the raw value is not a JSON string.
func IsString(msg string) Rule {
	return func(_ context.Context, _ *Request, v *Value) error {
		if _, ok := v.Raw.(string); !ok {
			return errors.New(msg)
		}
		return nil
	}
}

// Trim strips surrounding whitespace in place. Non-string values pass
// through untouched.
func Trim() Rule {
	return func(_ context.Context, _ *Request, v *Value) error {
		if s, ok := v.Raw.(string); ok {
			v.Raw = strings.TrimSpace(s)
		}
		return nil
	}
}

// LengthBetween checks the rune count of the value inclusively.
func LengthBetween(min, max int, msg string) Rule {
	return func(_ context.Context, _ *Request, v *Value) error {
		n := len([]rune(v.Str()))
		if n < min || n > max {
			return errors.New(msg)
		}
		return nil
	}
}

// IsEmail accepts a bare RFC 5322 address without display name.
func IsEmail(msg string) Rule {
	return func(_ context.Context, _ *Request, v *Value) error {
		s := v.Str()
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return errors.New(msg)
		}
		return nil
	}
}

// IsISO8601 accepts full RFC 3339 timestamps and bare dates. Anything
// else, including out-of-range components, fails.
func IsISO8601(msg string) Rule {
	return func(_ context.Context, _ *Request, v *Value) error {
		if _, err := ParseISO8601(v.Str()); err != nil {
			return errors.New(msg)
		}
		return nil
	}
}

// ParseISO8601 parses the formats IsISO8601 accepts.
func ParseISO8601(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// Matches checks the value against a precompiled pattern.
func Matches(re *regexp.Regexp, msg string) Rule {
	return func(_ context.Context, _ *Request, v *Value) error {
		if !re.MatchString(v.Str()) {
			return errors.New(msg)
		}
		return nil
	}
}

// IsURL accepts http(s) URLs with a host; the scheme may be omitted.
func IsURL(msg string) Rule {
	return func(_ context.Context, _ *Request, v *Value) error {
		s := v.Str()
		if s == "" || strings.ContainsAny(s, " \t") {
			return errors.New(msg)
		}
		if !strings.Contains(s, "://") {
			s = "http://" + s
		}
		u, err := url.Parse(s)
		if err != nil || u.Hostname() == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return errors.New(msg)
		}
		return nil
	}
}

// StrongPasswordOptions sets the minimum count per character class.
type StrongPasswordOptions struct {
	MinLength  int
	MinLower   int
	MinUpper   int
	MinNumbers int
	MinSymbols int
}

// IsStrongPassword enforces per-class character minimums.
func IsStrongPassword(opts StrongPasswordOptions, msg string) Rule {
	return func(_ context.Context, _ *Request, v *Value) error {
		var lower, upper, numbers, symbols int
		s := v.Str()
		for _, r := range s {
			switch {
			case unicode.IsLower(r):
				lower++
			case unicode.IsUpper(r):
				upper++
			case unicode.IsDigit(r):
				numbers++
			default:
				symbols++
			}
		}
		if len([]rune(s)) < opts.MinLength ||
			lower < opts.MinLower || upper < opts.MinUpper ||
			numbers < opts.MinNumbers || symbols < opts.MinSymbols {
			return errors.New(msg)
		}
		return nil
	}
}

// NotAllowed rejects any value. Pair it with an Optional field so only
// clients that actually send the field are refused.
func NotAllowed(msg string) Rule {
	return func(_ context.Context, _ *Request, _ *Value) error {
		return errors.New(msg)
	}
}

// Custom wraps a domain check. The callback sees the current (possibly
// trimmed) value and the whole request, and may attach derived context
// via req.Set.
func Custom(fn func(ctx context.Context, value string, req *Request) error) Rule {
	return func(ctx context.Context, req *Request, v *Value) error {
		return fn(ctx, v.Str(), req)
	}
}
