package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// Locales is the set of languages the service answers in. The first one is
// the fallback for requests that match none.
type Locales struct {
	tags    []language.Tag
	matcher language.Matcher
}

// NewLocales builds a locale set from BCP 47 tags. fallback is placed first;
// an empty fallback uses English.
func NewLocales(fallback string, supported []string) (*Locales, error) {
	if strings.TrimSpace(fallback) == "" {
		fallback = "en"
	}
	seen := make(map[language.Tag]bool)
	var tags []language.Tag
	for _, raw := range append([]string{fallback}, supported...) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", raw, err)
		}
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return &Locales{tags: tags, matcher: language.NewMatcher(tags)}, nil
}

// Fallback returns the locale used when nothing else matches.
func (l *Locales) Fallback() string {
	return l.tags[0].String()
}

// Match maps an Accept-Language style header onto a supported locale. It
// reports false for an empty or unparseable header, or one that matches no
// supported locale.
func (l *Locales) Match(header string) (string, bool) {
	if strings.TrimSpace(header) == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := l.matcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	return l.tags[idx].String(), true
}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N stores the caller's locale and, when resolvable, country in the
// request context.
func I18N(locales *Locales, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), LocaleKey, detectLocale(r, locales))
			if country := ResolveCountry(r, lookup); country != "" {
				ctx = context.WithValue(ctx, CountryKey, country)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// detectLocale prefers X-Locale, then Accept-Language, then the fallback.
func detectLocale(r *http.Request, locales *Locales) string {
	if v, ok := locales.Match(r.Header.Get("X-Locale")); ok {
		return v
	}
	if v, ok := locales.Match(r.Header.Get("Accept-Language")); ok {
		return v
	}
	return locales.Fallback()
}

// ClientIP returns the connection address of the request. Forwarded headers
// are honoured only through chi's RealIP, which rewrites RemoteAddr.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleFromContext returns the locale stored by I18N, or "".
func LocaleFromContext(ctx context.Context) string {
	v, _ := ctx.Value(LocaleKey).(string)
	return v
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CountryKey).(string)
	return v
}

// ResolveCountry resolves a best-effort ISO country code for the request:
// CDN/proxy country headers, then a region written in the locale headers,
// then the IP lookup.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	for _, key := range []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"} {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if region := localeRegion(r.Header.Get("X-Locale")); region != "" {
		return region
	}
	if region := localeRegion(r.Header.Get("Accept-Language")); region != "" {
		return region
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

// localeRegion returns the first region subtag written explicitly in header.
func localeRegion(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if region, conf := tag.Region(); conf == language.Exact {
			return region.String()
		}
	}
	return ""
}
