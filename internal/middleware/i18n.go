package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

var LocaleKey = localeContextKey{}

var supportedLocales = []language.Tag{
	language.English,
	language.Indonesian,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// I18N stores the negotiated locale in the request context. The X-Locale
// header wins over Accept-Language.
func I18N(defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string) string {
	if v := r.Header.Get("X-Locale"); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return matchLocale(tag)
		}
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			matched, _, confidence := localeMatcher.Match(tags...)
			if confidence > language.No {
				return baseLocale(matched)
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "en"
}

func matchLocale(tag language.Tag) string {
	matched, _, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return "en"
	}
	return baseLocale(matched)
}

func baseLocale(tag language.Tag) string {
	base, _ := tag.Base()
	if base.String() == "id" {
		return "id"
	}
	return "en"
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}
