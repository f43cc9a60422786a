package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/config"
	"golang.org/x/text/language"
)

const ContextLocale = "locale"

// LocaleResolver picks the locale attempt items are rendered in: an explicit
// ?locale= query first, then Accept-Language, then the configured default.
// Only configured locales are ever returned.
type LocaleResolver struct {
	supported []string
	matcher   language.Matcher
	def       string
}

func NewLocaleResolver(cfg *config.Config) *LocaleResolver {
	supported := cfg.Locale.Supported
	def := cfg.Locale.Default
	if def == "" {
		def = "en"
	}
	if len(supported) == 0 {
		supported = []string{def}
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}
	return &LocaleResolver{supported: supported, matcher: language.NewMatcher(tags), def: def}
}

func (r *LocaleResolver) Resolve(query, acceptLanguage string) string {
	if q := strings.TrimSpace(query); q != "" {
		if tag, err := language.Parse(q); err == nil {
			if locale, ok := r.match(tag); ok {
				return locale
			}
		}
	}
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			if locale, ok := r.match(tags...); ok {
				return locale
			}
		}
	}
	return r.def
}

func (r *LocaleResolver) match(tags ...language.Tag) (string, bool) {
	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(r.supported) {
		return "", false
	}
	return r.supported[idx], true
}

func (r *LocaleResolver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextLocale, r.Resolve(c.Query("locale"), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// Locale returns the locale resolved for this request, or "" outside the middleware.
func Locale(c *gin.Context) string {
	return c.GetString(ContextLocale)
}
