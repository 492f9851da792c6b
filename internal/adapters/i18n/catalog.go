package i18n

import (
	"embed"
	"fmt"
	"net/http"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

const DefaultLang = "ar"

// Catalog holds flattened translations per language, e.g. "auction.saved".
type Catalog struct {
	messages map[string]map[string]string
	matcher  language.Matcher
	langs    []string
}

// NewCatalog loads the embedded catalogs. The default language is matched first.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{messages: make(map[string]map[string]string)}

	tags := []language.Tag{language.Arabic, language.English}
	for _, tag := range tags {
		base, _ := tag.Base()
		lang := base.String()

		raw, err := localesFS.ReadFile(path.Join("locales", lang+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s catalog: %w", lang, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse %s catalog: %w", lang, err)
		}

		flat := make(map[string]string)
		flatten("", tree, flat)
		c.messages[lang] = flat
		c.langs = append(c.langs, lang)
	}

	c.matcher = language.NewMatcher(tags)
	return c, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Translate returns the message or the key itself when it is missing.
func (c *Catalog) Translate(lang, key string) string {
	if msgs, ok := c.messages[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return key
}

// Match picks a supported language for an explicit choice or an
// Accept-Language header. Anything unsupported falls back to Arabic.
func (c *Catalog) Match(explicit, acceptLanguage string) string {
	if explicit = strings.ToLower(strings.TrimSpace(explicit)); explicit != "" {
		if _, ok := c.messages[explicit]; ok {
			return explicit
		}
	}
	if acceptLanguage == "" {
		return DefaultLang
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return DefaultLang
	}
	_, index, confidence := c.matcher.Match(prefs...)
	if confidence == language.No {
		return DefaultLang
	}
	return c.langs[index]
}

// LanguageOf resolves the request language from ?lang= then Accept-Language.
func (c *Catalog) LanguageOf(r *http.Request) string {
	return c.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}
