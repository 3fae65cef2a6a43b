// Package i18n localizes user-facing message strings. Catalogs are
// plain JSON files (locales/<locale>/messages.json) loaded once at
// startup; each request gets a Translator picked from the URL locale
// prefix or the Accept-Language header. Missing catalogs, locales and
// keys all degrade to the key itself, so handlers can call the
// translator unconditionally.
package i18n

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// Translator maps a message key to localized text. Substitutions
// replace {name} placeholders in the resolved message. An unresolved
// key is returned as-is.
type Translator func(key string, args map[string]string) string

// Identity is the fallback Translator used when no catalog applies.
func Identity(key string, args map[string]string) string {
	return substitute(key, args)
}

// Catalog holds every loaded locale plus the negotiation state.
type Catalog struct {
	defaultLocale string
	supported     []string
	matcher       language.Matcher
	messages      map[string]map[string]string // locale -> key -> text
}

// Load reads messages.json for every supported locale under dir.
// A missing file only logs a warning; the locale then serves fallback
// text.
func Load(dir, defaultLocale string, supported []string) *Catalog {
	tags := make([]language.Tag, 0, len(supported))
	for _, loc := range supported {
		tags = append(tags, language.Make(loc))
	}
	c := &Catalog{
		defaultLocale: defaultLocale,
		supported:     supported,
		matcher:       language.NewMatcher(tags),
		messages:      make(map[string]map[string]string, len(supported)),
	}
	for _, loc := range supported {
		path := filepath.Join(dir, loc, "messages.json")
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("i18n: no catalog for locale %q (%v)", loc, err)
			continue
		}
		m := make(map[string]string)
		if err := json.Unmarshal(raw, &m); err != nil {
			log.Printf("i18n: bad catalog for locale %q: %v", loc, err)
			continue
		}
		c.messages[loc] = m
	}
	return c
}

// Negotiate picks the best supported locale for a request. A locale
// prefix in the path ("/en/...") wins over the Accept-Language header.
func (c *Catalog) Negotiate(path, acceptLanguage string) string {
	trimmed := strings.TrimPrefix(path, "/")
	for _, loc := range c.supported {
		if trimmed == loc || strings.HasPrefix(trimmed, loc+"/") {
			return loc
		}
	}
	if acceptLanguage != "" {
		if _, idx := language.MatchStrings(c.matcher, acceptLanguage); idx >= 0 && idx < len(c.supported) {
			return c.supported[idx]
		}
	}
	return c.defaultLocale
}

// Translator returns the Translator for a locale. Lookup order: the
// locale's catalog, the default locale's catalog, then the key itself.
func (c *Catalog) Translator(locale string) Translator {
	msgs := c.messages[locale]
	fallback := c.messages[c.defaultLocale]
	return func(key string, args map[string]string) string {
		text, ok := msgs[key]
		if !ok {
			if text, ok = fallback[key]; !ok {
				text = key
			}
		}
		return substitute(text, args)
	}
}

func substitute(text string, args map[string]string) string {
	if len(args) == 0 {
		return text
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
