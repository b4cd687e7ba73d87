package i18n

import (
	"context"
	"strings"
)

// DefaultLang is used when no supported language can be detected.
const DefaultLang = "fr"

var messages = map[string]map[string]string{
	"fr": {
		"required":             "Requis",
		"invalid":              "Invalide",
		"too_short":            "Trop court",
		"too_long":             "Trop long",
		"out_of_range":         "Hors limites",
		"must_not_be_negative": "Ne doit pas être négatif",
		"already_exists":       "Existe déjà",
		"column_exists":        "Une colonne porte déjà ce nom",
		"column_protected":     "Cette colonne ne peut pas être supprimée",
		"not_found":            "Introuvable",
		"unknown_entity":       "Entité inconnue",
		"invalid_event":        "Événement invalide",
		"session_not_found":    "Session introuvable",
	},
	"en": {
		"required":             "Required",
		"invalid":              "Invalid",
		"too_short":            "Too short",
		"too_long":             "Too long",
		"out_of_range":         "Out of range",
		"must_not_be_negative": "Must not be negative",
		"already_exists":       "Already exists",
		"column_exists":        "A column with this name already exists",
		"column_protected":     "This column cannot be removed",
		"not_found":            "Not found",
		"unknown_entity":       "Unknown entity",
		"invalid_event":        "Invalid event",
		"session_not_found":    "Session not found",
	},
}

// T translates code into lang. Unknown languages use the French catalogue
// and unknown codes are returned as is.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks the first supported language of an Accept-Language
// header, or DefaultLang.
func DetectLanguage(header string) string {
	if lang, ok := Match(header); ok {
		return lang
	}
	return DefaultLang
}

// Match returns the first supported language of an Accept-Language header.
// ok is false when the header names none.
func Match(header string) (lang string, ok bool) {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if _, ok := messages[base]; ok {
			return base, true
		}
	}
	return "", false
}

// Supported reports whether lang has a catalogue.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

type ctxKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFrom returns the language stored by WithLang, or DefaultLang.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}

// Localize translates every code of a violations map.
func Localize(lang string, codes map[string]string) map[string]string {
	out := make(map[string]string, len(codes))
	for k, v := range codes {
		out[k] = T(lang, v)
	}
	return out
}
