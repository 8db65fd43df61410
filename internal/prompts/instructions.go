package prompts

import "strings"

// DefaultLanguage is the language used when none is requested.
const DefaultLanguage = "en"

const englishFraming = `You are a meticulous document reviewer. Read the document excerpt below and report every place where it violates one of the listed rules.`

var framings = map[string]string{
	"en": englishFraming,
	"es": `Eres un revisor de documentos meticuloso. Lee el fragmento del documento a continuación e informa cada lugar donde incumple alguna de las reglas indicadas.`,
	"fr": `Vous êtes un relecteur de documents méticuleux. Lisez l'extrait ci-dessous et signalez chaque endroit où il enfreint l'une des règles listées.`,
	"de": `Sie sind ein sorgfältiger Dokumentprüfer. Lesen Sie den folgenden Dokumentauszug und melden Sie jede Stelle, an der er gegen eine der aufgeführten Regeln verstößt.`,
}

var aliases = map[string]string{
	"english":  "en",
	"spanish":  "es",
	"español":  "es",
	"french":   "fr",
	"français": "fr",
	"german":   "de",
	"deutsch":  "de",
}

// Framing returns the role and task sentence for language. An unknown
// language gets the English framing followed by an explicit directive to
// answer in that language.
func Framing(language string) string {
	lang := normalizeLanguage(language)
	if text, ok := framings[lang]; ok {
		return text
	}
	return englishFraming + "\nRespond in " + strings.TrimSpace(language) + "."
}

// Languages returns the language codes with a native framing.
func Languages() []string {
	return []string{"de", "en", "es", "fr"}
}

func normalizeLanguage(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return DefaultLanguage
	}
	if code, ok := aliases[lang]; ok {
		return code
	}
	return lang
}
