// Package language defines the closed set of languages cliptr can detect
// and translate into, with their ISO 639-1 codes and display metadata.
//
// A Language has two canonical text forms: the upper-case ISO 639-1 code
// ("EN") and the English name ("English"). Parsing accepts either, plus
// native names and BCP 47 locale tags ("pt_BR", "en-US"), in that order.
package language

import (
	"errors"
	"fmt"
	"strings"

	xlang "golang.org/x/text/language"
)

// Language identifies a supported language. The zero value is Unknown and
// stands for "no language" (e.g. detection failed).
type Language uint8

const (
	Unknown Language = iota
	Arabic
	Belarusian
	Bulgarian
	Chinese
	Czech
	Danish
	Dutch
	English
	Estonian
	Finnish
	French
	German
	Greek
	Hebrew
	Hindi
	Hungarian
	Indonesian
	Italian
	Japanese
	Korean
	Latvian
	Lithuanian
	Norwegian
	Persian
	Polish
	Portuguese
	Romanian
	Russian
	Serbian
	Slovak
	Slovenian
	Spanish
	Swedish
	Turkish
	Ukrainian
	Vietnamese

	numLanguages
)

// Fallback is used whenever no other language can be determined.
const Fallback = English

// Meta describes language display metadata.
type Meta struct {
	Code    string // ISO 639-1, lower case
	Name    string // English name
	Native  string
	Flag    string
	aliases []string
}

var registry = [numLanguages]Meta{
	Unknown:    {},
	Arabic:     {Code: "ar", Name: "Arabic", Native: "العربية", Flag: "🇸🇦"},
	Belarusian: {Code: "be", Name: "Belarusian", Native: "Беларуская", Flag: "🇧🇾"},
	Bulgarian:  {Code: "bg", Name: "Bulgarian", Native: "Български", Flag: "🇧🇬"},
	Chinese:    {Code: "zh", Name: "Chinese", Native: "中文", Flag: "🇨🇳", aliases: []string{"Mandarin"}},
	Czech:      {Code: "cs", Name: "Czech", Native: "Čeština", Flag: "🇨🇿"},
	Danish:     {Code: "da", Name: "Danish", Native: "Dansk", Flag: "🇩🇰"},
	Dutch:      {Code: "nl", Name: "Dutch", Native: "Nederlands", Flag: "🇳🇱"},
	English:    {Code: "en", Name: "English", Native: "English", Flag: "🇺🇸"},
	Estonian:   {Code: "et", Name: "Estonian", Native: "Eesti", Flag: "🇪🇪"},
	Finnish:    {Code: "fi", Name: "Finnish", Native: "Suomi", Flag: "🇫🇮"},
	French:     {Code: "fr", Name: "French", Native: "Français", Flag: "🇫🇷"},
	German:     {Code: "de", Name: "German", Native: "Deutsch", Flag: "🇩🇪"},
	Greek:      {Code: "el", Name: "Greek", Native: "Ελληνικά", Flag: "🇬🇷"},
	Hebrew:     {Code: "he", Name: "Hebrew", Native: "עברית", Flag: "🇮🇱"},
	Hindi:      {Code: "hi", Name: "Hindi", Native: "हिन्दी", Flag: "🇮🇳"},
	Hungarian:  {Code: "hu", Name: "Hungarian", Native: "Magyar", Flag: "🇭🇺"},
	Indonesian: {Code: "id", Name: "Indonesian", Native: "Bahasa Indonesia", Flag: "🇮🇩"},
	Italian:    {Code: "it", Name: "Italian", Native: "Italiano", Flag: "🇮🇹"},
	Japanese:   {Code: "ja", Name: "Japanese", Native: "日本語", Flag: "🇯🇵"},
	Korean:     {Code: "ko", Name: "Korean", Native: "한국어", Flag: "🇰🇷"},
	Latvian:    {Code: "lv", Name: "Latvian", Native: "Latviešu", Flag: "🇱🇻"},
	Lithuanian: {Code: "lt", Name: "Lithuanian", Native: "Lietuvių", Flag: "🇱🇹"},
	Norwegian:  {Code: "nb", Name: "Norwegian", Native: "Norsk bokmål", Flag: "🇳🇴", aliases: []string{"Bokmal", "Bokmål"}},
	Persian:    {Code: "fa", Name: "Persian", Native: "فارسی", Flag: "🇮🇷", aliases: []string{"Farsi"}},
	Polish:     {Code: "pl", Name: "Polish", Native: "Polski", Flag: "🇵🇱"},
	Portuguese: {Code: "pt", Name: "Portuguese", Native: "Português", Flag: "🇵🇹", aliases: []string{"European Portuguese"}},
	Romanian:   {Code: "ro", Name: "Romanian", Native: "Română", Flag: "🇷🇴"},
	Russian:    {Code: "ru", Name: "Russian", Native: "Русский", Flag: "🇷🇺"},
	Serbian:    {Code: "sr", Name: "Serbian", Native: "Српски", Flag: "🇷🇸"},
	Slovak:     {Code: "sk", Name: "Slovak", Native: "Slovenčina", Flag: "🇸🇰"},
	Slovenian:  {Code: "sl", Name: "Slovenian", Native: "Slovenščina", Flag: "🇸🇮", aliases: []string{"Slovene"}},
	Spanish:    {Code: "es", Name: "Spanish", Native: "Español", Flag: "🇪🇸"},
	Swedish:    {Code: "sv", Name: "Swedish", Native: "Svenska", Flag: "🇸🇪"},
	Turkish:    {Code: "tr", Name: "Turkish", Native: "Türkçe", Flag: "🇹🇷"},
	Ukrainian:  {Code: "uk", Name: "Ukrainian", Native: "Українська", Flag: "🇺🇦"},
	Vietnamese: {Code: "vi", Name: "Vietnamese", Native: "Tiếng Việt", Flag: "🇻🇳"},
}

// codeAliases maps retired or macro-language ISO codes onto the registry.
var codeAliases = map[string]Language{
	"no": Norwegian,
	"iw": Hebrew,
	"in": Indonesian,
}

var (
	byCode = make(map[string]Language, numLanguages)
	byName = make(map[string]Language, numLanguages*3)
)

func init() {
	for l := Unknown + 1; l < numLanguages; l++ {
		m := registry[l]
		byCode[m.Code] = l
		byName[strings.ToLower(m.Name)] = l
		byName[strings.ToLower(m.Native)] = l
		for _, a := range m.aliases {
			byName[strings.ToLower(a)] = l
		}
	}
	for code, l := range codeAliases {
		byCode[code] = l
	}
}

// ErrUnknown is matched by every error returned from the parse functions.
var ErrUnknown = errors.New("unknown language")

// UnknownLanguageError reports input that names no supported language.
type UnknownLanguageError struct {
	Input string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown language %q", e.Input)
}

func (e *UnknownLanguageError) Unwrap() error { return ErrUnknown }

// Valid reports whether l is a member of the supported set.
func (l Language) Valid() bool {
	return l > Unknown && l < numLanguages
}

// Meta returns display metadata for l. Invalid values yield a zero Meta.
func (l Language) Meta() Meta {
	if !l.Valid() {
		return Meta{}
	}
	return registry[l]
}

// Code returns the upper-case ISO 639-1 code, e.g. "EN".
func (l Language) Code() string {
	return strings.ToUpper(l.Meta().Code)
}

// Name returns the English name, e.g. "English".
func (l Language) Name() string {
	return l.Meta().Name
}

// Native returns the language's own name for itself.
func (l Language) Native() string {
	return l.Meta().Native
}

// Flag returns an emoji flag for display, or "".
func (l Language) Flag() string {
	return l.Meta().Flag
}

func (l Language) String() string {
	if !l.Valid() {
		return "Unknown"
	}
	return l.Name()
}

// MarshalText encodes l as its ISO code so persisted files stay compact.
func (l Language) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("marshaling language: %w", &UnknownLanguageError{Input: fmt.Sprint(uint8(l))})
	}
	return []byte(l.Code()), nil
}

// UnmarshalText accepts any form Parse accepts.
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// canonicalize normalizes locale spellings: "pt_br" -> "pt-BR".
func canonicalize(s string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// ParseCode parses an ISO 639-1 code in any case ("en", "EN") or a BCP 47
// locale tag whose base language is supported ("en-US", "pt_BR").
func ParseCode(s string) (Language, error) {
	tag := canonicalize(s)
	if tag == "" {
		return Unknown, &UnknownLanguageError{Input: s}
	}
	if l, ok := byCode[tag]; ok {
		return l, nil
	}
	t, err := xlang.Parse(tag)
	if err != nil {
		return Unknown, &UnknownLanguageError{Input: s}
	}
	base, conf := t.Base()
	if conf != xlang.Exact {
		return Unknown, &UnknownLanguageError{Input: s}
	}
	if l, ok := byCode[base.String()]; ok {
		return l, nil
	}
	return Unknown, &UnknownLanguageError{Input: s}
}

// ParseName parses an English name, a native name, or a known alias,
// ignoring case.
func ParseName(s string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if l, ok := byName[key]; ok {
		return l, nil
	}
	return Unknown, &UnknownLanguageError{Input: s}
}

// Parse tries ParseCode and then ParseName.
func Parse(s string) (Language, error) {
	if l, err := ParseCode(s); err == nil {
		return l, nil
	}
	if l, err := ParseName(s); err == nil {
		return l, nil
	}
	return Unknown, &UnknownLanguageError{Input: s}
}

// All returns every supported language in stable order.
func All() []Language {
	out := make([]Language, 0, numLanguages-1)
	for l := Unknown + 1; l < numLanguages; l++ {
		out = append(out, l)
	}
	return out
}

// Contains reports whether list contains l.
func Contains(list []Language, l Language) bool {
	return Index(list, l) >= 0
}

// Index returns the position of l in list, or -1.
func Index(list []Language, l Language) int {
	for i, x := range list {
		if x == l {
			return i
		}
	}
	return -1
}

// Dedup returns list without invalid entries and without repeats, keeping
// the first occurrence of each language.
func Dedup(list []Language) []Language {
	seen := make(map[Language]bool, len(list))
	out := make([]Language, 0, len(list))
	for _, l := range list {
		if !l.Valid() || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// Codes returns the ISO codes of list, in order.
func Codes(list []Language) []string {
	out := make([]string, len(list))
	for i, l := range list {
		out[i] = l.Code()
	}
	return out
}
