package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/akopian/portfolio/internal/models"
)

// supportedTags is ordered so that the first entry is the matcher fallback
var supportedTags = []language.Tag{language.Russian, language.English}

var matcher = language.NewMatcher(supportedTags)

// ParseLanguage maps a BCP 47 tag such as "en-GB" or "ru" to a supported code
func ParseLanguage(value string) (models.LanguageCode, error) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, value)
	}
	base, _ := tag.Base()
	code := models.LanguageCode(base.String())
	if !code.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, value)
	}
	return code, nil
}

// MatchAcceptLanguage picks the best supported language for an
// Accept-Language header, falling back to the default language
func MatchAcceptLanguage(header string) models.LanguageCode {
	header = strings.TrimSpace(header)
	if header == "" {
		return models.DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return models.DefaultLanguage
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return models.DefaultLanguage
	}
	if index == 1 {
		return models.LanguageEN
	}
	return models.LanguageRU
}
