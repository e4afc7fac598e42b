package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/tengjizhang/drawer/internal/sidebar"
)

const (
	keyLatest        = "Latest"
	keyUnread        = "Unread"
	keyAll           = "All"
	keyStarred       = "Starred"
	keySubscriptions = "Subscriptions"
)

var supported = []language.Tag{language.English, language.French}

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyLatest:        "Latest",
		keyUnread:        "Unread",
		keyAll:           "All",
		keyStarred:       "Starred",
		keySubscriptions: "Subscriptions",
	},
	language.French: {
		keyLatest:        "Dernières nouvelles",
		keyUnread:        "Non lus",
		keyAll:           "Tous",
		keyStarred:       "Favoris",
		keySubscriptions: "Abonnements",
	},
}

var (
	cat     = newCatalog()
	matcher = language.NewMatcher(supported)
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Parse matches a user supplied language such as "fr-CA" or
// "fr_FR.UTF-8" against the supported languages. Unknown or empty input
// yields English.
func Parse(lang string) language.Tag {
	tag, err := language.Parse(normalize(lang))
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// Labels returns the fixed sidebar labels translated for tag.
func Labels(tag language.Tag) sidebar.Labels {
	p := message.NewPrinter(tag, message.Catalog(cat))
	return sidebar.Labels{
		Latest:        p.Sprintf(keyLatest),
		Unread:        p.Sprintf(keyUnread),
		All:           p.Sprintf(keyAll),
		Starred:       p.Sprintf(keyStarred),
		Subscriptions: p.Sprintf(keySubscriptions),
	}
}

func normalize(lang string) string {
	for i, r := range lang {
		if r == '.' || r == '@' {
			lang = lang[:i]
			break
		}
	}
	out := []rune(lang)
	for i, r := range out {
		if r == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}
