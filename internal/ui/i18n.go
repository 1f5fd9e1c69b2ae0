package ui

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/jeandeaual/go-locale"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/samber/lo"
	"github.com/tartampluch/go-clock/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n initializes the translation bundle and detects available languages.
func (app *GoClockApp) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	app.SupportedLanguages = detectedLangs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// UpdateLocalizer refreshes the translator based on the user's language preference.
// Without a preference, the system language is used when a locale matches it.
func (app *GoClockApp) UpdateLocalizer() {
	lang := app.Preferences.String(config.PrefLanguage)
	if lang == "" {
		lang = app.systemLanguage()
	}
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, lang)
}

func (app *GoClockApp) systemLanguage() string {
	sys, err := locale.GetLocale()
	if err != nil {
		return config.DefaultLanguage
	}
	lang := MatchLanguage(sys, app.SupportedLanguages)
	slog.Debug(config.MsgDefaultLanguage,
		config.LogKeyComponent, config.CompI18n,
		config.LogKeyLang, lang,
	)
	return lang
}

// MatchLanguage picks the supported language closest to a BCP 47 system
// locale such as "fr-CA", falling back to the default language.
func MatchLanguage(system string, supported []string) string {
	if system == "" || len(supported) == 0 {
		return config.DefaultLanguage
	}
	tags := lo.Map(supported, func(code string, _ int) language.Tag {
		return language.Make(code)
	})
	_, idx, confidence := language.NewMatcher(tags).Match(language.Make(system))
	if confidence == language.No {
		return config.DefaultLanguage
	}
	return supported[idx]
}

// GetMsg is a helper to translate a key safely.
func (app *GoClockApp) GetMsg(key string) string {
	if app.Localizer == nil {
		return key
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
