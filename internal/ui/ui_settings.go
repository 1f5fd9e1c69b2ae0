package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-clock/internal/config"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect   *widget.Select
	secondsCheck *widget.Check
	zoneEntry    *widget.Entry
	serverCheck  *widget.Check
	portEntry    *PortEntry
}

// ShowSettingsWindow displays the configuration dialog.
func (app *GoClockApp) ShowSettingsWindow() {
	if app.SettingsWindow != nil {
		slog.Debug(config.MsgSettingsFocus, config.LogKeyComponent, config.CompUISet)
		app.SettingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgSettingsOpen, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.SettingsWindow = w

	sw := app.buildSettingsWidgets()

	// --- Display Section ---
	itemZone := widget.NewFormItem(app.GetMsg(config.TKeyLblTimeZone), sw.zoneEntry)
	itemZone.HintText = app.GetMsg(config.TKeyHelpTimeZone)
	displayCard := widget.NewCard(app.GetMsg(config.TKeyLblDisplay), "",
		container.NewVBox(sw.secondsCheck, widget.NewForm(itemZone)))

	// --- General Section (Language & Server) ---
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.portEntry)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "",
		container.NewVBox(widget.NewForm(itemLang), sw.serverCheck, widget.NewForm(itemPort)))

	// --- Actions ---
	saveAction := func() {
		if err := app.validateSettings(sw); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	// --- Footer ---
	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewPadded(container.NewVBox(
		displayCard,
		generalCard,
		container.NewGridWithColumns(2, btnCancel, btnSave),
		footerLabel,
	))

	w.SetContent(content)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.SettingsWindow = nil })
	w.Show()
}

// buildSettingsWidgets creates the inputs pre-filled from preferences.
func (app *GoClockApp) buildSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	sw.secondsCheck = widget.NewCheck(app.GetMsg(config.TKeyLblSeconds), nil)
	sw.secondsCheck.SetChecked(app.Preferences.BoolWithFallback(config.PrefSecondsEnabled, config.DefaultSecondsEnabled))
	if app.NoSeconds {
		sw.secondsCheck.Disable()
	}

	sw.zoneEntry = widget.NewEntry()
	sw.zoneEntry.SetPlaceHolder(app.GetMsg(config.TKeyPlaceholderZone))
	sw.zoneEntry.SetText(app.Preferences.String(config.PrefTimeZone))
	sw.zoneEntry.Validator = func(s string) error {
		if ZoneProblem(s) {
			return errors.New(app.GetMsg(config.TKeyErrTimeZone))
		}
		return nil
	}
	if app.ZoneOverride != "" {
		sw.zoneEntry.SetText(app.ZoneOverride)
		sw.zoneEntry.Disable()
	}

	sw.serverCheck = widget.NewCheck(app.GetMsg(config.TKeyLblServer), nil)
	sw.serverCheck.SetChecked(app.serverEnabled())

	sw.portEntry = NewPortEntry(app.GetMsg)
	sw.portEntry.SetText(app.serverPort())

	return sw
}

// ZoneProblem reports whether s is neither empty nor a loadable IANA zone.
func ZoneProblem(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := time.LoadLocation(s)
	return err != nil
}

// validateSettings blocks saving on an invalid zone or, when the server is
// enabled, an invalid port.
func (app *GoClockApp) validateSettings(sw *settingsWidgets) error {
	if !sw.zoneEntry.Disabled() {
		if err := sw.zoneEntry.Validate(); err != nil {
			return err
		}
	}
	if sw.serverCheck.Checked {
		if err := sw.portEntry.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// saveSettings persists the preferences and applies them to the running app.
func (app *GoClockApp) saveSettings(sw *settingsWidgets) {
	if sw.langSelect.Selected != "" {
		app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	}
	if !app.NoSeconds {
		app.Preferences.SetBool(config.PrefSecondsEnabled, sw.secondsCheck.Checked)
	}
	if app.ZoneOverride == "" {
		app.Preferences.SetString(config.PrefTimeZone, strings.TrimSpace(sw.zoneEntry.Text))
	}
	app.Preferences.SetBool(config.PrefServerEnabled, sw.serverCheck.Checked)
	if PortProblem(sw.portEntry.Text) == "" {
		app.Preferences.SetString(config.PrefServerPort, sw.portEntry.Text)
	}

	slog.Info(config.MsgSettingsSaved,
		config.LogKeyComponent, config.CompUISet,
		config.LogKeySeconds, sw.secondsCheck.Checked,
		config.LogKeyZone, sw.zoneEntry.Text,
	)

	// Trigger system-wide updates
	app.UpdateLocalizer()
	if app.Window != nil {
		app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))
	}
	if err := app.RebuildClock(); err != nil {
		slog.Error(config.ErrFaceLoad,
			config.LogKeyComponent, config.CompUISet,
			config.LogKeyError, err,
		)
	}
	app.RestartServer()
	app.refreshMainMenu()
}
