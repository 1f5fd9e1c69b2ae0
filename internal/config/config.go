package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Clock"
	AppID             = "com.github.tartampluch.go-clock"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	FaceManifest      = "face.yaml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	// Used for creating secure cache directories.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion        = "version"
	FlagDebug          = "debug"
	FlagTimeZone       = "tz"
	FlagNoSeconds      = "no-seconds"
	FlagDescVersion    = "Show application version and exit"
	FlagDescDebug      = "Enable debug logging to stdout"
	FlagDescTimeZone   = "Pin the clock to an IANA time zone (e.g. Europe/Paris)"
	FlagDescNoSeconds  = "Hide the second hand"
	MsgVersionOutput   = "%s version %s (%s/%s)\n"
	FlagDefaultEmpty   = ""
	FlagDefaultSeconds = false
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 420

	// Preference Keys
	PrefLanguage       = "language"
	PrefServerPort     = "server_port"
	PrefServerEnabled  = "server_enabled"
	PrefSecondsEnabled = "seconds_enabled"
	PrefTimeZone       = "time_zone"
	PrefLastRun        = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle         = "win_title"
	TKeyWinSettings      = "win_settings_title"
	TKeyMenuSettings     = "menu_settings"
	TKeyMenuSnapshot     = "menu_snapshot"
	TKeyLblLanguage      = "lbl_language"
	TKeyHelpLanguage     = "help_language"
	TKeyLblSeconds       = "lbl_seconds"
	TKeyLblTimeZone      = "lbl_time_zone"
	TKeyHelpTimeZone     = "help_time_zone"
	TKeyLblPort          = "lbl_server_port"
	TKeyHelpPort         = "help_port"
	TKeyLblServer        = "lbl_server_enabled"
	TKeyLblGeneral       = "lbl_general"
	TKeyLblDisplay       = "lbl_display"
	TKeyBtnSave          = "btn_save"
	TKeyBtnCancel        = "btn_cancel"
	TKeyLblFooter        = "lbl_footer"
	TKeyDescPattern      = "clock_description_pattern" // Go reference layout (e.g., "3:04 PM")
	TKeyErrPortReq       = "err_port_required"
	TKeyErrPortNum       = "err_port_number"
	TKeyErrPortRange     = "err_port_range"
	TKeyErrTimeZone      = "err_time_zone"
	TKeyPlaceholderZone  = "placeholder_time_zone"
	TKeyNotifServerError = "notif_server_error"
)

// -----------------------------------------------------------------------------
// Default Values & Clock Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort           = "18081"
	DefaultLanguage       = "en"
	DefaultSecondsEnabled = true
	DefaultServerEnabled  = false

	// DefaultDescPattern is used when no locale supplies a description layout.
	DefaultDescPattern = "3:04 PM"

	// Dial geometry.
	DegreesPerHour   = 30.0
	DegreesPerMinute = 6.0
	DegreesPerSecond = 6.0
	HoursOnDial      = 12

	// TickQuantum is the self-rescheduling cadence; ticks land on its boundaries.
	TickQuantum = time.Second

	// UnknownZoneName labels the zone used when a delivered zone id cannot be parsed.
	UnknownZoneName = "Unknown"
)

// -----------------------------------------------------------------------------
// Time Watcher
// -----------------------------------------------------------------------------

const (
	// SystemZoneLink is the symlink most Unix systems point at the active zoneinfo file.
	SystemZoneLink = "/etc/localtime"
	ZoneInfoMarker = "zoneinfo/"

	// ClockCheckInterval is how often wall time is compared with monotonic time.
	ClockCheckInterval = 5 * time.Second

	// ClockJumpThreshold is the drift between wall and monotonic elapsed time
	// that counts as a manual time change.
	ClockJumpThreshold = 2 * time.Second

	MinuteQuantum = time.Minute
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Limits
	MinPort = 1
	MaxPort = 65535

	// Face rendering
	SVGOpacity = 1.0

	// Snapshot size used when the widget has not been laid out yet.
	SnapshotFallbackSize = 256
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "1"
	AllowedMethods     = "GET, HEAD"
	RouteRoot          = "/"
	RouteMetrics       = "/metrics"
	AddrSeparator      = ":"
	SnapshotURLFormat  = "http://%s%s%s/"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeImagePNG        = "image/png"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricsNamespace      = "goclock"
	MetricRefreshes       = "refreshes_total"
	MetricRefreshesHelp   = "Number of time refreshes, by trigger."
	MetricTicksScheduled  = "ticks_scheduled_total"
	MetricTicksSchedHelp  = "Number of second-aligned ticks scheduled."
	MetricTicksCancelled  = "ticks_cancelled_total"
	MetricTicksCancelHelp = "Number of pending ticks cancelled on detach."
	MetricTickDelay       = "tick_delay_seconds"
	MetricTickDelayHelp   = "Delay until the next second boundary when a tick is scheduled."
	MetricAttached        = "attached"
	MetricAttachedHelp    = "1 while the clock face is attached to its host."
	MetricSnapshotBytes   = "snapshot_bytes"
	MetricSnapshotHelp    = "Size of the last encoded PNG snapshot."
	MetricLabelTrigger    = "trigger"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrMissingDrawable = "clock face drawable is missing"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrFaceManifest    = "failed to read face manifest"
	ErrFaceDecode      = "failed to decode face manifest"
	ErrFaceAsset       = "failed to load face asset"
	ErrFaceSize        = "face asset size must be positive"
	ErrFaceLoad        = "failed to load clock face"
	ErrSVGParse        = "failed to parse SVG asset"
	ErrWatcherCreate   = "failed to create zone watcher"
	ErrWatcherAdd      = "failed to watch zone link directory"
	ErrWatcherEvent    = "zone watcher reported an error"
	ErrZoneLink        = "failed to read system zone link"
	ErrTimeZoneInvalid = "invalid time zone"
	ErrSnapshotEncode  = "failed to encode clock snapshot"
	ErrMetricsRegister = "failed to register metrics"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Clock snapshot initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	TitleStartupError = "Startup Error"

	MsgAppStop          = "Application stopped gracefully"
	MsgCtxCancel        = "Context cancelled, shutting down UI"
	MsgAppStarting      = "Starting application"
	MsgServerListen     = "HTTP server listening"
	MsgServerStop       = "Shutting down HTTP server..."
	MsgCacheUpdated     = "Snapshot cache updated"
	MsgLocaleSkip       = "Skipping non-locale file"
	MsgLocaleBadName    = "Skipping malformed locale filename"
	MsgLocaleLoaded     = "Locale loaded successfully"
	MsgTransMissing     = "Missing translation key"
	MsgLogWarning       = "Warning: %s at %s: %v\n"
	MsgClockAttached    = "Clock attached"
	MsgClockDetached    = "Clock detached"
	MsgClockZone        = "Clock zone changed"
	MsgClockZoneIgnored = "Zone change ignored, fixed zone configured"
	MsgClockEventLate   = "Event delivered while detached, ignoring"
	MsgTickStale        = "Stale tick discarded"
	MsgFaceLoaded       = "Clock face loaded"
	MsgWatcherStart     = "Time watcher started"
	MsgWatcherStop      = "Time watcher stopping due to context cancellation"
	MsgWatcherNoZone    = "Zone link not watchable, zone changes will not be detected"
	MsgClockJump        = "Wall clock jump detected"
	MsgZoneLinkChanged  = "System zone link changed"
	MsgSettingsOpen     = "Opening settings window"
	MsgSettingsFocus    = "Settings window already open, requesting focus"
	MsgSettingsSaved    = "Settings saved"
	MsgWidgetRebuilt    = "Clock widget rebuilt"
	MsgDefaultLanguage  = "Detected system language"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyZone      = "zone"
	LogKeyPath      = "path"
	LogKeySeconds   = "seconds_enabled"
	LogKeyFixed     = "fixed_zone"
	LogKeyDrift     = "drift"
	LogKeyFace      = "face"
	LogKeyEvent     = "event"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompUISet   = "ui_settings"
	CompEngine  = "engine"
	CompServer  = "server"
	CompWatcher = "timewatch"
	CompFace    = "face"
	CompMain    = "main"
	CompI18n    = "i18n"
)
