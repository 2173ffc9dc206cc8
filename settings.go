package argon

import "github.com/lestrrat-go/option"

// Settings is the shared parse/serialize configuration. The zero value
// is not useful; start from DefaultSettings.
type Settings struct {
	IgnoreComments               bool
	IgnoreProcessingInstructions bool
	IgnoreWhitespace             bool
	PrettyPrinting               bool
	PrettyIndent                 int
}

func DefaultSettings() Settings {
	return Settings{
		IgnoreComments:               true,
		IgnoreProcessingInstructions: true,
		IgnoreWhitespace:             true,
		PrettyPrinting:               true,
		PrettyIndent:                 2,
	}
}

// Execution is single-threaded by contract; the shared record has no
// lock on purpose.
var settings = DefaultSettings()

// CurrentSettings returns a copy of the process-wide settings.
func CurrentSettings() Settings {
	return settings
}

// Configure applies the given options to the process-wide settings,
// leaving unmentioned fields unchanged.
func Configure(options ...SettingsOption) {
	settings = settings.apply(options...)
}

// ResetSettings restores the documented defaults.
func ResetSettings() {
	settings = DefaultSettings()
}

func (s Settings) apply(options ...SettingsOption) Settings {
	for _, o := range options {
		switch o.Ident() {
		case identIgnoreComments{}:
			s.IgnoreComments = o.Value().(bool)
		case identIgnoreProcessingInstructions{}:
			s.IgnoreProcessingInstructions = o.Value().(bool)
		case identIgnoreWhitespace{}:
			s.IgnoreWhitespace = o.Value().(bool)
		case identPrettyPrinting{}:
			s.PrettyPrinting = o.Value().(bool)
		case identPrettyIndent{}:
			s.PrettyIndent = o.Value().(int)
		}
	}
	return s
}

type Option = option.Interface

type identIgnoreComments struct{}
type identIgnoreProcessingInstructions struct{}
type identIgnoreWhitespace struct{}
type identPrettyPrinting struct{}
type identPrettyIndent struct{}
type identSettings struct{}

// SettingsOption alters one field of a Settings record.
type SettingsOption interface {
	Option
	settingsOption()
}

type settingsOption struct{ Option }

func (*settingsOption) settingsOption() {}

// CallOption supplies a per-call Settings record to Parse, BuildValue,
// or a serialization entry point, bypassing the shared instance.
type CallOption interface {
	Option
	callOption()
}

type callOption struct{ Option }

func (*callOption) callOption() {}

func WithIgnoreComments(v bool) SettingsOption {
	return &settingsOption{option.New(identIgnoreComments{}, v)}
}

func WithIgnoreProcessingInstructions(v bool) SettingsOption {
	return &settingsOption{option.New(identIgnoreProcessingInstructions{}, v)}
}

func WithIgnoreWhitespace(v bool) SettingsOption {
	return &settingsOption{option.New(identIgnoreWhitespace{}, v)}
}

func WithPrettyPrinting(v bool) SettingsOption {
	return &settingsOption{option.New(identPrettyPrinting{}, v)}
}

func WithPrettyIndent(v int) SettingsOption {
	return &settingsOption{option.New(identPrettyIndent{}, v)}
}

// WithSettings makes a single call use the given record instead of the
// shared one.
func WithSettings(v Settings) CallOption {
	return &callOption{option.New(identSettings{}, v)}
}

// effectiveSettings resolves the record a call should run under.
func effectiveSettings(options ...CallOption) Settings {
	s := settings
	for _, o := range options {
		switch o.Ident() {
		case identSettings{}:
			s = o.Value().(Settings)
		}
	}
	return s
}
