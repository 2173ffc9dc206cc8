package argon

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	expected := Settings{
		IgnoreComments:               true,
		IgnoreProcessingInstructions: true,
		IgnoreWhitespace:             true,
		PrettyPrinting:               true,
		PrettyIndent:                 2,
	}
	if diff := cmp.Diff(expected, DefaultSettings()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigure(t *testing.T) {
	defer ResetSettings()

	Configure(WithPrettyPrinting(false), WithPrettyIndent(4))

	got := CurrentSettings()
	expected := DefaultSettings()
	expected.PrettyPrinting = false
	expected.PrettyIndent = 4
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("partial update mismatch (-want +got):\n%s", diff)
	}

	// Unmentioned fields survive a second partial update.
	Configure(WithIgnoreComments(false))
	got = CurrentSettings()
	expected.IgnoreComments = false
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("second update mismatch (-want +got):\n%s", diff)
	}
}

func TestResetSettings(t *testing.T) {
	Configure(WithIgnoreWhitespace(false), WithIgnoreProcessingInstructions(false))
	ResetSettings()
	if diff := cmp.Diff(DefaultSettings(), CurrentSettings()); diff != "" {
		t.Errorf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestWithSettingsDoesNotTouchGlobal(t *testing.T) {
	defer ResetSettings()

	x, err := Parse(`<a><b/></a>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}

	s := DefaultSettings()
	s.PrettyPrinting = false
	if !assert.Equal(t, `<a><b/></a>`, x.ToXMLString(WithSettings(s)), "per-call record wins") {
		return
	}
	if diff := cmp.Diff(DefaultSettings(), CurrentSettings()); diff != "" {
		t.Errorf("shared settings changed (-want +got):\n%s", diff)
	}
	if !assert.Equal(t, "<a>\n  <b/>\n</a>", x.ToXMLString(), "later calls use the shared record again") {
		return
	}
}

func TestConfigureAffectsParsing(t *testing.T) {
	defer ResetSettings()

	Configure(WithIgnoreComments(false))
	x, err := Parse(`<a><!--kept--></a>`)
	if !assert.NoError(t, err, "Parse(...) succeeds") {
		return
	}
	if !assert.Equal(t, 1, x.Comments().Length(), "shared settings drive parsing") {
		return
	}
}
