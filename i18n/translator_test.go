package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	enMsg := T("type", nil)
	if enMsg == "type" || enMsg == "" {
		t.Fatalf("expected a human message, got %q", enMsg)
	}

	SetLanguage("ja")
	jaMsg := T("type", nil)
	if jaMsg == enMsg {
		t.Fatalf("expected japanese message, got %q", jaMsg)
	}

	// unknown keyword falls back to the keyword itself
	if msg := T("not_a_real_keyword", nil); msg != "not_a_real_keyword" {
		t.Fatalf("expected fallback to keyword, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}
