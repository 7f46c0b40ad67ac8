package telegram

import "testing"

func TestParseUserPrice(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"500", 500, false},
		{" 500$ ", 500, false},
		{"1 200", 1200, false},
		{"750,5", 750.5, false},
		{"-100", -100, false},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := parseUserPrice(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseUserPrice(%q) expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseUserPrice(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseUserPrice(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsUnlimited(t *testing.T) {
	for _, in := range []string{"без ограничений", " Unlimited ", "ულიმიტო", "No Limit"} {
		if !isUnlimited(in) {
			t.Errorf("isUnlimited(%q) = false, want true", in)
		}
	}
	for _, in := range []string{"1000", "", "почти без ограничений"} {
		if isUnlimited(in) {
			t.Errorf("isUnlimited(%q) = true, want false", in)
		}
	}
}

func TestTranslationFallback(t *testing.T) {
	if got := t2("ka", "menu_title"); got != "მთავარი მენიუ" {
		t.Errorf("ka menu_title = %q", got)
	}
	if got := t2("de", "menu_title"); got != "Главное меню" {
		t.Errorf("unknown language should fall back to Russian, got %q", got)
	}
	if got := t2("ru", "no_such_key"); got != "no_such_key" {
		t.Errorf("unknown key should echo, got %q", got)
	}
}

// t2 sidesteps the collision between the string table helper and the
// testing.T receiver name.
var t2 = t

func TestButtonTextsCoverEveryLanguage(t *testing.T) {
	texts := buttonTexts("btn_back")
	for _, want := range []string{"⬅️ Назад", "⬅️ Back", "⬅️ უკან"} {
		if _, ok := texts[want]; !ok {
			t.Errorf("buttonTexts(btn_back) missing %q", want)
		}
	}
}
