package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	var picked string
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "One", Action: func() tea.Cmd { picked = "one"; return nil }},
		{Label: "Off again", Disabled: true},
		{Label: "Two", Action: func() tea.Cmd { picked = "two"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(key(tea.KeyDown))
	if m.Selected != 3 {
		t.Fatalf("after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(key(tea.KeyEnter))
	if picked != "two" {
		t.Errorf("picked = %q", picked)
	}
	m, _ = m.Update(key(tea.KeyUp))
	if m.Selected != 1 {
		t.Errorf("after up = %d, want 1", m.Selected)
	}
	if !strings.Contains(m.View(), "▸ One") {
		t.Errorf("view should highlight One:\n%s", m.View())
	}

	m, _ = m.Update(key(tea.KeyUp))
	if m.Selected != 3 {
		t.Errorf("up from the first item should wrap to 3, got %d", m.Selected)
	}
	m, _ = m.Update(key(tea.KeyHome))
	if m.Selected != 1 {
		t.Errorf("home = %d, want 1", m.Selected)
	}
}

func TestMenu_AllDisabled(t *testing.T) {
	called := false
	m := NewMenu([]MenuItem{{Label: "Off", Disabled: true, Action: func() tea.Cmd { called = true; return nil }}})
	m, _ = m.Update(key(tea.KeyDown))
	m, _ = m.Update(key(tea.KeyEnter))
	if m.Selected != 0 || called {
		t.Errorf("selected = %d, called = %v", m.Selected, called)
	}
}

func TestMultiChoice_EnterConfirms(t *testing.T) {
	m := NewMultiChoice("Your frame?", []string{"Thin", "Medium", "Large"}, -1)
	if m.Confirmed() {
		t.Fatal("should start unconfirmed")
	}
	m, _ = m.Update(key(tea.KeyDown))
	m, _ = m.Update(key(tea.KeyDown))
	m, _ = m.Update(key(tea.KeyDown))
	if m.Selected != 2 {
		t.Fatalf("selection should clamp at 2, got %d", m.Selected)
	}
	m, _ = m.Update(key(tea.KeyEnter))
	if !m.Confirmed() || m.Chosen != 2 {
		t.Errorf("chosen = %d", m.Chosen)
	}
}

func TestMultiChoice_LetterShortcut(t *testing.T) {
	m := NewMultiChoice("q", []string{"a", "b", "c"}, 2)
	if m.Selected != 2 {
		t.Fatalf("preselect = %d, want 2", m.Selected)
	}
	m, _ = m.Update(char('b'))
	if m.Chosen != 1 {
		t.Errorf("chosen = %d, want 1", m.Chosen)
	}

	m = NewMultiChoice("q", []string{"a", "b", "c"}, -1)
	m, _ = m.Update(char('z'))
	if m.Confirmed() {
		t.Error("out of range letter should be ignored")
	}
	if !strings.Contains(m.View(), "C)  c") {
		t.Errorf("view should label options:\n%s", m.View())
	}
}

func TestTextInput_Allowed(t *testing.T) {
	in := NewTextInput("Date of birth", "YYYY-MM-DD", 10)
	in.Allowed = "0123456789-"
	in.Focus()

	for _, r := range "19x90-0a4-12" {
		in, _ = in.Update(char(r))
	}
	if in.Value() != "1990-04-12" {
		t.Errorf("value = %q", in.Value())
	}

	in.SetError("bad date")
	if !strings.Contains(in.View(), "bad date") {
		t.Error("error should render")
	}
}

func TestProgressBar_Fraction(t *testing.T) {
	tests := []struct {
		value, total int
		want         float64
	}{
		{0, 18, 0},
		{9, 18, 0.5},
		{20, 18, 1},
		{3, 0, 0},
	}
	for _, tt := range tests {
		p := NewProgressBar("", tt.value, tt.total, 40)
		if got := p.Fraction(); got != tt.want {
			t.Errorf("Fraction(%d/%d) = %v, want %v", tt.value, tt.total, got, tt.want)
		}
	}
	if !strings.Contains(NewProgressBar("Vata", 4, 18, 40).View(), "4/18") {
		t.Error("view should show the counter")
	}
}
