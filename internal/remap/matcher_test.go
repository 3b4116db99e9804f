package remap

import (
	"context"
	"testing"

	"github.com/dshills/keyremap/internal/input/mode"
)

func TestMatcherExactMatch(t *testing.T) {
	bindings := []Binding{
		{Before: seq("g"), After: seq("single")},
		{Before: seq("g", "g"), After: seq("double")},
		{Before: seq("d", "d"), After: seq("first")},
		{Before: seq("d", "d"), After: seq("second")},
	}

	tests := []struct {
		name      string
		keys      []string
		mode      mode.Mode
		wantMatch bool
		wantAfter string
	}{
		{"single key", seq("g"), mode.Normal, true, "single"},
		{"two keys", seq("g", "g"), mode.Normal, true, "double"},
		{"first declared wins", seq("d", "d"), mode.Normal, true, "first"},
		{"suffix is not enough", seq("x", "g", "g"), mode.Normal, false, ""},
		{"prefix is not enough", seq("d"), mode.Normal, false, ""},
		{"visual mode", seq("g", "g"), mode.Visual, true, "double"},
		{"visual line mode", seq("g"), mode.VisualLine, true, "single"},
		{"visual block mode", seq("g"), mode.VisualBlock, true, "single"},
		{"insert mode ignored", seq("g"), mode.Insert, false, ""},
		{"replace mode ignored", seq("g"), mode.Replace, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(MatcherConfig{Group: mode.GroupOther, Recursive: true, Bindings: bindings})
			host := newFakeHost(tt.mode)

			res, err := m.AttemptMatch(context.Background(), tt.keys, host)
			if err != nil {
				t.Fatalf("AttemptMatch() error = %v", err)
			}
			if res.Handled != tt.wantMatch {
				t.Fatalf("Handled = %v, want %v", res.Handled, tt.wantMatch)
			}
			if tt.wantMatch && res.Binding.After[0] != tt.wantAfter {
				t.Errorf("applied %v, want %q", res.Binding.After, tt.wantAfter)
			}
			if !tt.wantMatch && len(host.calls) != 0 {
				t.Errorf("unexpected host calls: %s", host.ops())
			}
		})
	}
}

func TestMatcherInsertShortestSuffixWins(t *testing.T) {
	bindings := []Binding{
		{Before: seq("a", "j", "j"), After: seq("long")},
		{Before: seq("j", "j"), After: seq("short")},
		{Before: seq("k"), After: seq("k1")},
		{Before: seq("k"), After: seq("k2")},
	}

	tests := []struct {
		name      string
		keys      []string
		wantMatch bool
		wantAfter string
	}{
		{"shorter match beats earlier longer one", seq("a", "j", "j"), true, "short"},
		{"suffix of long history", seq("h", "e", "l", "l", "o", "j", "j"), true, "short"},
		{"same length keeps declaration order", seq("x", "k"), true, "k1"},
		{"no suffix matches", seq("j", "x"), false, ""},
		{"buffer shorter than trigger", seq("j"), false, ""},
		{"empty buffer", seq(), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(MatcherConfig{Group: mode.GroupInsert, Recursive: true, Bindings: bindings})
			host := newFakeHost(mode.Insert)

			res, err := m.AttemptMatch(context.Background(), tt.keys, host)
			if err != nil {
				t.Fatalf("AttemptMatch() error = %v", err)
			}
			if res.Handled != tt.wantMatch {
				t.Fatalf("Handled = %v, want %v", res.Handled, tt.wantMatch)
			}
			if tt.wantMatch && res.Binding.After[0] != tt.wantAfter {
				t.Errorf("applied %v, want %q", res.Binding.After, tt.wantAfter)
			}
		})
	}
}

func TestMatcherInsertIgnoresOtherModes(t *testing.T) {
	m := NewMatcher(MatcherConfig{Group: mode.GroupInsert, Recursive: true, Bindings: []Binding{{Before: seq("j", "j")}}})
	for _, md := range []mode.Mode{mode.Normal, mode.Visual, mode.Replace, mode.CommandLine} {
		res, err := m.AttemptMatch(context.Background(), seq("j", "j"), newFakeHost(md))
		if err != nil || res.Handled {
			t.Errorf("mode %v: Handled = %v, err = %v; want unhandled", md, res.Handled, err)
		}
	}
}

func TestMatcherPotentialRemap(t *testing.T) {
	bindings := []Binding{{Before: seq("<leader>", "w"), Commands: []Command{{Name: ":w"}}}}
	m := NewMatcher(MatcherConfig{Group: mode.GroupOther, Recursive: true, Bindings: bindings})
	host := newFakeHost(mode.Normal)
	ctx := context.Background()

	if m.IsPotentialRemap() {
		t.Fatal("new matcher should not report a potential remap")
	}

	if res, _ := m.AttemptMatch(ctx, seq("<leader>"), host); res.Handled {
		t.Fatal("prefix should not be handled")
	}
	if !m.IsPotentialRemap() {
		t.Error("<leader> should be a potential remap")
	}

	// Mode outside the group leaves the flag alone.
	host.mode = mode.Insert
	_, _ = m.AttemptMatch(ctx, seq("x"), host)
	if !m.IsPotentialRemap() {
		t.Error("flag changed by a call outside the matcher's modes")
	}

	host.mode = mode.Normal
	_, _ = m.AttemptMatch(ctx, seq("x"), host)
	if m.IsPotentialRemap() {
		t.Error("x should not be a potential remap")
	}

	_, _ = m.AttemptMatch(ctx, seq("<leader>"), host)
	res, _ := m.AttemptMatch(ctx, seq("<leader>", "w"), host)
	if !res.Handled {
		t.Fatal("<leader>w should match")
	}
	if m.IsPotentialRemap() {
		t.Error("flag must be false after a match")
	}
}

func TestMatcherInsertPotentialUsesFullBuffer(t *testing.T) {
	bindings := []Binding{{Before: seq("j", "k"), After: seq("<Esc>")}}
	m := NewMatcher(MatcherConfig{Group: mode.GroupInsert, Recursive: true, Bindings: bindings})
	host := newFakeHost(mode.Insert)
	ctx := context.Background()

	_, _ = m.AttemptMatch(ctx, seq("j"), host)
	if !m.IsPotentialRemap() {
		t.Error("[j] is a prefix of [j k]")
	}

	// The suffix "j" is a prefix of the trigger, but the check looks at the
	// whole buffer.
	_, _ = m.AttemptMatch(ctx, seq("a", "j"), host)
	if m.IsPotentialRemap() {
		t.Error("[a j] is not a prefix of [j k]")
	}
}

func TestMatcherNilHost(t *testing.T) {
	m := NewMatcher(MatcherConfig{Group: mode.GroupOther})
	if _, err := m.AttemptMatch(context.Background(), seq("a"), nil); err != ErrNilHost {
		t.Errorf("error = %v, want ErrNilHost", err)
	}
}

func TestMatcherAccessors(t *testing.T) {
	m := NewMatcher(MatcherConfig{Group: mode.GroupInsert, Recursive: false, Bindings: []Binding{{Before: seq("a", "b")}}})
	if m.Group() != mode.GroupInsert {
		t.Errorf("Group() = %v", m.Group())
	}
	if m.Recursive() {
		t.Error("Recursive() = true")
	}
	if m.Table().LongestBefore() != 2 {
		t.Errorf("Table().LongestBefore() = %d", m.Table().LongestBefore())
	}
}
