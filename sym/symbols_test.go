package sym

import (
	"testing"
	"unicode/utf8"
)

func TestSymbolToCommandAndCommandToSymbolAreBidirectional(t *testing.T) {
	for symbol, cmd := range SymbolToCommand {
		got, ok := CommandToSymbol[cmd]
		if !ok {
			t.Errorf("SymbolToCommand has %q → %q, but CommandToSymbol has no entry for %q", symbol, cmd, cmd)
			continue
		}
		if got != symbol {
			t.Errorf("bidirectional mismatch: SymbolToCommand[%q] = %q, but CommandToSymbol[%q] = %q", symbol, cmd, cmd, got)
		}
	}
	if len(SymbolToCommand) != len(CommandToSymbol) {
		t.Errorf("map size mismatch: %d glyphs, %d commands", len(SymbolToCommand), len(CommandToSymbol))
	}
}

func TestGlyphsAreSingleRunes(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range registry {
		if n := utf8.RuneCountInString(e.glyph); n != 1 {
			t.Errorf("glyph %q for %q has %d runes", e.glyph, e.description, n)
		}
		if seen[e.glyph] {
			t.Errorf("glyph %q registered twice", e.glyph)
		}
		seen[e.glyph] = true
	}
}

func TestEveryCommandHasDescription(t *testing.T) {
	for cmd := range CommandToSymbol {
		if CommandDescriptions[cmd] == "" {
			t.Errorf("command %q has no description", cmd)
		}
	}
}

func TestForCommand(t *testing.T) {
	if got := ForCommand("knn"); got != KNN {
		t.Errorf("ForCommand(knn) = %q, want %q", got, KNN)
	}
	if got := ForCommand("nope"); got != "" {
		t.Errorf("ForCommand(nope) = %q, want empty", got)
	}
}

func TestByCategory(t *testing.T) {
	learners := ByCategory(CategoryLearner)
	want := []string{NBayes, KNN, ID3}
	if len(learners) != len(want) {
		t.Fatalf("ByCategory(CategoryLearner) = %v, want %v", learners, want)
	}
	for i := range want {
		if learners[i] != want[i] {
			t.Errorf("learner %d = %q, want %q", i, learners[i], want[i])
		}
	}
}
