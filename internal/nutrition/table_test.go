package nutrition

import "testing"

func TestLookup(t *testing.T) {
	t.Run("DirectMatch", func(t *testing.T) {
		info, ok := Lookup("frango")
		if !ok {
			t.Fatal("Expected 'frango' to be known")
		}
		if info.KcalPer100 != 165 {
			t.Errorf("Expected 165 kcal/100g for frango, got %v", info.KcalPer100)
		}
	})

	t.Run("AccentInsensitive", func(t *testing.T) {
		if _, ok := Lookup("Pão francês"); !ok {
			t.Error("Expected accented 'Pão francês' to match 'pao'")
		}
	})

	t.Run("KeywordWithinName", func(t *testing.T) {
		info, ok := Lookup("peito de frango grelhado")
		if !ok {
			t.Fatal("Expected keyword match inside a longer name")
		}
		if info.KcalPer100 != 165 {
			t.Errorf("Expected frango data, got %v", info.KcalPer100)
		}
	})

	t.Run("LongestKeywordWins", func(t *testing.T) {
		info, ok := Lookup("carne moída")
		if !ok {
			t.Fatal("Expected 'carne moída' to be known")
		}
		if info.KcalPer100 != 240 {
			t.Errorf("Expected carne moida entry, got %v", info.KcalPer100)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, ok := Lookup("pitaya"); ok {
			t.Error("Did not expect 'pitaya' to be in the table")
		}
	})
}
