package item

import "testing"

func TestStub(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"minecraft:stick", "stick"},
		{"#minecraft:planks", "planks"},
		{"#c:ingots/iron", "ingots/iron"},
		{"minecraft/stick", "stick"},
		{"stick", "stick"},
		{"#logs", "logs"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Stub(tt.in); got != tt.want {
				t.Errorf("Stub(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNamespace(t *testing.T) {
	if got := Namespace("#create:crushed_ores"); got != "create" {
		t.Errorf("Namespace() = %q, want %q", got, "create")
	}
	if got := Namespace("stick"); got != "" {
		t.Errorf("Namespace() = %q, want empty", got)
	}
}

func TestSlashForm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"minecraft:stick", "minecraft/stick"},
		{"#minecraft:planks", "#minecraft:planks"},
		{"stick", "stick"},
	}

	for _, tt := range tests {
		if got := SlashForm(tt.in); got != tt.want {
			t.Errorf("SlashForm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasColor(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"white_wool", true},
		{"light_blue_carpet", true},
		{"redstone_block", true},
		{"iron_ingot", false},
		{"torch", false},
	}

	for _, tt := range tests {
		if got := HasColor(tt.in, nil); got != tt.want {
			t.Errorf("HasColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if HasColor("white_wool", []string{"teal"}) {
		t.Error("custom palette should replace the default")
	}
}

func TestIsTag(t *testing.T) {
	if !IsTag("#minecraft:logs") {
		t.Error("IsTag(#minecraft:logs) = false, want true")
	}
	if IsTag("minecraft:oak_log") {
		t.Error("IsTag(minecraft:oak_log) = true, want false")
	}
}
