package ui

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
		{"  padded  ", 0, "padded"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
		-45000:  "-45,000",
	}
	for in, want := range tests {
		if got := formatCount(in); got != want {
			t.Errorf("formatCount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestTopCounts(t *testing.T) {
	got := topCounts(map[string]int{"horn": 2, "brake": 5, "signal": 2, "speed": 1}, 3)
	want := []count{{"brake", 5}, {"horn", 2}, {"signal", 2}}
	if len(got) != len(want) {
		t.Fatalf("topCounts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topCounts = %v, want %v", got, want)
		}
	}
}

func TestThemeCycle(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 || names[0] != "Slate" {
		t.Fatalf("ThemeNames() = %v", names)
	}
	name := names[0]
	for range names {
		name = NextTheme(name)
	}
	if name != names[0] {
		t.Fatalf("cycle ended at %q, want %q", name, names[0])
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q", got)
	}
	if got := GetTheme("unknown").Name; got != "Slate" {
		t.Fatalf("GetTheme(unknown) = %q", got)
	}
}
