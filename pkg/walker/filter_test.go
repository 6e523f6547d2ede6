package walker

import "testing"

func TestSubstringFilter(t *testing.T) {
	tests := []struct {
		name   string
		substr string
		id     string
		want   bool
	}{
		{"exact match", "junit", "junit", true},
		{"substring match", "test", "org.example:lib-test:1.0", true},
		{"case insensitive filter", "TEST", "org.example:lib-test:1.0", true},
		{"case insensitive id", "test", "org.example:LIB-TEST:1.0", true},
		{"no match", "junit", "org.example:app:1.0", false},
		{"empty filter never skips", "", "anything", false},
		{"empty filter with empty id", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSubstringFilter(tt.substr)
			if got := f.Skip(tt.id); got != tt.want {
				t.Errorf("Skip(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
