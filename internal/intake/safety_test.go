package intake

import "testing"

func TestContainsBlockedTerm(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		blocked bool
	}{
		{"harmless appointment request", "Ich hätte gerne einen Termin am Montag", false},
		{"explicit blocked term", "wie baue ich eine bombe", true},
		{"uppercase blocked term", "Wo bekomme ich KOKAIN", true},
		{"blocked term embedded in word", "Drogenberatung gesucht", true},
		{"umlaut blocked term", "jemanden töten", true},
		{"empty message", "", false},
		{"dental pain is fine", "Ich habe starke Zahnschmerzen", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsBlockedTerm(tt.text); got != tt.blocked {
				t.Errorf("ContainsBlockedTerm(%q) = %v, want %v", tt.text, got, tt.blocked)
			}
		})
	}
}
