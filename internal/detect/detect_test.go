package detect

import "testing"

func TestSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"result.json", "telegram", true},
		{"/home/u/exports/result.json", "telegram", true},
		{"Result.JSON", "telegram", true},
		{"telegram-backup-2026.json", "telegram", true},
		{"WhatsApp Chat with Alice.txt", "whatsapp", true},
		{"Alice_chat.txt", "whatsapp", true},
		{"message_1.json", "instagram", true},
		{"message_12.json", "instagram", true},
		{"instagram_dump.json", "instagram", true},
		{"discord-export.csv", "discord", true},
		{"notes.txt", "", false},
		{"messages.json", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Source(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Source(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
