package history

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAppendAndRecent(t *testing.T) {
	t.Parallel()

	db := openTemp(t)

	entries := []Entry{
		{CreatedAt: "2026-08-01T10:00:00Z", InputName: "result.json", Source: "telegram", Format: "jsonl", InputBytes: 2048, OutputBytes: 512, Messages: 14},
		{CreatedAt: "2026-08-02T10:00:00Z", InputName: "Alice_chat.txt", Source: "whatsapp", Format: "csv", Timestamps: true, InputBytes: 4096, OutputBytes: 900, Messages: 40},
		{CreatedAt: "2026-08-03T10:00:00Z", InputName: "discord.csv", Source: "discord", Format: "json", Replays: true, InputBytes: 100, OutputBytes: 80, Messages: 2},
	}
	for _, e := range entries {
		if err := db.Append(e); err != nil {
			t.Fatal(err)
		}
	}

	n, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}

	recent, err := db.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d entries", len(recent))
	}
	if recent[0].Source != "discord" || recent[1].Source != "whatsapp" {
		t.Errorf("order = %s, %s; want discord, whatsapp", recent[0].Source, recent[1].Source)
	}
	if recent[0].ID == "" {
		t.Error("ID not filled in on Append")
	}
	if !recent[0].Replays || recent[0].Timestamps {
		t.Errorf("flags round-trip: got timestamps=%v replays=%v", recent[0].Timestamps, recent[0].Replays)
	}
	if !recent[1].Timestamps || recent[1].Replays {
		t.Errorf("flags round-trip: got timestamps=%v replays=%v", recent[1].Timestamps, recent[1].Replays)
	}
}

func TestRecentEmpty(t *testing.T) {
	t.Parallel()

	db := openTemp(t)
	recent, err := db.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Errorf("Recent on empty db returned %d entries", len(recent))
	}
}
