package redis

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/core/ports"
)

func TestProfileTab_KeysAreNamespaced(t *testing.T) {
	tab := NewProfileStore(nil, zerolog.Nop()).Open("p1").(*profileTab)

	if got := tab.key("user"); got != "profile:p1:user" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := tab.channel(); got != "profile:p1:storage" {
		t.Fatalf("unexpected channel: %s", got)
	}
	other := NewProfileStore(nil, zerolog.Nop()).Open("p1")
	if other.Tab() == tab.Tab() {
		t.Fatal("each handle needs its own origin")
	}
}

func TestChangeAnnouncements_ReachOtherTabsOnly(t *testing.T) {
	msgs, err := encodeChanges("tab-a", []ports.StorageChange{
		{Key: "user", Value: `{"name":"ada"}`},
		{Key: "huntsmart_active", Deleted: true},
	})
	if err != nil {
		t.Fatalf("encodeChanges: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected one announcement per key, got %d", len(msgs))
	}

	for _, m := range msgs {
		if _, ok, err := decodeChange(m, "tab-a"); err != nil || ok {
			t.Fatalf("writer must ignore its own change, ok=%v err=%v", ok, err)
		}
	}

	set, ok, err := decodeChange(msgs[0], "tab-b")
	if err != nil || !ok {
		t.Fatalf("other tab should receive the change, ok=%v err=%v", ok, err)
	}
	if set.Key != "user" || set.Value != `{"name":"ada"}` || set.Deleted || set.Origin != "tab-a" {
		t.Fatalf("unexpected change: %+v", set)
	}

	del, ok, _ := decodeChange(msgs[1], "tab-b")
	if !ok || del.Key != "huntsmart_active" || !del.Deleted {
		t.Fatalf("unexpected delete change: %+v", del)
	}
}

func TestDecodeChange_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "user=ada"},
		{"missing key", `{"value":"x","origin":"tab-a"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok, err := decodeChange(tc.payload, "tab-b"); err == nil || ok {
				t.Fatalf("expected error, got ok=%v err=%v", ok, err)
			}
		})
	}
}
