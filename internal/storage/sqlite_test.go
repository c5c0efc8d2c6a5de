package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreProfileRoundTrip(t *testing.T) {
	store := openTestStore(t)

	p, err := store.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile() on empty db failed: %v", err)
	}
	if p != (Profile{}) {
		t.Errorf("empty profile = %+v, expected zero value", p)
	}

	steps := []func() error{
		func() error { return store.SaveBest(1234) },
		func() error { return store.SaveShards(77) },
		func() error { return store.SaveLoops(2) },
		func() error { return store.SaveSkin(3) },
		func() error { return store.SaveName("ada") },
		func() error { return store.SaveBest(1500) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	p, err = store.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}
	want := Profile{Best: 1500, Shards: 77, Loops: 2, Skin: 3, Name: "ada"}
	if p != want {
		t.Errorf("LoadProfile() = %+v, expected %+v", p, want)
	}
}

func TestStoreMalformedValuesReadAsZero(t *testing.T) {
	tests := []struct {
		key string
		raw string
	}{
		{KeyBest, "lots"},
		{KeyShards, "3.5"},
		{KeyLoops, "0x10"},
		{KeySkin, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			store := openTestStore(t)
			if err := store.SaveName("ada"); err != nil {
				t.Fatalf("SaveName() failed: %v", err)
			}
			if err := store.put(tt.key, []byte(tt.raw)); err != nil {
				t.Fatalf("put() failed: %v", err)
			}

			p, err := store.LoadProfile()
			if err == nil {
				t.Error("LoadProfile() returned nil error for a malformed value")
			}
			if want := (Profile{Name: "ada"}); p != want {
				t.Errorf("LoadProfile() = %+v, expected %+v", p, want)
			}
		})
	}
}

func TestStoreMalformedGhost(t *testing.T) {
	store := openTestStore(t)
	if err := store.put(KeyGhost, []byte{0xc1, 0x00}); err != nil {
		t.Fatalf("put() failed: %v", err)
	}
	trail, err := store.LoadGhost()
	if err == nil {
		t.Error("LoadGhost() returned nil error for a malformed blob")
	}
	if trail != nil {
		t.Errorf("LoadGhost() = %v, expected nil", trail)
	}
}

func TestStoreClosedFailsWithoutPanic(t *testing.T) {
	store := openTestStore(t)
	store.Close()

	if err := store.SaveBest(10); err == nil {
		t.Error("SaveBest() on a closed store returned nil error")
	}
	if p, err := store.LoadProfile(); err == nil || p != (Profile{}) {
		t.Errorf("LoadProfile() = %+v, %v, expected zero profile and an error", p, err)
	}
}

func TestStoreFameKeepsTopFive(t *testing.T) {
	store := openTestStore(t)

	for i, m := range []int{120, 900, 40, 700, 300, 650, 10} {
		if err := store.AddFame(FameEntry{Meters: m, Skin: "Unit 734", PlayedOn: "2026-10-16"}); err != nil {
			t.Fatalf("AddFame(%d) #%d failed: %v", m, i, err)
		}
	}

	fame, err := store.Fame()
	if err != nil {
		t.Fatalf("Fame() failed: %v", err)
	}
	want := []int{900, 700, 650, 300, 120}
	if len(fame) != len(want) {
		t.Fatalf("Fame() returned %d entries, expected %d", len(fame), len(want))
	}
	for i, m := range want {
		if fame[i].Meters != m {
			t.Errorf("fame[%d].Meters = %d, expected %d", i, fame[i].Meters, m)
		}
	}
}

func TestStoreCoopRunsDoNotEnterFame(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveCoopRun(CoopRun{Partner: "bob", Meters: 5000, Deaths: 3, EndReason: "double_death", Duration: 240}); err != nil {
		t.Fatalf("SaveCoopRun() failed: %v", err)
	}

	fame, err := store.Fame()
	if err != nil {
		t.Fatalf("Fame() failed: %v", err)
	}
	if len(fame) != 0 {
		t.Errorf("co-op run leaked into fame: %+v", fame)
	}

	runs, err := store.RecentCoopRuns(10)
	if err != nil {
		t.Fatalf("RecentCoopRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Partner != "bob" || runs[0].Meters != 5000 {
		t.Errorf("RecentCoopRuns() = %+v", runs)
	}
}

func TestStoreGhostRoundTrip(t *testing.T) {
	store := openTestStore(t)

	ghost, err := store.LoadGhost()
	if err != nil || ghost != nil {
		t.Fatalf("LoadGhost() on empty db = %v, %v; expected nil, nil", ghost, err)
	}

	trail := []GhostPoint{{X: 300, Y: 624}, {X: 310, Y: 580}, {X: 12, Y: -4021}}
	if err := store.SaveGhost(trail); err != nil {
		t.Fatalf("SaveGhost() failed: %v", err)
	}

	got, err := store.LoadGhost()
	if err != nil {
		t.Fatalf("LoadGhost() failed: %v", err)
	}
	if len(got) != len(trail) {
		t.Fatalf("LoadGhost() returned %d points, expected %d", len(got), len(trail))
	}
	for i := range trail {
		if got[i] != trail[i] {
			t.Errorf("point %d = %+v, expected %+v", i, got[i], trail[i])
		}
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	for _, m := range []int{100, 200, 300} {
		if err := store.AddFame(FameEntry{Meters: m}); err != nil {
			t.Fatalf("AddFame() failed: %v", err)
		}
	}

	stats, err := store.Stats(ModeSolo)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.RunsCount != 3 || stats.Best != 300 || stats.AvgMeters != 200 || stats.Total != 600 {
		t.Errorf("Stats() = %+v", stats)
	}

	empty, err := store.Stats(ModeCoop)
	if err != nil {
		t.Fatalf("Stats(coop) failed: %v", err)
	}
	if empty.RunsCount != 0 || empty.Best != 0 {
		t.Errorf("Stats(coop) = %+v, expected zeros", empty)
	}
}

func TestMemStoreFame(t *testing.T) {
	m := NewMemStore()
	for _, meters := range []int{5, 50, 500, 1, 5000, 50000} {
		if err := m.AddFame(FameEntry{Meters: meters}); err != nil {
			t.Fatalf("AddFame() failed: %v", err)
		}
	}
	fame, _ := m.Fame()
	if len(fame) != FameLimit || fame[0].Meters != 50000 || fame[4].Meters != 5 {
		t.Errorf("Fame() = %+v", fame)
	}
}
