package buildinfo

import "testing"

func TestCurrent_LdflagsWin(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-01"
	got := Current()
	if got.Version != "v1.2.3" || got.Commit != "abc123" || got.Date != "2026-01-01" {
		t.Fatalf("got %+v", got)
	}
}
