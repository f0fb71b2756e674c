package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveUsesOverrideEnvVar(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	t.Setenv(OverrideEnvVar, a+string(os.PathListSeparator)+b)

	r := New()
	got := r.Resolve(context.Background())

	if len(got) != 2 {
		t.Fatalf("got %v, want 2 entries", got)
	}
	if got[0] != a || got[1] != b {
		t.Errorf("got %v, want [%s %s]", got, a, b)
	}
}

func TestResolveFiltersNonexistentOverrides(t *testing.T) {
	existing := t.TempDir()
	missing := filepath.Join(existing, "does-not-exist")
	t.Setenv(OverrideEnvVar, existing+string(os.PathListSeparator)+missing)

	r := New()
	got := r.Resolve(context.Background())

	if len(got) != 1 || got[0] != existing {
		t.Errorf("got %v, want only %s", got, existing)
	}
}

func TestResolveCachesAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(OverrideEnvVar, dir)

	r := New()
	first := r.Resolve(context.Background())

	// Mutating the environment after the first call must not change the
	// cached result; only InvalidateCache forces a re-resolve.
	t.Setenv(OverrideEnvVar, t.TempDir())
	second := r.Resolve(context.Background())

	if len(first) != len(second) || first[0] != second[0] {
		t.Errorf("expected cached result to be stable, got %v then %v", first, second)
	}
}

func TestInvalidateCacheForcesReResolve(t *testing.T) {
	first := t.TempDir()
	t.Setenv(OverrideEnvVar, first)

	r := New()
	got1 := r.Resolve(context.Background())
	if len(got1) != 1 || got1[0] != first {
		t.Fatalf("got %v", got1)
	}

	second := t.TempDir()
	t.Setenv(OverrideEnvVar, second)
	r.InvalidateCache()

	got2 := r.Resolve(context.Background())
	if len(got2) != 1 || got2[0] != second {
		t.Errorf("got %v, want [%s] after invalidation", got2, second)
	}
}

func TestSplitOverrideTrimsAndExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	raw := " ~/foo " + string(os.PathListSeparator) + "/bar"
	got := splitOverride(raw)

	want := filepath.Join(home, "foo")
	if len(got) != 2 || got[0] != want || got[1] != "/bar" {
		t.Errorf("got %v, want [%s /bar]", got, want)
	}
}

func TestFilterExistingKeepsOnlyDirectories(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "afile")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing")

	got := filterExisting([]string{dir, file, missing})
	if len(got) != 1 || got[0] != dir {
		t.Errorf("got %v, want only the directory %s", got, dir)
	}
}
