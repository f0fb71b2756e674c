// Package platform resolves candidate IDE chat-database workspace
// directories across operating systems (C1).
//
// Grounded on the teacher's internal/config.Initialize directory-probing
// chain (os.UserConfigDir, os.UserHomeDir, walk-up-to-marker-dir). It
// does no recursive directory scan; internal/chatdb's discovery does.
package platform

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/untoldecay/commitjournal/internal/telemetry"
)

// OverrideEnvVar replaces platform defaults entirely when set, per spec §6.
const OverrideEnvVar = "WORKSPACE_PATH_OVERRIDE"

// OS identifies a detected platform family.
type OS string

const (
	Windows OS = "windows"
	MacOS   OS = "macos"
	Linux   OS = "linux"
	WSL     OS = "wsl"
	Unknown OS = "unknown"
)

const (
	detectBudget   = 50 * time.Millisecond
	enumerateBudget = 500 * time.Millisecond
)

// Resolver discovers candidate workspace-storage roots and caches the
// result in-process, mirroring the teacher's daemon registry caching its
// own discovery results.
type Resolver struct {
	mu       sync.Mutex
	cached   []string
	hasCache bool
}

// New returns a Resolver with an empty cache.
func New() *Resolver {
	return &Resolver{}
}

// InvalidateCache clears the in-process cache; the only way it is cleared,
// since Resolve otherwise serves cached results.
func (r *Resolver) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hasCache = false
	r.cached = nil
}

// Resolve returns candidate IDE workspace storage directories in priority
// order, filtered to those that exist. It never errors for absence;
// callers decide how to handle an empty result.
func (r *Resolver) Resolve(ctx context.Context) []string {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "platform", "resolve_workspace_roots")
	defer span.End()

	r.mu.Lock()
	if r.hasCache {
		cached := r.cached
		r.mu.Unlock()
		span.SetAttributes(
			telemetry.Attr("workspace_count", len(cached)),
			telemetry.Attr("cache_hit", true),
		)
		return cached
	}
	r.mu.Unlock()

	detected := detect()
	detectDur := time.Since(start)

	override := os.Getenv(OverrideEnvVar)
	var candidates []string
	overrideUsed := override != ""
	if overrideUsed {
		candidates = splitOverride(override)
	} else {
		candidates = defaultsFor(detected)
	}

	existing := filterExisting(candidates)
	enumerateDur := time.Since(start)

	r.mu.Lock()
	r.cached = existing
	r.hasCache = true
	r.mu.Unlock()

	span.SetAttributes(
		telemetry.Attr("platform_type", string(detected)),
		telemetry.Attr("workspace_count", len(existing)),
		telemetry.Attr("override_used", overrideUsed),
		telemetry.Attr("cache_hit", false),
	)
	if detectDur > detectBudget {
		span.SetAttributes(telemetry.Attr("detect_budget_exceeded", true))
	}
	if enumerateDur > enumerateBudget {
		span.SetAttributes(telemetry.Attr("enumerate_budget_exceeded", true))
	}
	return existing
}

func splitOverride(override string) []string {
	parts := strings.Split(override, string(os.PathListSeparator))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = expand(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func detect() OS {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	case "linux":
		if isWSL() {
			return WSL
		}
		return Linux
	default:
		return Unknown
	}
}

// isWSL probes /proc/version for the Microsoft substring, the standard
// WSL detection idiom.
func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	lower := strings.ToLower(string(data))
	return strings.Contains(lower, "microsoft") || strings.Contains(lower, "wsl")
}

func defaultsFor(o OS) []string {
	home, _ := os.UserHomeDir()
	switch o {
	case Windows:
		appData := os.Getenv("APPDATA")
		if appData == "" && home != "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return []string{
			filepath.Join(appData, "Code", "User", "workspaceStorage"),
			filepath.Join(appData, "Cursor", "User", "workspaceStorage"),
		}
	case MacOS:
		return []string{
			filepath.Join(home, "Library", "Application Support", "Code", "User", "workspaceStorage"),
			filepath.Join(home, "Library", "Application Support", "Cursor", "User", "workspaceStorage"),
		}
	case WSL:
		// WSL can see the Windows side's store via /mnt/c, in addition to
		// its own Linux-native config dir.
		return append(linuxDefaults(home), windowsMountDefaults()...)
	case Linux:
		return linuxDefaults(home)
	default:
		return linuxDefaults(home)
	}
}

func linuxDefaults(home string) []string {
	return []string{
		filepath.Join(home, ".config", "Code", "User", "workspaceStorage"),
		filepath.Join(home, ".config", "Cursor", "User", "workspaceStorage"),
	}
}

func windowsMountDefaults() []string {
	var out []string
	entries, err := os.ReadDir("/mnt")
	if err != nil {
		return out
	}
	for _, e := range entries {
		if !e.IsDir() || len(e.Name()) != 1 {
			continue
		}
		user := os.Getenv("USER")
		out = append(out, filepath.Join("/mnt", e.Name(), "Users", user, "AppData", "Roaming", "Code", "User", "workspaceStorage"))
	}
	return out
}

func expand(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return os.ExpandEnv(p)
}

func filterExisting(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			out = append(out, p)
		}
	}
	return out
}
