package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

const devVersion = "0.0.0-dev"

// Valores padrão (sobrescritos por ldflags ou por build info)
var (
	Version   = devVersion
	Commit    = ""
	BuildTime = ""
)

// init tenta preencher a versão via build info.
func init() {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		applyBuildSettings(bi.Settings)
	}
}

// applyBuildSettings preenche Version/Commit/BuildTime a partir das
// informações de VCS embutidas pelo Go. Valores vindos de ldflags têm
// precedência e não são sobrescritos.
func applyBuildSettings(settings []debug.BuildSetting) {
	if Version != "" && Version != devVersion {
		return
	}

	get := func(key string) string {
		for _, s := range settings {
			if s.Key == key {
				return s.Value
			}
		}
		return ""
	}

	if Commit == "" {
		if rev := get("vcs.revision"); len(rev) >= 7 {
			Commit = rev[:7]
		}
	}

	if BuildTime == "" {
		if ts, err := time.Parse(time.RFC3339, get("vcs.time")); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	if tag := get("vcs.tag"); tag != "" {
		Version = strings.TrimPrefix(tag, "v")
		if strings.EqualFold(get("vcs.modified"), "true") {
			Version += "-dirty"
		}
	}
}

// FormatVersion retorna a versão formatada com commit e build time.
// Ex.: "1.2.3 (commit: abc1234, built at: 2026-10-16T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	default:
		commit := Commit
		if commit == "" {
			commit = "development"
		}
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, commit, BuildTime)
	}
}
