package buildinfo

import "runtime/debug"

// Injectées à la compilation :
//
//	-X github.com/Guilhem-Bonnet/yt-channel-viewer/internal/buildinfo.Version=v0.1.0
//	-X github.com/Guilhem-Bonnet/yt-channel-viewer/internal/buildinfo.Commit=abcdef
//	-X github.com/Guilhem-Bonnet/yt-channel-viewer/internal/buildinfo.Date=2026-01-18
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
}

// Current complète Commit/Date avec les infos VCS du binaire si ldflags ne les a pas fournies.
func Current() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "":
			info.Date = s.Value
		}
	}
	return info
}
