package ffmpeg

import "os/exec"

// ToolAvailability reports whether the external executables the gateway
// depends on could be found.
type ToolAvailability struct {
	Ffmpeg  bool `json:"ffmpeg"`
	Ffprobe bool `json:"ffprobe"`
}

type LookPathFunc func(string) (string, error)

// CheckTools resolves the configured ffmpeg and ffprobe executables. If lookPath
// is nil, exec.LookPath is used.
func CheckTools(config Config, lookPath LookPathFunc) ToolAvailability {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	found := func(bin string) bool {
		if bin == "" {
			return false
		}
		_, err := lookPath(bin)
		return err == nil
	}

	return ToolAvailability{
		Ffmpeg:  found(config.FfmpegBinPath),
		Ffprobe: found(config.FfprobeBinPath),
	}
}
