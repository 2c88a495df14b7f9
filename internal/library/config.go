package library

// Config controls which files the library treats as videos and subtitles.
//
// The listing and scan sets differ by default (the recursive scan also accepts
// mpg/mpeg). They are kept separate so that the asymmetry can be removed through
// configuration without touching the code.
type Config struct {
	ListingExtensions  []string `yaml:"listing_extensions" env:"LIBRARY_LISTING_EXTENSIONS" env-separator:"," env-default:"mp4,avi,mkv,mov,wmv,flv,webm,m4v,3gp"`
	ScanExtensions     []string `yaml:"scan_extensions" env:"LIBRARY_SCAN_EXTENSIONS" env-separator:"," env-default:"mp4,avi,mkv,mov,wmv,flv,webm,m4v,3gp,mpg,mpeg"`
	SubtitleExtensions []string `yaml:"subtitle_extensions" env:"LIBRARY_SUBTITLE_EXTENSIONS" env-separator:"," env-default:"srt,vtt,sub,ass"`
}

var (
	DefaultListingExtensions  = []string{"mp4", "avi", "mkv", "mov", "wmv", "flv", "webm", "m4v", "3gp"}
	DefaultScanExtensions     = []string{"mp4", "avi", "mkv", "mov", "wmv", "flv", "webm", "m4v", "3gp", "mpg", "mpeg"}
	DefaultSubtitleExtensions = []string{"srt", "vtt", "sub", "ass"}
)

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		ListingExtensions:  DefaultListingExtensions,
		ScanExtensions:     DefaultScanExtensions,
		SubtitleExtensions: DefaultSubtitleExtensions,
	}
}
