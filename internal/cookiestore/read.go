package cookiestore

import (
	"fmt"
)

// Read detects the format of the store at path and returns its unexpired
// cookies. SQLite stores are copied first.
func Read(path string, opts Options) ([]Record, *Source, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	src := &Source{Path: path, Format: format}

	var records []Record
	switch format {
	case FormatFirefox:
		src.Browser = "Firefox"
		records, err = readCopy(path, opts, ReadFirefox)
	case FormatChrome:
		src.Browser = "Chrome"
		records, err = readCopy(path, opts, ReadChrome)
	case FormatNetscape:
		src.Browser = "Netscape"
		records, err = ReadNetscape(path, opts)
	default:
		return nil, nil, fmt.Errorf("error: %w at %s", ErrUnsupportedStore, path)
	}
	if err != nil {
		return nil, nil, err
	}
	opts.log().Debug("cookie store: read %d cookies from %s store %s", len(records), src.Browser, path)
	return records, src, nil
}

func readCopy(path string, opts Options, reader func(string, Options) ([]Record, error)) ([]Record, error) {
	copied, cleanup, err := SafeCopy(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return reader(copied, opts)
}
