package agepanel

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Defaults for CSV artifacts.
const (
	artifactSep         = ','
	artifactEOL         = '\n'
	artifactStringDelim = '"'
	artifactFloatFormat = "%g"
	artifactDateFormat  = "2006-01-02"
)

// ArtifactWriter writes a CSV artifact to a temp file and renames it into
// place on Close, so a failed run leaves no partial output. A write error is
// kept internally and later writes become no-ops.
type ArtifactWriter struct {
	FloatFormat string
	DateFormat  string

	path string
	file *os.File
	werr error
}

func NewArtifactWriter(path string) (*ArtifactWriter, error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}

	return &ArtifactWriter{
		FloatFormat: artifactFloatFormat,
		DateFormat:  artifactDateFormat,
		path:        path,
		file:        f,
	}, nil
}

func (w *ArtifactWriter) WriteHeader(names []string) {
	if w.werr != nil {
		return
	}

	line := make([]byte, 0, 64)
	for ind, name := range names {
		if ind > 0 {
			line = append(line, artifactSep)
		}

		line = append(line, name...)
	}
	line = append(line, artifactEOL)

	_, w.werr = w.file.Write(line)
}

func (w *ArtifactWriter) WriteRow(v ...any) {
	if w.werr != nil {
		return
	}

	var line []byte
	for ind := 0; ind < len(v); ind++ {
		var lx []byte
		switch d := v[ind].(type) {
		case float64:
			lx = []byte(fmt.Sprintf(w.FloatFormat, d))
		case int:
			lx = []byte(fmt.Sprintf("%v", d))
		case time.Time:
			lx = []byte(d.Format(w.DateFormat))
		case string:
			lx = []byte(d)
			lx = append([]byte{artifactStringDelim}, lx...)
			lx = append(lx, artifactStringDelim)
		default:
			lx = []byte("#err#")
		}

		line = append(line, lx...)
		if ind < len(v)-1 {
			line = append(line, artifactSep)
		}
	}
	line = append(line, artifactEOL)

	_, w.werr = w.file.Write(line)
}

// Close renames the temp file onto the target path, or removes it if any
// write failed.
func (w *ArtifactWriter) Close() error {
	defer func() { _ = os.Remove(w.file.Name()) }()

	cerr := w.file.Close()
	if w.werr != nil {
		return w.werr
	}
	if cerr != nil {
		return cerr
	}

	return os.Rename(w.file.Name(), w.path)
}
