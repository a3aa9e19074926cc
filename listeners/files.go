package listeners

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	godigest "github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Files is where listeners write their output.
type Files struct {
	Fs  afero.Fs
	Dir string
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewFiles(fs afero.Fs, dir string) Files {
	return Files{Fs: fs, Dir: dir, Now: time.Now}
}

func (f Files) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// Timestamped returns the path of base with the current time down to the
// minute and ext appended, e.g. "net-Katz-predictions_2024-03-01_14.05.txt".
func (f Files) Timestamped(base, ext string) string {
	return filepath.Join(f.Dir, base+f.now().Format("_2006-01-02_15.04.")+ext)
}

// Write replaces the content of name with what fn writes to the buffer.
func (f Files) Write(name string, fn func(buf *bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	if f.Dir != "" {
		if err := f.Fs.MkdirAll(f.Dir, 0755); err != nil {
			return err
		}
	}
	if err := afero.WriteFile(f.Fs, name, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	logrus.Infof("Wrote %s (%s)", name, godigest.FromBytes(buf.Bytes()))
	return nil
}

// Append adds line at the end of name, creating it if needed.
func (f Files) Append(name, line string) error {
	if f.Dir != "" {
		if err := f.Fs.MkdirAll(f.Dir, 0755); err != nil {
			return err
		}
	}
	file, err := f.Fs.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return file.Close()
}
