package xmain

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"
)

// State is everything a command touches of its process. Tests construct it directly.
type State struct {
	Name string

	Stdin  io.Reader
	Stdout io.WriteCloser
	Stderr io.WriteCloser

	Log  *cmdlog.Logger
	Env  *xos.Env
	Opts *Opts
}

// ReadPath reads fp, or stdin when fp is "-".
func (ms *State) ReadPath(fp string) ([]byte, error) {
	if fp == "-" {
		return io.ReadAll(ms.Stdin)
	}
	return os.ReadFile(fp)
}

// WritePath writes p to fp. "-" writes to stdout and closes it.
func (ms *State) WritePath(fp string, p []byte) error {
	if fp != "-" {
		return os.WriteFile(fp, p, 0644)
	}
	if _, err := ms.Stdout.Write(p); err != nil {
		return err
	}
	return ms.Stdout.Close()
}

// HumanPath shortens fp for log messages: relative to the working directory when fp is
// inside it, with the home directory replaced by ~ otherwise.
func (ms *State) HumanPath(fp string) string {
	if fp == "-" {
		return fp
	}
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, fp); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	if home := ms.Env.Getenv("HOME"); home != "" && strings.HasPrefix(fp, home+string(filepath.Separator)) {
		return "~" + strings.TrimPrefix(fp, home)
	}
	return fp
}

// AbsPath resolves fp against the working directory. "-" is kept as is.
func (ms *State) AbsPath(fp string) string {
	if fp == "-" || filepath.IsAbs(fp) {
		return fp
	}
	abs, err := filepath.Abs(fp)
	if err != nil {
		return fp
	}
	return abs
}
