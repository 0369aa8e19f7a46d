package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/absfs/absfs"
)

// osFS exposes the host filesystem as an absfs.FileSystem. Relative names
// resolve against root.
type osFS struct {
	root string
}

func newOSFS() (*osFS, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &osFS{root: wd}, nil
}

func (fs *osFS) path(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(fs.root, name)
}

func (fs *osFS) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	path := fs.path(name)
	if flag&os.O_CREATE != 0 {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, flag, perm)
}

func (fs *osFS) Mkdir(name string, perm os.FileMode) error {
	return os.Mkdir(fs.path(name), perm)
}

func (fs *osFS) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(fs.path(name), perm)
}

func (fs *osFS) Remove(name string) error {
	return os.Remove(fs.path(name))
}

func (fs *osFS) RemoveAll(path string) error {
	return os.RemoveAll(fs.path(path))
}

func (fs *osFS) Rename(oldpath, newpath string) error {
	return os.Rename(fs.path(oldpath), fs.path(newpath))
}

func (fs *osFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(fs.path(name))
}

func (fs *osFS) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(fs.path(name), mode)
}

func (fs *osFS) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(fs.path(name), atime, mtime)
}

func (fs *osFS) Chown(name string, uid, gid int) error {
	return os.Chown(fs.path(name), uid, gid)
}

func (fs *osFS) Separator() uint8 {
	return os.PathSeparator
}

func (fs *osFS) ListSeparator() uint8 {
	return os.PathListSeparator
}

func (fs *osFS) Chdir(dir string) error {
	fs.root = fs.path(dir)
	return nil
}

func (fs *osFS) Getwd() (string, error) {
	return fs.root, nil
}

func (fs *osFS) TempDir() string {
	return os.TempDir()
}

func (fs *osFS) Open(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDONLY, 0)
}

func (fs *osFS) Create(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (fs *osFS) Truncate(name string, size int64) error {
	return os.Truncate(fs.path(name), size)
}
