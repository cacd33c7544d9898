package util

import (
	"io"
	"os"
)

// CopyFile copies srcPath to dstPath, keeping the source's permissions.
func CopyFile(srcPath, dstPath string) error {
	fin, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer fin.Close()

	info, err := fin.Stat()
	if err != nil {
		return err
	}
	fout, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(fout, fin); err != nil {
		fout.Close()
		return err
	}
	return fout.Close()
}
