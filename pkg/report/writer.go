package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/uitgo/loadreport/internal/utils"
)

const defaultWriteSize = 1 << 16

var (
	printFn = fmt.Printf
)

func getBufferedWriter(path string) (*bufio.Writer, *os.File, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot open file for write %s", path)
	}
	return bufio.NewWriterSize(file, defaultWriteSize), file, nil
}

// writeFile renders into dir/name through a buffered writer and returns the
// path written. A failed render leaves no file behind.
func writeFile(dir, name string, render func(w io.Writer) error) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	bw, file, err := getBufferedWriter(path)
	if err != nil {
		return "", err
	}

	if err := render(bw); err != nil {
		discard(file)
		return "", errors.Wrapf(err, "cannot render %s", name)
	}
	if err := bw.Flush(); err != nil {
		discard(file)
		return "", errors.Wrapf(err, "cannot write %s", path)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", errors.Wrapf(err, "cannot close %s", path)
	}
	_, _ = printFn("Wrote %s\n", path)
	return path, nil
}

func discard(file *os.File) {
	_ = file.Close()
	_ = os.Remove(file.Name())
}
