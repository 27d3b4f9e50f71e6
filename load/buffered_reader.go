package load

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/uitgo/loadreport/pkg/results"
)

const (
	defaultReadSize = 1 << 20
)

func GetBufferedReader(fileName string) (*bufio.Reader, io.Closer, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot open file for read %s", fileName)
	}
	return bufio.NewReaderSize(file, defaultReadSize), file, nil
}

func readDocument(fileName string) (results.Document, error) {
	r, closer, err := GetBufferedReader(fileName)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return decodeDocument(r)
}

func decodeDocument(r io.Reader) (results.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc results.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "invalid json")
	}
	if doc == nil {
		return nil, errors.New("invalid json: document is null")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid json: trailing data after document")
	}
	return doc, nil
}
