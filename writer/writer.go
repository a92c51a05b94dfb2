// Package writer emits the assembled text segment as parallel hex and
// binary text listings, one 32-bit word per line, in address order.
package writer

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteHex writes each little-endian word of code as 8 uppercase hex
// digits on its own line.
func WriteHex(output io.Writer, code []byte) error {
	for i := 0; i+4 <= len(code); i += 4 {
		word := binary.LittleEndian.Uint32(code[i:])
		if _, err := fmt.Fprintf(output, "%08X\n", word); err != nil {
			return err
		}
	}
	return nil
}

// WriteBin writes each little-endian word of code as 32 binary digits on
// its own line.
func WriteBin(output io.Writer, code []byte) error {
	for i := 0; i+4 <= len(code); i += 4 {
		word := binary.LittleEndian.Uint32(code[i:])
		if _, err := fmt.Fprintf(output, "%032b\n", word); err != nil {
			return err
		}
	}
	return nil
}

// WriteFiles writes both encodings of code to the given paths.
func WriteFiles(hexPath, binPath string, code []byte) error {
	if err := writeFile(hexPath, code, WriteHex); err != nil {
		return err
	}
	return writeFile(binPath, code, WriteBin)
}

func writeFile(path string, code []byte, write func(io.Writer, []byte) error) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("unable to determine absolute path: %w", err)
	}
	output, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	defer func() {
		_ = output.Close()
	}()
	return write(output, code)
}
