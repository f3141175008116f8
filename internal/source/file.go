package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// NewFile builds a File from already normalized bytes, computing the line
// index and the content hash.
func NewFile(path string, content []byte, flags FileFlags) *File {
	return &File{
		Path:    filepath.ToSlash(filepath.Clean(path)),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    Sum(content),
		Flags:   flags,
	}
}

// NewVirtualFile wraps in-memory text (tests, stdin).
func NewVirtualFile(name string, content []byte) *File {
	return NewFile(name, content, FileVirtual)
}

// LoadFile reads a file from disk and normalizes CRLF/BOM.
func LoadFile(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return NewFile(path, content, flags), nil
}

// Len returns the content length as a span offset.
func (f *File) Len() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// Position converts an absolute byte offset into a line/column pair.
func (f *File) Position(off uint32) LineCol {
	if off > f.Len() {
		off = f.Len()
	}
	return toLineCol(f.LineIdx, off)
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent := f.Len()

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if lineNum-1 < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start > lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}
	return string(f.Content[start:end])
}

// Slice returns the text covered by an absolute span, clamped to the content.
func (f *File) Slice(sp Span) string {
	end := min(sp.End, f.Len())
	start := min(sp.Start, end)
	return string(f.Content[start:end])
}
