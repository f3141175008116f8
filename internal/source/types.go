package source

type (
	// DefID is an interned handle naming the definition a span belongs to.
	// The payload behind the handle lives in the ast package; source only
	// needs an opaque, comparable tag.
	DefID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

// NoDefID is never produced by an interner.
const NoDefID DefID = 0

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    Digest
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
