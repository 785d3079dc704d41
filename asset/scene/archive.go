package scene

// Compiled scene archives are zip files containing a gob-encoded Manifest
// and one raw little endian file per record buffer.
const (
	ArchiveVersion = 1
	ManifestFile   = "manifest.gob"
)

// Describes the contents of a compiled scene archive.
type Manifest struct {
	Version int
	Name    string
	Buffers []ManifestEntry
}

// A buffer stored in a compiled scene archive.
type ManifestEntry struct {
	Name       string
	Count      int
	RecordSize int
}

// Get the archive file name for a buffer.
func BufferFile(name string) string {
	return name + ".bin"
}
