package s3parquet

import (
	"bytes"

	"github.com/xitongsys/parquet-go/source"
)

// memoryFile implements the parquet source.ParquetFile interface over an
// in-memory buffer, so parquet payloads can be built without touching disk
// before being uploaded.
type memoryFile struct {
	buffer *bytes.Buffer
}

func newMemoryFile() *memoryFile {
	return &memoryFile{buffer: &bytes.Buffer{}}
}

func (f *memoryFile) Create(name string) (source.ParquetFile, error) {
	return f, nil
}

func (f *memoryFile) Open(name string) (source.ParquetFile, error) {
	return f, nil
}

// Seek is only called by the writer to report position; random access is not
// needed for a forward-only write.
func (f *memoryFile) Seek(offset int64, whence int) (int64, error) {
	return int64(f.buffer.Len()), nil
}

func (f *memoryFile) Read(b []byte) (int, error) {
	return f.buffer.Read(b)
}

func (f *memoryFile) Write(b []byte) (int, error) {
	return f.buffer.Write(b)
}

func (f *memoryFile) Close() error {
	return nil
}

func (f *memoryFile) Bytes() []byte {
	return f.buffer.Bytes()
}
