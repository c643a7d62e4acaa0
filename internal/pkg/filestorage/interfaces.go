package filestorage

import "io"

// BlobStorage defines the storage surface for uploaded files and generated
// screenshots.
type BlobStorage interface {
	// SaveReader stores a stream under the given filename (a unique suffix
	// is appended) and returns the public URL.
	SaveReader(r io.Reader, filename string) (string, error)

	// SaveReaderWithPath stores a stream under a subdirectory.
	SaveReaderWithPath(r io.Reader, filename, subPath string) (string, error)

	// DeleteFile removes a stored file. Deleting a missing file is not an
	// error.
	DeleteFile(filePath string) error
}
