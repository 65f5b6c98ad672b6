package desktop

import "io"

// UploadedFile is a file received from a client upload
type UploadedFile struct {
	Filename string
	Size     int64
	Content  io.Reader
}
