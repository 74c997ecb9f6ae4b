package common

// Header names used by the chunked upload protocol. The client repeats the
// declared total length on every chunk and advances the offset strictly.
const (
	UploadLengthHeader = "Upload-Length"
	UploadOffsetHeader = "Upload-Offset"
	UploadNameHeader   = "Upload-Name"
)
