package domain

// UploadedMedia describes a file stored on the media host.
type UploadedMedia struct {
	URL         string
	Key         string
	ContentType string
	Size        int64
}
