package domain

import "io"

// Upload is the raw inbound file before validation.
type Upload struct {
	Filename     string
	DeclaredType string
	Size         int64
	Body         io.Reader
}

// StoredArtifact is a handle to a transiently stored upload. Key is unique per
// request; Path stays resolvable on disk until the request's cleanup runs.
type StoredArtifact struct {
	Key  string
	Path string
}

// Artifact is a validated upload bound to its transient storage location.
// It lives for exactly one request and is consumed by exactly one extractor.
type Artifact struct {
	Filename  string
	MediaType MediaType
	Size      int64
	Key       string
	Path      string
}

// ChatRequest carries the caller's message and optional upload.
type ChatRequest struct {
	Message string
	Upload  *Upload
}
