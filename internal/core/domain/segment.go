package domain

// Segment is one ordered unit of the prompt payload: either free text or an
// inline binary blob with its media type. The assembled sequence is the
// literal payload for the completion API, so content must be deterministic.
type Segment struct {
	Text     string
	Data     []byte
	MIMEType string
}

func TextSegment(text string) Segment {
	return Segment{Text: text}
}

func BlobSegment(mimeType string, data []byte) Segment {
	return Segment{MIMEType: mimeType, Data: data}
}

func (s Segment) IsBlob() bool {
	return len(s.Data) > 0
}

// ExtractedContent is the tagged result of running one extractor over one
// artifact. Exactly one of Text or Image is set; both nil means the artifact
// yielded nothing usable.
type ExtractedContent struct {
	Text  *TextContent
	Image *ImageContent
}

// TextContent is extracted text with a provenance label ("PDF content",
// "Document content", "File content", ...).
type TextContent struct {
	Label string
	Text  string
}

// ImageContent carries the base64-encoded image bytes plus an optional
// description derived from a secondary vision pass.
type ImageContent struct {
	Base64Data  string
	MIMEType    string
	Description string
}
