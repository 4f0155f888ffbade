package media

import (
	"errors"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type Kind int

const (
	Other Kind = iota
	Image
	Video
)

const octetStream = "application/octet-stream"

var ErrEmptyAttachment = errors.New("media: attachment has no data")

// Attachment is a file the client attached to a report.
type Attachment struct {
	ContentType string
	Name        string
	Size        int64
	Data        []byte
}

// MIMEType returns the declared content type, or a sniffed one when the
// client declared nothing useful.
func (a *Attachment) MIMEType() string {
	ct := strings.TrimSpace(a.ContentType)
	if ct == "" || strings.HasPrefix(ct, octetStream) {
		return mimetype.Detect(a.Data).String()
	}

	return ct
}

func (a *Attachment) Kind() Kind {
	ct := strings.ToLower(a.MIMEType())
	switch {
	case strings.HasPrefix(ct, "image/"):
		return Image
	case strings.HasPrefix(ct, "video/"):
		return Video
	}

	return Other
}

type Blob struct {
	ID          string
	ContentType string
	Name        string
	Data        []byte
}

// MemoryStore keeps uploaded blobs for the lifetime of the process and hands
// out references of the form prefix+id.
type MemoryStore struct {
	mu     sync.RWMutex
	prefix string
	data   map[string]*Blob
}

func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{prefix: prefix, data: make(map[string]*Blob)}
}

func (s *MemoryStore) Put(a *Attachment) (string, error) {
	if len(a.Data) == 0 {
		return "", ErrEmptyAttachment
	}

	b := &Blob{
		ID:          uuid.New().String(),
		ContentType: a.MIMEType(),
		Name:        a.Name,
		Data:        a.Data,
	}

	s.mu.Lock()
	s.data[b.ID] = b
	s.mu.Unlock()

	return s.prefix + b.ID, nil
}

func (s *MemoryStore) Get(id string) (*Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data[id]
	return b, ok
}

// Delete drops the blob behind a reference returned by Put. Unknown
// references are ignored.
func (s *MemoryStore) Delete(ref string) {
	s.mu.Lock()
	delete(s.data, strings.TrimPrefix(ref, s.prefix))
	s.mu.Unlock()
}
