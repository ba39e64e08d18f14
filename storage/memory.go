package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Object is a stored payload.
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryStore keeps content in memory. References are "memory://<name>".
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]Object
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (s *MemoryStore) Put(_ context.Context, objectName string, body io.Reader, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	ref := "memory://" + objectName
	s.mu.Lock()
	s.objects[ref] = Object{Data: buf.Bytes(), ContentType: contentType}
	s.mu.Unlock()
	return ref, nil
}

func (s *MemoryStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[ref]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, ref)
	return nil
}

func (s *MemoryStore) Get(ref string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[ref]
	return o, ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
