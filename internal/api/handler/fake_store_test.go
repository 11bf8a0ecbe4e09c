package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"excel-aggregator/internal/model"
)

// memStore keeps uploads in memory and files in a temp directory
type memStore struct {
	mu      sync.Mutex
	dir     string
	next    int
	uploads map[string]model.Upload
	outputs map[string]model.OutputFile
}

func newMemStore(dir string) *memStore {
	return &memStore{dir: dir, uploads: map[string]model.Upload{}, outputs: map[string]model.OutputFile{}}
}

func (s *memStore) SaveUpload(_ context.Context, name string, data []byte, columns []string) (model.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := fmt.Sprintf("upload-%d", s.next)
	path := filepath.Join(s.dir, id+"-"+filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.Upload{}, err
	}
	u := model.Upload{ID: id, OriginalName: filepath.Base(name), Path: path, Columns: columns, CreatedAt: time.Now()}
	s.uploads[id] = u
	return u, nil
}

func (s *memStore) GetUpload(_ context.Context, id string) (model.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.uploads[id]
	if !ok {
		return model.Upload{}, model.ErrUploadNotFound
	}
	return u, nil
}

func (s *memStore) DeleteUpload(ctx context.Context, id string) error {
	if _, err := s.GetUpload(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, id)
	return nil
}

func (s *memStore) SaveResult(ctx context.Context, id, name string, rows int, write func(io.Writer) error) (model.OutputFile, error) {
	if _, err := s.GetUpload(ctx, id); err != nil {
		return model.OutputFile{}, err
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return model.OutputFile{}, err
	}
	path := filepath.Join(s.dir, id+"-"+name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return model.OutputFile{}, err
	}
	out := model.OutputFile{UploadID: id, Name: name, Path: path, Rows: rows, CreatedAt: time.Now()}
	s.mu.Lock()
	s.outputs[id+"/"+name] = out
	s.mu.Unlock()
	return out, nil
}

func (s *memStore) GetResult(_ context.Context, id, name string) (model.OutputFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.outputs[id+"/"+name]
	if !ok {
		return model.OutputFile{}, model.ErrOutputNotFound
	}
	return out, nil
}

func (s *memStore) DownloadURL(out model.OutputFile) string {
	return "/downloads/" + out.UploadID + "/" + out.Name
}
