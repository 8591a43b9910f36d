package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Errors the HTTP layer maps to status codes.
var (
	ErrNotPDF       = errors.New("downloaded content is not a PDF")
	ErrUpstream     = errors.New("failed to fetch PDF from source")
	ErrNotFound     = errors.New("file not found")
	ErrBadExtension = errors.New("only PDF files are allowed")
	ErrTraversal    = errors.New("path escapes storage directory")
)

const maxFilenameLen = 100

// Result describes a stored download.
type Result struct {
	OutputPath  string `json:"output_path"`
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}

// Storage downloads paper PDFs into a content directory and resolves
// serving paths inside it.
type Storage struct {
	Dir        string
	httpClient *http.Client
}

// NewStorage creates a PDF storage rooted at dir.
func NewStorage(dir string, timeout time.Duration) (*Storage, error) {
	if dir == "" {
		dir = "output/research"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{Dir: dir, httpClient: &http.Client{Timeout: timeout}}, nil
}

// Download fetches pdfURL and stores it under a filename derived from
// suggestedName. An existing file with the same name is overwritten.
func (s *Storage) Download(ctx context.Context, pdfURL, suggestedName string) (Result, error) {
	filename := SanitizeTitle(suggestedName) + ".pdf"

	req, err := http.NewRequestWithContext(ctx, "GET", pdfURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: status %s", ErrUpstream, resp.Status)
	}

	// Sniff the magic bytes; arXiv occasionally serves HTML error pages
	// with a 200 status.
	head := make([]byte, 4)
	n, err := io.ReadFull(resp.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if !bytes.HasPrefix(head[:n], []byte("%PDF")) {
		return Result{}, ErrNotPDF
	}

	// Write through a temp name, then rename so a concurrent read never
	// sees a half-written file.
	tmp := filepath.Join(s.Dir, uuid.NewString()+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return Result{}, fmt.Errorf("create file: %w", err)
	}
	if _, err := f.Write(head[:n]); err != nil {
		f.Close()
		os.Remove(tmp)
		return Result{}, fmt.Errorf("write file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return Result{}, fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return Result{}, fmt.Errorf("write file: %w", err)
	}

	final := filepath.Join(s.Dir, filename)
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return Result{}, fmt.Errorf("store file: %w", err)
	}

	return Result{
		OutputPath:  final,
		DownloadURL: "/api/research/files/" + filename,
		Filename:    filename,
	}, nil
}

// ResolvePath validates a requested filename and returns the absolute
// path to serve. Only .pdf names strictly inside the storage directory
// are allowed.
func (s *Storage) ResolvePath(filename string) (string, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return "", ErrBadExtension
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return "", ErrTraversal
	}

	base, err := filepath.Abs(s.Dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(base, filename)
	if !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", ErrTraversal
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

// SanitizeTitle strips characters unsafe for filesystem paths, collapses
// runs of whitespace into single underscores and truncates the result.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	name := strings.Join(fields, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "paper"
	}
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	return name
}
