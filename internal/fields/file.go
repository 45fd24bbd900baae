package fields

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/query"
)

// FileStore reads fields from the frontmatter of <kind>/<id>.md files. The
// markdown body, rendered to HTML, backs page_header_content unless the
// frontmatter sets that key. Parsed documents are reused until the file's
// modification time changes.
type FileStore struct {
	fsys     fs.FS
	markdown goldmark.Markdown

	mu   sync.Mutex
	docs map[string]fileDocument
}

type fileDocument struct {
	modified time.Time
	fields   map[string]any
}

var _ interfaces.FieldStore = (*FileStore)(nil)

func NewFileStore(fsys fs.FS) *FileStore {
	return &FileStore{
		fsys: fsys,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		docs: map[string]fileDocument{},
	}
}

// DocumentPath returns the file that holds the fields of ref.
func DocumentPath(ref query.FieldRef) string {
	return path.Join(strings.ToLower(ref.Kind), ref.ID+".md")
}

func (s *FileStore) Field(_ context.Context, ref query.FieldRef, key string) (any, error) {
	if ref.IsZero() || s.fsys == nil {
		return nil, nil
	}
	if strings.ContainsAny(ref.ID, `/\`) || strings.Contains(ref.ID, "..") {
		return nil, nil
	}
	doc, err := s.load(DocumentPath(ref))
	if err != nil {
		return nil, err
	}
	return doc[key], nil
}

func (s *FileStore) load(name string) (map[string]any, error) {
	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("fields: stat %s: %w", name, err)
	}

	s.mu.Lock()
	cached, ok := s.docs[name]
	s.mu.Unlock()
	if ok && cached.modified.Equal(info.ModTime()) {
		return cached.fields, nil
	}

	source, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("fields: read %s: %w", name, err)
	}
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("fields: parse frontmatter %s: %w", name, err)
	}
	if _, set := meta[KeyCustomContent]; !set && len(bytes.TrimSpace(body)) > 0 {
		var buf bytes.Buffer
		if err := s.markdown.Convert(body, &buf); err != nil {
			return nil, fmt.Errorf("fields: render markdown %s: %w", name, err)
		}
		meta[KeyCustomContent] = strings.TrimSpace(buf.String())
	}

	s.mu.Lock()
	s.docs[name] = fileDocument{modified: info.ModTime(), fields: meta}
	s.mu.Unlock()
	return meta, nil
}
