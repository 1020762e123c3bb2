package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single JSON Lines record; forum posts and article
// bodies can run to several hundred kilobytes.
const maxLineSize = 8 << 20

// Document is one encyclopedia article
type Document struct {
	Name       string   `json:"name"`
	Content    string   `json:"content"`
	Categories []string `json:"categories"`
	References []string `json:"references"`
	URL        string   `json:"url"`
}

// Post is one forum record. Mentions holds pre-detected entity names; when
// it is nil the builder detects mentions from Title and Content.
type Post struct {
	ID       string   `json:"id"`
	Title    string   `json:"title,omitempty"`
	Content  string   `json:"content"`
	Mentions []string `json:"mentions,omitempty"`
}

// ReadDocuments decodes JSON Lines documents. Blank lines are skipped.
func ReadDocuments(r io.Reader) ([]Document, error) {
	return readLines[Document](r)
}

// ReadPosts decodes JSON Lines posts. Blank lines are skipped.
func ReadPosts(r io.Reader) ([]Post, error) {
	return readLines[Post](r)
}

// LoadDocuments reads documents from a JSON Lines file
func LoadDocuments(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open documents: %w", err)
	}
	defer f.Close()

	docs, err := ReadDocuments(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// LoadPosts reads posts from a JSON Lines file
func LoadPosts(path string) ([]Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open posts: %w", err)
	}
	defer f.Close()

	posts, err := ReadPosts(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return posts, nil
}

func readLines[T any](r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var out []T
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse record: %w", lineNum, err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNum+1, err)
	}
	return out, nil
}
