package moneybook

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindBook returns the unique book matching the query under path.
// If the query is empty and no book exists yet, an empty default book is
// returned. In any other ambiguous case it returns an error.
func FindBook(path, query, currency string) (*Book, error) {
	bookPaths, err := findBookPaths(path, query)
	if err != nil {
		return nil, err
	}
	switch len(bookPaths) {
	case 0:
		// nothing found, return an error by default unless the query was ""
		if query == "" {
			b := NewBook(currency)
			// use a default name
			b.name = "book"
			return b, nil
		}
		return nil, fmt.Errorf("could not find book %q", query)
	case 1:
		return loadBookFile(path, bookPaths[0])
	default:
		return nil, fmt.Errorf("multiple books found for %q", query)
	}
}

// FindBooks discovers and loads book files from a given directory.
// If query is empty, all books (.jsonl files) in the path are loaded.
// A book name is its relative path from the directory, without the .jsonl
// extension.
func FindBooks(path, query string) ([]*Book, error) {
	bookPaths, err := findBookPaths(path, query)
	if err != nil {
		return nil, err
	}

	var loaded []*Book
	for _, fullPath := range bookPaths {
		book, err := loadBookFile(path, fullPath)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, book)
	}
	return loaded, nil
}

// loadBookFile opens, decodes, and names a book from a given file path.
func loadBookFile(rootPath, fullPath string) (*Book, error) {
	relPath, err := filepath.Rel(rootPath, fullPath)
	if err != nil {
		return nil, fmt.Errorf("could not determine relative path for %q: %w", fullPath, err)
	}
	name := strings.TrimSuffix(relPath, ".jsonl")

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("could not open book file %q: %w", fullPath, err)
	}
	defer f.Close()

	book, err := DecodeBook(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode book file %q: %w", fullPath, err)
	}
	book.name = name
	return book, nil
}

// SaveBook saves a book to its corresponding file under path, derived from
// the book's name (a book named "home" is saved to "<path>/home.jsonl").
func SaveBook(path string, book *Book) error {
	if book.Name() == "" {
		return fmt.Errorf("cannot save book with an empty name")
	}

	filePath := filepath.Join(path, book.Name()+".jsonl")

	// Ensure the directory for the book file exists.
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("could not create directory for book %q: %w", filePath, err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error opening book file %q for writing: %w", filePath, err)
	}
	defer file.Close()

	return EncodeBook(file, book)
}

// findBookPaths scans a directory for book files matching the query.
func findBookPaths(path, query string) ([]string, error) {
	var books []string

	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".jsonl") {
			relPath, err := filepath.Rel(path, p)
			if err != nil {
				// This should not happen if p is in path
				return err
			}
			name := strings.TrimSuffix(relPath, ".jsonl")
			if query == "" || name == query {
				books = append(books, p)
			}
		}
		return nil
	})

	return books, err
}
