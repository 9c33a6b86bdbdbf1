package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// jsonFile коллекция, целиком лежащая в одном JSON-файле (массив записей).
// Каждая мутация: прочитать весь файл → изменить в памяти → переписать весь файл.
// mu сериализует цикл read-modify-write в пределах процесса.
type jsonFile[T any] struct {
	path string
	mu   sync.Mutex
}

func newJSONFile[T any](path string) *jsonFile[T] {
	return &jsonFile[T]{path: path}
}

// read читает коллекцию. Отсутствующий файл — пустая коллекция.
func (f *jsonFile[T]) read() ([]T, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	items := []T{}
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return items, nil
}

// write переписывает файл целиком через временный файл и rename.
func (f *jsonFile[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", f.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// Load возвращает текущую коллекцию.
func (f *jsonFile[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Modify выполняет fn над коллекцией и сохраняет результат.
// Если fn вернула ошибку, файл не трогаем.
func (f *jsonFile[T]) Modify(ctx context.Context, fn func([]T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return f.write(items)
}
