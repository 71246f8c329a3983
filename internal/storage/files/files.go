// Package files реализует дисковое хранилище фотографий паспортов.
// Имя файла собирается из номера телефона и отметки времени загрузки,
// поэтому одновременные загрузки для одного номера дают разные файлы
// и не перезаписывают друг друга.
package files

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"
)

// Store сохраняет загруженные файлы в каталоге dir и возвращает
// публичные пути вида baseURL/<имя файла>.
type Store struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// New создаёт хранилище и каталог для файлов, если его ещё нет.
func New(dir, baseURL string) (*Store, error) {
	const op = "files.New"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{dir: dir, baseURL: baseURL, now: time.Now}, nil
}

// SavePassportPhoto записывает содержимое src в файл
// <телефон>_<unix-миллисекунды><расширение> и возвращает публичный путь.
func (s *Store) SavePassportPhoto(phoneNumber, originalName string, src io.Reader) (string, error) {
	const op = "files.SavePassportPhoto"

	name := fmt.Sprintf("%s_%d%s", phoneNumber, s.now().UnixMilli(), filepath.Ext(originalName))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = dst.Close()
	}()

	if _, err = io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return path.Join(s.baseURL, name), nil
}
