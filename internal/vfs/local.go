package vfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// localBackend файлы на локальном диске
type localBackend struct{}

type localFile struct {
	*os.File
}

func (f localFile) Size() (int64, error) {
	info, err := f.File.Stat()
	if err != nil {
		return 0, fmt.Errorf("ошибка получения размера файла: %w", err)
	}
	return info.Size(), nil
}

func (f localFile) Tell() (int64, error) {
	return f.File.Seek(0, io.SeekCurrent)
}

func (localBackend) Open(_ context.Context, path, mode string) (File, error) {
	flag := os.O_RDONLY
	switch mode {
	case ModeWrite:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ModeAppend:
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	return localFile{f}, nil
}

func (localBackend) Stat(_ context.Context, path string) (Stat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stat{}, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}
	return Stat{Size: info.Size(), Mode: info.Mode(), ModTime: info.ModTime(), IsDir: info.IsDir()}, nil
}

func (localBackend) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка проверки %s: %w", path, err)
	}
	return true, nil
}

func (localBackend) Delete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("ошибка удаления файла: %w", err)
	}
	return nil
}

func (localBackend) Rename(_ context.Context, from, to string) error {
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("ошибка переименования: %w", err)
	}
	return nil
}

func (localBackend) ListDir(_ context.Context, path string) (dirs, files []string, err error) {
	entries, err := os.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка чтения каталога: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		} else {
			files = append(files, e.Name())
		}
	}
	return dirs, files, nil
}

func (localBackend) Mkdir(_ context.Context, path string, parents bool) error {
	var err error
	if parents {
		err = os.MkdirAll(path, 0o755)
	} else {
		err = os.Mkdir(path, 0o755)
	}
	if err != nil {
		return fmt.Errorf("ошибка создания каталога: %w", err)
	}
	return nil
}

func (localBackend) Rmdir(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("ошибка удаления каталога: %w", err)
	}
	return nil
}
