package vfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hazadus/go-sake/internal/s3"
)

// s3Backend объекты S3 по путям вида s3://bucket/key
type s3Backend struct {
	store *s3.Store
}

func newS3Backend(store *s3.Store) *s3Backend {
	return &s3Backend{store: store}
}

// ParseS3 разбирает путь s3://bucket/key
func ParseS3(path string) (bucket, key string, err error) {
	rest := path
	if i := strings.Index(path, "://"); i >= 0 {
		rest = path[i+3:]
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("в пути %s не указан bucket", path)
	}
	return bucket, key, nil
}

// s3File читает объект в память, запись отправляется при Close
type s3File struct {
	ctx    context.Context
	store  *s3.Store
	bucket string
	key    string
	rd     *bytes.Reader
	buf    *bytes.Buffer
	closed bool
}

func (f *s3File) Read(p []byte) (int, error) {
	if f.rd == nil {
		return 0, fmt.Errorf("файл открыт для записи: %w", ErrUnsupported)
	}
	return f.rd.Read(p)
}

func (f *s3File) Write(p []byte) (int, error) {
	if f.buf == nil {
		return 0, fmt.Errorf("файл открыт для чтения: %w", ErrUnsupported)
	}
	return f.buf.Write(p)
}

func (f *s3File) Seek(offset int64, whence int) (int64, error) {
	if f.rd == nil {
		return 0, fmt.Errorf("seek при записи в S3: %w", ErrUnsupported)
	}
	return f.rd.Seek(offset, whence)
}

func (f *s3File) Size() (int64, error) {
	if f.rd != nil {
		return f.rd.Size(), nil
	}
	return int64(f.buf.Len()), nil
}

func (f *s3File) Tell() (int64, error) {
	if f.rd != nil {
		return f.rd.Size() - int64(f.rd.Len()), nil
	}
	return int64(f.buf.Len()), nil
}

func (f *s3File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.buf == nil {
		return nil
	}
	if _, err := f.store.Put(f.ctx, f.bucket, f.key, bytes.NewReader(f.buf.Bytes())); err != nil {
		return err
	}
	return nil
}

func (b *s3Backend) Open(ctx context.Context, path, mode string) (File, error) {
	bucket, key, err := ParseS3(path)
	if err != nil {
		return nil, err
	}
	f := &s3File{ctx: ctx, store: b.store, bucket: bucket, key: key}

	if mode == ModeRead || mode == ModeAppend {
		data, err := b.fetch(ctx, bucket, key)
		switch {
		case mode == ModeAppend && errors.Is(err, s3.ErrNotFound):
			data = nil
		case err != nil:
			return nil, err
		}
		if mode == ModeRead {
			f.rd = bytes.NewReader(data)
			return f, nil
		}
		f.buf = bytes.NewBuffer(data)
		return f, nil
	}

	f.buf = &bytes.Buffer{}
	return f, nil
}

func (b *s3Backend) fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	body, _, err := b.store.Get(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения объекта %s: %w", key, err)
	}
	return data, nil
}

func (b *s3Backend) Stat(ctx context.Context, path string) (Stat, error) {
	bucket, key, err := ParseS3(path)
	if err != nil {
		return Stat{}, err
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return Stat{IsDir: true, Mode: 0o755}, nil
	}

	obj, err := b.store.Head(ctx, bucket, key)
	if err != nil {
		return Stat{}, err
	}
	return Stat{Size: obj.Size, ModTime: obj.LastModified, Mode: 0o644}, nil
}

func (b *s3Backend) Exists(ctx context.Context, path string) (bool, error) {
	_, err := b.Stat(ctx, path)
	if errors.Is(err, s3.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *s3Backend) Delete(ctx context.Context, path string) error {
	bucket, key, err := ParseS3(path)
	if err != nil {
		return err
	}
	return b.store.Delete(ctx, bucket, key)
}

func (b *s3Backend) copy(ctx context.Context, from, to string) error {
	srcBucket, srcKey, err := ParseS3(from)
	if err != nil {
		return err
	}
	dstBucket, dstKey, err := ParseS3(to)
	if err != nil {
		return err
	}
	return b.store.Copy(ctx, srcBucket, srcKey, dstBucket, dstKey)
}

func (b *s3Backend) Rename(ctx context.Context, from, to string) error {
	if err := b.copy(ctx, from, to); err != nil {
		return err
	}
	return b.Delete(ctx, from)
}

func (b *s3Backend) ListDir(ctx context.Context, path string) (dirs, files []string, err error) {
	bucket, prefix, err := ParseS3(path)
	if err != nil {
		return nil, nil, err
	}

	dirs, objects, err := b.store.List(ctx, bucket, prefix)
	if err != nil {
		return nil, nil, err
	}
	for _, o := range objects {
		files = append(files, o.Key)
	}
	return dirs, files, nil
}

// Каталоги в S3 существуют только как префиксы ключей
func (b *s3Backend) Mkdir(context.Context, string, bool) error { return nil }

func (b *s3Backend) Rmdir(context.Context, string) error { return nil }
