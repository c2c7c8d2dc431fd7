package script

import (
	"io"

	"github.com/hazadus/go-sake/internal/vfs"
)

func (s *session) vfsModule() Module {
	fs := s.h.FS()

	// ok переводит ошибку в bool, как это делают функции xbmcvfs
	ok := func(op, path string, err error) bool {
		if err != nil {
			s.log.Warn("ошибка файловой операции", "op", op, "path", path, "error", err)
			return false
		}
		return true
	}

	return Module{
		Name: "xbmcvfs",
		Functions: map[string]Func{
			"translatePath": func(a Args) (any, error) {
				return fs.TranslatePath(a.String(0, "")), nil
			},
			"makeLegalFilename": func(a Args) (any, error) {
				return vfs.MakeLegalFilename(a.String(0, "")), nil
			},
			"validatePath": func(a Args) (any, error) {
				return vfs.ValidatePath(a.String(0, "")), nil
			},
			"exists": func(a Args) (any, error) {
				exists, err := fs.Exists(s.ctx, a.String(0, ""))
				return exists && err == nil, nil
			},
			"delete": func(a Args) (any, error) {
				return ok("delete", a.String(0, ""), fs.Delete(s.ctx, a.String(0, ""))), nil
			},
			"copy": func(a Args) (any, error) {
				return ok("copy", a.String(0, ""), fs.Copy(s.ctx, a.String(0, ""), a.String(1, ""), nil)), nil
			},
			"rename": func(a Args) (any, error) {
				return ok("rename", a.String(0, ""), fs.Rename(s.ctx, a.String(0, ""), a.String(1, ""))), nil
			},
			"mkdir": func(a Args) (any, error) {
				return ok("mkdir", a.String(0, ""), fs.Mkdir(s.ctx, a.String(0, ""))), nil
			},
			"mkdirs": func(a Args) (any, error) {
				return ok("mkdirs", a.String(0, ""), fs.Mkdirs(s.ctx, a.String(0, ""))), nil
			},
			"rmdir": func(a Args) (any, error) {
				return ok("rmdir", a.String(0, ""), fs.Rmdir(s.ctx, a.String(0, ""))), nil
			},
			// listdir возвращает пару [каталоги, файлы]
			"listdir": func(a Args) (any, error) {
				dirs, files, err := fs.ListDir(s.ctx, a.String(0, ""))
				if err != nil {
					return nil, err
				}
				if dirs == nil {
					dirs = []string{}
				}
				if files == nil {
					files = []string{}
				}
				return []any{dirs, files}, nil
			},
			"File": s.newFile,
			"Stat": s.newStat,
		},
	}
}

// newFile xbmcvfs.File(path, mode)
func (s *session) newFile(a Args) (any, error) {
	f, err := s.h.FS().Open(s.ctx, a.String(0, ""), a.String(1, vfs.ModeRead))
	if err != nil {
		return nil, err
	}

	closed := false
	closeFile := func() error {
		if closed {
			return nil
		}
		closed = true
		return f.Close()
	}
	s.onClose(func() { _ = closeFile() })

	read := func(n int) ([]byte, error) {
		if n <= 0 {
			return io.ReadAll(f)
		}
		buf := make([]byte, n)
		got, err := io.ReadFull(f, buf)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = nil
		}
		return buf[:got], err
	}

	return &Object{
		Class: "File",
		Value: f,
		Methods: map[string]Func{
			"read": func(a Args) (any, error) {
				data, err := read(a.Int(0, 0))
				return string(data), err
			},
			"readBytes": func(a Args) (any, error) {
				data, err := read(a.Int(0, 0))
				out := make([]int, len(data))
				for i, b := range data {
					out[i] = int(b)
				}
				return out, err
			},
			"write": func(a Args) (any, error) {
				_, err := io.WriteString(f, a.String(0, ""))
				return err == nil, err
			},
			"seek": func(a Args) (any, error) {
				pos, err := f.Seek(int64(a.Int(0, 0)), a.Int(1, io.SeekStart))
				return int(pos), err
			},
			"size": func(Args) (any, error) {
				size, err := f.Size()
				return int(size), err
			},
			"tell": func(Args) (any, error) {
				pos, err := f.Tell()
				return int(pos), err
			},
			"close": func(Args) (any, error) { return nil, closeFile() },
		},
	}, nil
}

// newStat xbmcvfs.Stat(path)
func (s *session) newStat(a Args) (any, error) {
	st, err := s.h.FS().Stat(s.ctx, a.String(0, ""))
	if err != nil {
		return nil, err
	}
	mtime := int(st.ModTime.Unix())
	return &Object{
		Class: "Stat",
		Value: st,
		Methods: map[string]Func{
			"st_size":  getter(int(st.Size)),
			"st_mode":  getter(int(st.Mode)),
			"st_mtime": getter(mtime),
			"st_atime": getter(mtime),
			"st_ctime": getter(mtime),
			"st_ino":   getter(0),
			"st_dev":   getter(0),
			"st_nlink": getter(1),
			"st_uid":   getter(0),
			"st_gid":   getter(0),
		},
	}, nil
}
