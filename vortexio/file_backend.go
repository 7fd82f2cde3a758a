/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package vortexio

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func init() {
	BackendRegistry["file"] = func(namespace string, raw []byte) BlockStore {
		var cfg struct {
			Basepath string `json:"basepath"`
		}
		_ = json.Unmarshal(raw, &cfg)
		return (&FileFactory{Basepath: cfg.Basepath}).CreateStore(namespace)
	}
}

// FileFactory roots a FileBlockStore under Basepath, one subdirectory per
// namespace -- the layout persistence-files.go's FileFactory uses for a
// per-schema directory.
type FileFactory struct {
	Basepath string
}

func (f *FileFactory) CreateStore(namespace string) BlockStore {
	return &FileBlockStore{path: filepath.Join(f.Basepath, namespace) + string(os.PathSeparator)}
}

// FileBlockStore stores each block as one file under path.
type FileBlockStore struct {
	path string
}

func (s *FileBlockStore) ReadBlock(name string) io.ReadCloser {
	f, err := os.Open(filepath.Join(s.path, name))
	if err != nil {
		return ErrorReader{err}
	}
	return f
}

func (s *FileBlockStore) WriteBlock(name string) io.WriteCloser {
	os.MkdirAll(s.path, 0750)
	f, err := os.Create(filepath.Join(s.path, name))
	if err != nil {
		panic(err)
	}
	return f
}

func (s *FileBlockStore) RemoveBlock(name string) {
	os.Remove(filepath.Join(s.path, name))
}

func (s *FileBlockStore) ListBlocks(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			out = append(out, e.Name())
		}
	}
	return out, nil
}
