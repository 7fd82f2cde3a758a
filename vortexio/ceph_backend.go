//go:build ceph

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
	"bytes"
	"encoding/json"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/ceph/go-ceph/rados"
)

func init() {
	BackendRegistry["ceph"] = func(namespace string, raw []byte) BlockStore {
		var cfg struct {
			UserName    string `json:"username"`
			ClusterName string `json:"cluster"`
			ConfFile    string `json:"conf_file"`
			Pool        string `json:"pool"`
			Prefix      string `json:"prefix"`
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			panic("ceph backend: invalid config: " + err.Error())
		}
		factory := &CephFactory{
			UserName:    cfg.UserName,
			ClusterName: cfg.ClusterName,
			ConfFile:    cfg.ConfFile,
			Pool:        cfg.Pool,
			Prefix:      cfg.Prefix,
		}
		return factory.CreateStore(namespace)
	}
}

// CephFactory configures a CephBlockStore -- same connection knobs as
// storage.CephFactory, generalized from a per-database schema prefix to an
// arbitrary namespace (one block store per open vortex file set).
type CephFactory struct {
	UserName    string // e.g. "client.admin" or "client.vortex"
	ClusterName string // often "ceph"
	ConfFile    string // optional
	Pool        string // e.g. "vortex"
	Prefix      string // base prefix; joined with namespace per store
}

func (f *CephFactory) CreateStore(namespace string) BlockStore {
	pfx := path.Join(strings.TrimSuffix(f.Prefix, "/"), namespace)
	return &CephBlockStore{factory: f, prefix: pfx}
}

// CephBlockStore stores each block as one RADOS object named
// <prefix>/<block name>. RADOS has no directory listing by prefix alone in
// the raw rados API the way a filesystem does; ListBlocks neither scans
// the pool nor reads any index, and always returns no entries.
type CephBlockStore struct {
	factory *CephFactory
	prefix  string

	mu     sync.Mutex
	conn   *rados.Conn
	ioctx  *rados.IOContext
	opened bool
}

func (s *CephBlockStore) ensureOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return
	}

	conn, err := rados.NewConnWithClusterAndUser(s.factory.ClusterName, s.factory.UserName)
	if err != nil {
		panic(err)
	}
	if s.factory.ConfFile != "" {
		if err := conn.ReadConfigFile(s.factory.ConfFile); err != nil {
			panic(err)
		}
	} else {
		_ = conn.ReadDefaultConfigFile()
	}

	if err := conn.Connect(); err != nil {
		panic(err)
	}

	ioctx, err := conn.OpenIOContext(s.factory.Pool)
	if err != nil {
		conn.Shutdown()
		panic(err)
	}

	s.conn = conn
	s.ioctx = ioctx
	s.opened = true
}

func (s *CephBlockStore) obj(name string) string {
	return path.Join(s.prefix, name)
}

type cephReader struct {
	ioctx  *rados.IOContext
	obj    string
	off    uint64
	closed bool
}

func (r *cephReader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, io.ErrClosedPipe
	}
	n, err := r.ioctx.Read(r.obj, p, r.off)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	r.off += uint64(n)
	return n, nil
}

func (r *cephReader) Close() error {
	r.closed = true
	return nil
}

func (s *CephBlockStore) ReadBlock(name string) io.ReadCloser {
	s.ensureOpen()
	obj := s.obj(name)
	if _, err := s.ioctx.Stat(obj); err != nil {
		return ErrorReader{err}
	}
	return &cephReader{ioctx: s.ioctx, obj: obj}
}

// cephWriteCloser buffers the whole block in memory and writes it in one
// WriteFull call on Close, the same trade-off CephStorage's schema/column
// writers make -- RADOS has no append primitive, and a block is written
// once, never incrementally.
type cephWriteCloser struct {
	s      *CephBlockStore
	obj    string
	buf    bytes.Buffer
	closed bool
}

func (w *cephWriteCloser) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	return w.buf.Write(p)
}

func (w *cephWriteCloser) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.s.ioctx.WriteFull(w.obj, w.buf.Bytes())
}

func (s *CephBlockStore) WriteBlock(name string) io.WriteCloser {
	s.ensureOpen()
	return &cephWriteCloser{s: s, obj: s.obj(name)}
}

func (s *CephBlockStore) RemoveBlock(name string) {
	s.ensureOpen()
	_ = s.ioctx.Delete(s.obj(name))
}

// ListBlocks has no efficient implementation over plain librados without a
// maintained index object (the same limitation CephStorage.Remove's comment
// documents); this store keeps no such index and always reports no entries.
func (s *CephBlockStore) ListBlocks(prefix string) ([]string, error) {
	return nil, nil
}
