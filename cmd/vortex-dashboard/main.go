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

// vortex-dashboard streams the sampling compressor's per-node decisions
// (encoding chosen, byte counts before/after, depth) over a websocket as
// they are made, the way memcp's dashboard streams cache_stat to a
// browser -- aimed at watching one compression run live instead of
// polling a cache snapshot.
package main

import (
	"flag"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/dc0d/onexit"
	"github.com/gorilla/websocket"

	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/compress"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// event is one compressor decision, flattened for JSON streaming.
type event struct {
	Path         string  `json:"path"`
	Depth        int     `json:"depth"`
	Encoding     string  `json:"encoding"`
	NbytesBefore int64   `json:"nbytes_before"`
	NbytesAfter  int64   `json:"nbytes_after"`
	Ratio        float64 `json:"ratio"`
}

func main() {
	addr := flag.String("addr", ":8089", "listen address")
	seed := flag.Int64("seed", 1, "demo data random seed")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveCompressorFeed(w, r, *seed)
	})

	server := &http.Server{Addr: *addr, Handler: mux}
	onexit.Register(func() {
		log.Println("vortex-dashboard: shutting down")
		server.Close()
	})

	log.Println("vortex-dashboard listening on", *addr, "(connect to /ws)")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func serveCompressorFeed(w http.ResponseWriter, r *http.Request, seed int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade:", err)
		return
	}
	defer conn.Close()

	a := demoArray(seed)
	compressed, tree, err := compress.Compress(a, nil, compress.DefaultConfig())
	if err != nil {
		conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	err = walkTree(conn, "root", 0, a, compressed, tree)
	if err != nil {
		log.Println("streaming compressor feed:", err)
	}
}

// walkTree sends one event per node of the decision tree, pre-order,
// pacing the stream so a connected browser sees it arrive live rather
// than all at once.
func walkTree(conn *websocket.Conn, path string, depth int, before, after array.Array, tree *compress.Tree) error {
	name := "unchanged"
	if tree != nil && tree.Encoding != nil {
		name = tree.Encoding.Name()
	}
	nb, na := before.Nbytes(), after.Nbytes()
	ratio := 1.0
	if nb > 0 {
		ratio = float64(na) / float64(nb)
	}
	ev := event{
		Path:         path,
		Depth:        depth,
		Encoding:     name,
		NbytesBefore: nb,
		NbytesAfter:  na,
		Ratio:        ratio,
	}
	if err := conn.WriteJSON(ev); err != nil {
		return err
	}
	time.Sleep(150 * time.Millisecond)

	beforeChildren := before.Children()
	afterChildren := after.Children()
	for i := 0; i < len(afterChildren) && i < len(beforeChildren); i++ {
		var childTree *compress.Tree
		if tree != nil && i < len(tree.Children) {
			childTree = tree.Children[i]
		}
		childPath := path + "/" + strconv.Itoa(i)
		if err := walkTree(conn, childPath, depth+1, beforeChildren[i], afterChildren[i], childTree); err != nil {
			return err
		}
	}
	return nil
}

// demoArray builds a synthetic int64 column with runs and a handful of
// repeated values, shaped so the sampling compressor has an obvious
// encoding to find (run-end or dictionary) instead of streaming opaque
// random noise.
func demoArray(seed int64) array.Array {
	rnd := rand.New(rand.NewSource(seed))
	dictionary := []int64{7, 42, 99, 1000}
	values := make([]int64, 20000)
	i := 0
	for i < len(values) {
		run := 1 + rnd.Intn(40)
		v := dictionary[rnd.Intn(len(dictionary))]
		for j := 0; j < run && i < len(values); j++ {
			values[i] = v
			i++
		}
	}
	return array.NewI64(values)
}
