/*
Copyright (C) 2026  Carl-Philip Hänsch
Copyright (C) 2013  Pieter Kelchtermans (originally licensed unter WTFPL 2.0)

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

// vortex-repl is an interactive shell for poking at one array message
// written by WriteMessage: scalar_at, slice and stat without writing a Go
// program to do it, the same role scm.Repl plays for memcp's query
// language but aimed at one loaded array instead of a live database.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/cph-data/vortex/array"
	"github.com/cph-data/vortex/stats"
	"github.com/cph-data/vortex/vortexio"
)

const newprompt = "\033[32mvortex>\033[0m "
const resultprompt = "\033[31m=\033[0m "

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: vortex-repl <message-file>")
		os.Exit(1)
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer f.Close()

	a, id, ok, err := vortexio.ReadMessage(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "reading message:", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "file contains no array message")
		os.Exit(1)
	}

	fmt.Printf("loaded %s, %d rows, encoding %s, stream id %s\n", a.DType(), a.Len(), a.Encoding().Name(), id)
	repl(a)
}

func repl(a array.Array) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       ".vortex-repl-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			panic(err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Println("panic:", r, string(debug.Stack()))
				}
			}()
			out := runCommand(a, line)
			fmt.Print(resultprompt)
			fmt.Println(out)
		}()
	}
}

func runCommand(a array.Array, line string) string {
	fields := strings.Fields(line)
	switch fields[0] {
	case "len":
		return strconv.Itoa(a.Len())

	case "dtype":
		return a.DType().String()

	case "scalar_at":
		if len(fields) != 2 {
			return "usage: scalar_at <index>"
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			return "bad index: " + err.Error()
		}
		s, err := array.ScalarAt(a, i)
		if err != nil {
			return "error: " + err.Error()
		}
		return s.GoString()

	case "slice":
		if len(fields) != 3 {
			return "usage: slice <start> <stop>"
		}
		start, err1 := strconv.Atoi(fields[1])
		stop, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			return "bad bounds"
		}
		sl, err := array.Slice(a, start, stop)
		if err != nil {
			return "error: " + err.Error()
		}
		var b bytes.Buffer
		for i := 0; i < sl.Len(); i++ {
			s, err := array.ScalarAt(sl, i)
			if err != nil {
				return "error: " + err.Error()
			}
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(s.GoString())
		}
		return b.String()

	case "stat":
		if len(fields) != 2 {
			return "usage: stat <min|max|is_constant|is_sorted|is_strict_sorted|run_count|null_count|true_count>"
		}
		k, ok := parseStatKind(fields[1])
		if !ok {
			return "unknown stat kind: " + fields[1]
		}
		v, ok := a.Stats().GetOrCompute(k)
		if !ok {
			return "not available for this array"
		}
		return v.GoString()

	case "help":
		return "commands: len, dtype, scalar_at <i>, slice <start> <stop>, stat <kind>, exit"

	default:
		return "unknown command: " + fields[0] + " (try 'help')"
	}
}

func parseStatKind(name string) (stats.Kind, bool) {
	switch name {
	case "min":
		return stats.Min, true
	case "max":
		return stats.Max, true
	case "is_constant":
		return stats.IsConstant, true
	case "is_sorted":
		return stats.IsSorted, true
	case "is_strict_sorted":
		return stats.IsStrictSorted, true
	case "run_count":
		return stats.RunCount, true
	case "null_count":
		return stats.NullCount, true
	case "true_count":
		return stats.TrueCount, true
	default:
		return 0, false
	}
}
