// Copyright 2026 The swarm-genesis Authors
// This file is part of the swarm-genesis library.
//
// The swarm-genesis library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The swarm-genesis library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the swarm-genesis library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Handler receives records from loggers and writes them somewhere.
type Handler interface {
	Log(r *Record)
}

type streamHandler struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
}

// StreamHandler writes formatted records to w, serialized by a mutex.
func StreamHandler(w io.Writer, format Format) Handler {
	if f, ok := w.(*os.File); ok && useColor() {
		w = colorable.NewColorable(f)
	}
	return &streamHandler{w: w, format: format}
}

func (h *streamHandler) Log(r *Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.w.Write(h.format.Format(r))
}

// LvlFilterHandler drops records above maxLvl before forwarding.
func LvlFilterHandler(maxLvl Lvl, next Handler) Handler {
	return &lvlFilterHandler{maxLvl: maxLvl, next: next}
}

type lvlFilterHandler struct {
	maxLvl Lvl
	next   Handler
}

func (h *lvlFilterHandler) Log(r *Record) {
	if r.Lvl <= h.maxLvl {
		h.next.Log(r)
	}
}

// ModuleFilterHandler forwards only records from the given modules.
func ModuleFilterHandler(modules []ModuleID, next Handler) Handler {
	set := make(map[ModuleID]bool, len(modules))
	for _, m := range modules {
		set[m] = true
	}
	return &moduleFilterHandler{modules: set, next: next}
}

type moduleFilterHandler struct {
	modules map[ModuleID]bool
	next    Handler
}

func (h *moduleFilterHandler) Log(r *Record) {
	if h.modules[r.Module] {
		h.next.Log(r)
	}
}

func useColor() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
}

var lvlColors = map[Lvl]*color.Color{
	LvlCrit:  color.New(color.FgMagenta, color.Bold),
	LvlError: color.New(color.FgRed),
	LvlWarn:  color.New(color.FgYellow),
	LvlInfo:  color.New(color.FgGreen),
	LvlDebug: color.New(color.FgCyan),
	LvlTrace: color.New(color.FgWhite),
}

func paintLvl(lvl Lvl, colored bool) string {
	s := lvl.AlignedString()
	if !colored {
		return s
	}
	c, ok := lvlColors[lvl]
	if !ok {
		return s
	}
	return c.Sprint(s)
}
