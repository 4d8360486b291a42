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
	"os"
	"sync"
	"time"

	"github.com/go-stack/stack"
)

// Lvl is the log verbosity level. Lower values are more severe.
type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

func (l Lvl) AlignedString() string {
	switch l {
	case LvlTrace:
		return "TRACE"
	case LvlDebug:
		return "DEBUG"
	case LvlInfo:
		return "INFO "
	case LvlWarn:
		return "WARN "
	case LvlError:
		return "ERROR"
	case LvlCrit:
		return "CRIT "
	default:
		return "?????"
	}
}

// Record carries one log event through handlers.
type Record struct {
	Time   time.Time
	Lvl    Lvl
	Module ModuleID
	Msg    string
	Ctx    []interface{}
	Call   stack.Call
}

// Logger writes leveled key/value records.
type Logger interface {
	NewWith(ctx ...interface{}) Logger

	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	// Crit logs and then terminates the process.
	Crit(msg string, ctx ...interface{})
}

type logger struct {
	module ModuleID
	ctx    []interface{}
}

var (
	mu          sync.RWMutex
	root        Handler = StreamHandler(os.Stderr, TerminalFormat(useColor()))
	globalLevel         = LvlInfo
)

// NewModuleLogger returns the logger bound to the given module id.
func NewModuleLogger(module ModuleID) Logger {
	return &logger{module: module}
}

// ChangeGlobalLogLevel sets the verbosity threshold shared by all loggers.
func ChangeGlobalLogLevel(lvl Lvl) {
	mu.Lock()
	globalLevel = lvl
	mu.Unlock()
}

// SetRootHandler replaces the process-wide output handler.
func SetRootHandler(h Handler) {
	mu.Lock()
	root = h
	mu.Unlock()
}

func (l *logger) NewWith(ctx ...interface{}) Logger {
	child := &logger{module: l.module, ctx: make([]interface{}, 0, len(l.ctx)+len(ctx))}
	child.ctx = append(child.ctx, l.ctx...)
	child.ctx = append(child.ctx, ctx...)
	return child
}

func (l *logger) write(lvl Lvl, msg string, ctx []interface{}) {
	mu.RLock()
	h, threshold := root, globalLevel
	mu.RUnlock()
	if lvl > threshold {
		return
	}
	merged := ctx
	if len(l.ctx) > 0 {
		merged = make([]interface{}, 0, len(l.ctx)+len(ctx))
		merged = append(merged, l.ctx...)
		merged = append(merged, ctx...)
	}
	h.Log(&Record{
		Time:   time.Now(),
		Lvl:    lvl,
		Module: l.module,
		Msg:    msg,
		Ctx:    merged,
		Call:   stack.Caller(2),
	})
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(LvlTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(LvlDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(LvlInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(LvlWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(LvlError, msg, ctx) }

func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.write(LvlCrit, msg, ctx)
	os.Exit(1)
}
