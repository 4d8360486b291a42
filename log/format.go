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
	"bytes"
	"fmt"
	"strconv"
	"time"
)

const (
	timeFormat     = "2006-01-02 15:04:05.000"
	floatFormat    = 'f'
	termMsgJust    = 44
	errorKey       = "LOG_ERROR"
	maxCtxValueLen = 512
)

// Format renders a record into bytes ready for a stream handler.
type Format interface {
	Format(r *Record) []byte
}

type formatFunc func(*Record) []byte

func (f formatFunc) Format(r *Record) []byte { return f(r) }

// TerminalFormat renders records for human consumption:
//
//	INFO [08-01|10:12:33.415|pool/router] Job accepted  cid=bafy... reward=1.5
func TerminalFormat(colored bool) Format {
	return formatFunc(func(r *Record) []byte {
		b := &bytes.Buffer{}
		fmt.Fprintf(b, "%s[%s|%s] %s ",
			paintLvl(r.Lvl, colored),
			r.Time.Format("01-02|15:04:05.000"),
			r.Module,
			r.Msg,
		)
		// pad short messages so the key/value tail lines up
		if pad := termMsgJust - len(r.Msg); pad > 0 {
			b.Write(bytes.Repeat([]byte{' '}, pad))
		}
		writeCtx(b, r.Ctx)
		b.WriteByte('\n')
		return b.Bytes()
	})
}

// JSONFormat renders records as single-line JSON objects for log shippers.
func JSONFormat() Format {
	return formatFunc(func(r *Record) []byte {
		b := &bytes.Buffer{}
		fmt.Fprintf(b, `{"t":%q,"lvl":%q,"module":%q,"msg":%q`,
			r.Time.Format(time.RFC3339Nano), r.Lvl.AlignedString(), r.Module.String(), r.Msg)
		for i := 0; i < len(r.Ctx); i += 2 {
			k, ok := r.Ctx[i].(string)
			if !ok {
				k = errorKey
			}
			var v interface{} = "nil"
			if i+1 < len(r.Ctx) {
				v = r.Ctx[i+1]
			}
			fmt.Fprintf(b, ",%q:%q", k, formatValue(v))
		}
		b.WriteString("}\n")
		return b.Bytes()
	})
}

func writeCtx(b *bytes.Buffer, ctx []interface{}) {
	for i := 0; i < len(ctx); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		k, ok := ctx[i].(string)
		if !ok {
			k = errorKey
		}
		var v interface{} = "nil"
		if i+1 < len(ctx) {
			v = ctx[i+1]
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(v))
	}
}

func formatValue(value interface{}) string {
	var s string
	switch v := value.(type) {
	case time.Time:
		s = v.Format(timeFormat)
	case error:
		s = v.Error()
	case fmt.Stringer:
		s = v.String()
	case float32:
		s = strconv.FormatFloat(float64(v), floatFormat, 3, 64)
	case float64:
		s = strconv.FormatFloat(v, floatFormat, 3, 64)
	case string:
		s = v
	default:
		s = fmt.Sprintf("%+v", value)
	}
	if len(s) > maxCtxValueLen {
		s = s[:maxCtxValueLen] + "..."
	}
	if needsQuoting(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuoting(s string) bool {
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return len(s) == 0
}
