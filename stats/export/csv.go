/*
 * MIT License
 *
 * Copyright (c) 2026 syslog-ng authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package export

import (
	"bytes"
	enccsv "encoding/csv"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
)

// csvRecord mirrors spec §6's "SourceName;SourceId;SourceInstance;State;Type;
// Number" column layout. gocsv (wired per SPEC_FULL.md §3, contributed by the
// m-lab-tcp-info example) drives the struct-tag-based marshaling instead of
// hand-joining strings, while still producing the semicolon-delimited,
// quote-escaped format spec §4.1 fixes.
type csvRecord struct {
	SourceName     string `csv:"SourceName"`
	SourceId       string `csv:"SourceId"`
	SourceInstance string `csv:"SourceInstance"`
	State          string `csv:"State"`
	Type           string `csv:"Type"`
	Number         string `csv:"Number"`
}

func init() {
	gocsv.TagName = "csv"
	// spec §6 fixes ';' as the column separator and no header row; gocsv's
	// pluggable writer hook lets us keep struct-tag marshaling while matching
	// that wire format exactly.
	gocsv.SetCSVWriter(func(w io.Writer) *gocsv.SafeCSVWriter {
		cw := enccsv.NewWriter(w)
		cw.Comma = ';'
		return gocsv.NewSafeCSVWriter(cw)
	})
}

// CSVEscapeField hex-escapes bytes outside safe UTF-8 (spec §4.1 "CSV");
// quoting and embedded-quote doubling for fields containing ';' or '"' is
// left to the underlying encoding/csv writer, which already applies exactly
// that rule whenever a field contains its configured separator or quote
// character.
func CSVEscapeField(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			b.WriteString(`\x` + strconv.FormatUint(uint64(s[0]), 16))
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = s[size:]
	}
	return b.String()
}

// CSV renders rows as `component;id;instance;state;type;value\n`, matching
// spec §6's "SourceName;SourceId;SourceInstance;State;Type;Number" columns.
// Structural quoting (wrapping a field in `"..."` when it contains `;` or
// `"`, and doubling embedded quotes) is left entirely to the underlying
// encoding/csv writer; CSVEscapeField only handles the one thing it can't do,
// hex-escaping invalid UTF-8 bytes ahead of that.
func CSV(rows []Row) []byte {
	recs := make([]*csvRecord, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, &csvRecord{
			SourceName:     CSVEscapeField(row.Component),
			SourceId:       CSVEscapeField(row.ID),
			SourceInstance: CSVEscapeField(row.Instance),
			State:          string(row.State),
			Type:           row.Counter,
			Number:         strconv.FormatFloat(row.Value, 'f', -1, 64),
		})
	}

	var buf bytes.Buffer
	if err := gocsv.MarshalWithoutHeaders(recs, &buf); err != nil {
		// struct-tag marshaling of a fixed, known-good shape cannot fail in
		// practice; fall back to an empty export rather than panic.
		return nil
	}
	return buf.Bytes()
}

// KV renders rows as `name=value\n` one counter per line.
func KV(rows []Row) []byte {
	var b strings.Builder
	for _, row := range rows {
		name := row.Name
		if row.Counter != "" && row.Counter != "value" {
			name += "." + row.Counter
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(row.Value, 'f', -1, 64))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
