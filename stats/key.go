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

// Package stats implements the hierarchical counter-cluster registry shared
// by every component of the engine: the filter, queue, source and
// destination packages all register their counters here (spec §4.1).
package stats

import (
	"sort"
	"strings"
)

// Label is a single name/value pair attached to a cluster key.
type Label struct {
	Name  string
	Value string
}

// LegacyKey is the historical (component, id, instance, name) addressing
// scheme kept for CSV export and the pre-label config surface.
type LegacyKey struct {
	Component string
	ID        string
	Instance  string
	Name      string
}

// IsZero reports whether no legacy fields were supplied.
func (l LegacyKey) IsZero() bool {
	return l == LegacyKey{}
}

// Key identifies a cluster. Two keys are equal iff name, label set (order
// independent) and legacy tuple all match (spec §3 "Key equality").
type Key struct {
	Name   string
	Labels []Label
	Legacy LegacyKey
}

// NewKey builds a Key, canonicalizing label order by sorting on label name so
// that two calls with the same labels in different order produce the same
// canonical string (spec §4.1 "Key equality").
func NewKey(name string, labels ...Label) Key {
	cp := make([]Label, len(labels))
	copy(cp, labels)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Name < cp[j].Name })
	return Key{Name: name, Labels: cp}
}

// WithLegacy attaches a legacy (component, id, instance, name) tuple to the key.
func (k Key) WithLegacy(l LegacyKey) Key {
	k.Legacy = l
	return k
}

// Equal reports whether k and other address the same cluster.
func (k Key) Equal(other Key) bool {
	if k.Name != other.Name || k.Legacy != other.Legacy {
		return false
	}
	if len(k.Labels) != len(other.Labels) {
		return false
	}
	for i := range k.Labels {
		if k.Labels[i] != other.Labels[i] {
			return false
		}
	}
	return true
}

// Canonical renders a deterministic string used as the registry's hash-table
// key. Label order is already canonicalized by NewKey.
func (k Key) Canonical() string {
	var b strings.Builder
	b.WriteString(k.Name)
	for _, l := range k.Labels {
		b.WriteByte('\x1f')
		b.WriteString(l.Name)
		b.WriteByte('=')
		b.WriteString(l.Value)
	}
	if !k.Legacy.IsZero() {
		b.WriteByte('\x1e')
		b.WriteString(k.Legacy.Component)
		b.WriteByte('.')
		b.WriteString(k.Legacy.ID)
		b.WriteByte('.')
		b.WriteString(k.Legacy.Instance)
		b.WriteByte('.')
		b.WriteString(k.Legacy.Name)
	}
	return b.String()
}

// QueryKey renders the key the way the §4.1/§6 query language and CSV/kv
// exporters match against: "component.id.instance.name" when a legacy tuple
// is present, else the bare name.
func (k Key) QueryKey() string {
	if k.Legacy.IsZero() {
		return k.Name
	}
	return strings.Join([]string{k.Legacy.Component, k.Legacy.ID, k.Legacy.Instance, k.Legacy.Name}, ".")
}

// KeyFromLegacy builds a Key purely from the legacy (component, id, instance,
// name) tuple, synthesizing Name as its dotted join so that clusters created
// through the old compatibility surface and the new label surface resolve to
// the same canonical key (original_source/lib/stats/stats-cluster-key-builder.c).
func KeyFromLegacy(component, id, instance, name string) Key {
	l := LegacyKey{Component: component, ID: id, Instance: instance, Name: name}
	return Key{Name: l.Component + "." + l.ID + "." + l.Instance + "." + l.Name, Legacy: l}
}

// globMatch implements shell-style glob matching (`*` and `?`) used by the
// query layer; it is applied independently per dotted segment so
// "src.*.instance1.*" matches component-wise (original_source's
// stats-query.c per-segment behavior, spec §4 "SUPPLEMENTED FEATURES").
func globMatch(pattern, s string) bool {
	return globMatchSegments(strings.Split(pattern, "."), strings.Split(s, "."))
}

func globMatchSegments(pat, s []string) bool {
	if len(pat) != len(s) {
		// a pattern with fewer dotted segments than the key is still allowed
		// to match as a plain (non-segmented) glob over the full string —
		// e.g. querying a bare cluster name with no dots.
		if len(pat) == 1 {
			return globSegment(pat[0], strings.Join(s, "."))
		}
		return false
	}
	for i := range pat {
		if !globSegment(pat[i], s[i]) {
			return false
		}
	}
	return true
}

func globSegment(pattern, s string) bool {
	return globRunes([]rune(pattern), []rune(s))
}

// GlobMatchString exposes the query layer's single-segment glob matcher
// (`*` and `?`, no dot-segmentation) for other packages that need the same
// pattern language against a flat string, such as httpscrape's header
// pattern match.
func GlobMatchString(pattern, s string) bool {
	return globSegment(pattern, s)
}

func globRunes(pat, s []rune) bool {
	if len(pat) == 0 {
		return len(s) == 0
	}
	switch pat[0] {
	case '*':
		if globRunes(pat[1:], s) {
			return true
		}
		for i := 0; i < len(s); i++ {
			if globRunes(pat[1:], s[i+1:]) {
				return true
			}
		}
		return false
	case '?':
		if len(s) == 0 {
			return false
		}
		return globRunes(pat[1:], s[1:])
	default:
		if len(s) == 0 || s[0] != pat[0] {
			return false
		}
		return globRunes(pat[1:], s[1:])
	}
}
