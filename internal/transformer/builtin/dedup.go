package builtin

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"secmar/pkg/records"
)

// DeDup collapses records that are identical across every column, keeping
// the first occurrence. Row identity is a 128-bit xxh3 over a canonical
// encoding of the full record, so the pass stays O(n) for large batches.
//
// Running DeDup on its own output is a no-op: once duplicates are gone
// there is nothing left to collapse.
type DeDup struct{}

func (DeDup) Apply(in []records.Record) []records.Record {
	if len(in) < 2 {
		return in
	}
	seen := make(map[xxh3.Uint128]struct{}, len(in))
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		key := rowKey(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// rowKey encodes the record deterministically (sorted columns, typed value
// spelling, unit separators) and hashes it.
func rowKey(r records.Record) xxh3.Uint128 {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	var b strings.Builder
	for _, k := range cols {
		b.WriteString(k)
		b.WriteByte('\x1f')
		b.WriteString(cellString(r[k]))
		b.WriteByte('\x1e')
	}
	return xxh3.Hash128([]byte(b.String()))
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return "\x00"
	case string:
		return "s:" + t
	case time.Time:
		return "t:" + t.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%T:%v", t, t)
	}
}
