package alloc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

var (
	dumpHeaderColor = color.New(color.FgCyan, color.Bold)
	dumpCountColor  = color.New(color.FgYellow)
)

type dumpRecord struct {
	allocID uint64
	addr    uintptr
	size    uintptr
	align   uintptr
}

// DumpString renders the live blocks of the heap as a table, oldest first.
// Intended for post-mortem leak inspection; returns "" when nothing is live.
func (h *Heap) DumpString() string {
	h.mu.Lock()
	records := make([]dumpRecord, 0, len(h.blocks))
	for addr, b := range h.blocks {
		records = append(records, dumpRecord{allocID: b.allocID, addr: addr, size: b.size, align: b.align})
	}
	h.mu.Unlock()

	if len(records) == 0 {
		return ""
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].allocID < records[j].allocID
	})

	var sb strings.Builder
	sb.WriteString(dumpHeaderColor.Sprint("live allocations"))
	sb.WriteString(" ")
	sb.WriteString(dumpCountColor.Sprintf("(%d)", len(records)))
	sb.WriteString("\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("  alloc#%-6d %#012x size=%-8d align=%d\n", r.allocID, r.addr, r.size, r.align))
	}
	return sb.String()
}
