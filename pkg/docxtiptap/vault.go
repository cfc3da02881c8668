package docxtiptap

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Vault moves raw fragments out of table attributes into a single storage
// node appended to the document, and back again before export. Keys are
// derived from a table's id plus row and cell positions:
//
//	table:<id>:tblPr
//	table:<id>:tblGrid
//	table:<id>:row:<i>
//	table:<id>:row:<i>:cell:<j>
//	table:<id>:row:<i>:cell:<j>:nested:<k>
type Vault struct {
	logger *Logger
}

// NewVault creates a vault that logs through logger (global logger if nil)
func NewVault(logger *Logger) *Vault {
	if logger == nil {
		logger = GetLogger()
	}
	return &Vault{logger: logger}
}

func tableKey(id string) string {
	return "table:" + id
}

func rowKey(id string, row int) string {
	return tableKey(id) + ":row:" + strconv.Itoa(row)
}

func cellKey(id string, row, cell int) string {
	return rowKey(id, row) + ":cell:" + strconv.Itoa(cell)
}

func nestedKey(id string, row, cell, k int) string {
	return cellKey(id, row, cell) + ":nested:" + strconv.Itoa(k)
}

// Extract strips raw fragments and cell colwidth attributes from every table
// in doc, including tables inside sections and cells. When anything was
// captured a storage node is appended to doc's top-level content. The
// captured map is returned.
func (v *Vault) Extract(doc *Node) map[string]string {
	store := make(map[string]string)
	if doc == nil {
		return store
	}

	walkTables(doc, func(table *Node) {
		id := table.StringAttr("id")
		if id == "" {
			return
		}
		moveAttr(table, AttrRawTblPr, store, tableKey(id)+":tblPr")
		moveAttr(table, AttrRawTblGrid, store, tableKey(id)+":tblGrid")

		for i, row := range table.Content {
			moveAttr(row, AttrRawXML, store, rowKey(id, i))
			for j, cell := range row.Content {
				moveAttr(cell, AttrRawXML, store, cellKey(id, i, j))
				for k, frag := range stringList(cell.Attrs[AttrNestedTables]) {
					store[nestedKey(id, i, j, k)] = frag
				}
				if cell.Attrs != nil {
					delete(cell.Attrs, AttrNestedTables)
					delete(cell.Attrs, "colwidth")
					if len(cell.Attrs) == 0 {
						cell.Attrs = nil
					}
				}
			}
		}
	})

	if len(store) > 0 {
		data, err := json.Marshal(store)
		if err != nil {
			v.logger.Error("failed to encode fidelity storage: %v", err)
			return store
		}
		doc.Content = append(doc.Content, &Node{
			Type:  NodeRawStyles,
			Attrs: map[string]any{"data": string(data)},
		})
	}
	v.logger.WithField("entries", len(store)).Debug("extracted raw table fragments")
	return store
}

// Restore removes every top-level storage node from doc and reattaches the
// stored fragments to the tables still present. Keys with no live target are
// dropped; the number of restored and stale entries is returned.
func (v *Vault) Restore(doc *Node) (restored, stale int) {
	if doc == nil {
		return 0, 0
	}

	store := make(map[string]string)
	kept := doc.Content[:0]
	for _, node := range doc.Content {
		if node == nil || node.Type != NodeRawStyles {
			kept = append(kept, node)
			continue
		}
		v.decode(node, store)
	}
	doc.Content = kept
	if len(store) == 0 {
		return 0, 0
	}

	used := make(map[string]bool, len(store))
	take := func(key string) (string, bool) {
		val, ok := store[key]
		if ok {
			used[key] = true
		}
		return val, ok
	}

	walkTables(doc, func(table *Node) {
		id := table.StringAttr("id")
		if id == "" {
			return
		}
		if val, ok := take(tableKey(id) + ":tblPr"); ok {
			table.SetAttr(AttrRawTblPr, val)
		}
		if val, ok := take(tableKey(id) + ":tblGrid"); ok {
			table.SetAttr(AttrRawTblGrid, val)
		}
		for i, row := range table.Content {
			if val, ok := take(rowKey(id, i)); ok {
				row.SetAttr(AttrRawXML, val)
			}
			for j, cell := range row.Content {
				if val, ok := take(cellKey(id, i, j)); ok {
					cell.SetAttr(AttrRawXML, val)
				}
				var nested []any
				for k := 0; ; k++ {
					val, ok := take(nestedKey(id, i, j, k))
					if !ok {
						break
					}
					nested = append(nested, val)
				}
				if len(nested) > 0 {
					cell.SetAttr(AttrNestedTables, nested)
				}
			}
		}
	})

	var staleKeys []string
	for key := range store {
		if !used[key] {
			staleKeys = append(staleKeys, key)
		}
	}
	sort.Strings(staleKeys)
	for _, key := range staleKeys {
		v.logger.Debug("%v", &VaultKeyMismatch{Key: key})
	}

	restored = len(used)
	stale = len(staleKeys)
	v.logger.WithFields(Fields{"restored": restored, "stale": stale}).Debug("restored raw table fragments")
	return restored, stale
}

// decode merges one storage node into store. The data attribute is normally
// a JSON string; an already-decoded object is accepted too.
func (v *Vault) decode(node *Node, store map[string]string) {
	switch data := node.Attrs["data"].(type) {
	case string:
		var entries map[string]string
		if err := json.Unmarshal([]byte(data), &entries); err != nil {
			v.logger.Warn("ignoring malformed fidelity storage: %v", err)
			return
		}
		for k, val := range entries {
			store[k] = val
		}
	case map[string]any:
		for k, val := range data {
			if s, ok := val.(string); ok {
				store[k] = s
			}
		}
	case nil:
	default:
		v.logger.Warn("ignoring fidelity storage with data of type %T", data)
	}
}

// walkTables calls fn for every table node in document order, including
// tables reachable through sections and cells
func walkTables(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	if n.Type == NodeTable {
		fn(n)
	}
	for _, c := range n.Content {
		walkTables(c, fn)
	}
}

func moveAttr(n *Node, attr string, store map[string]string, key string) {
	if n == nil || n.Attrs == nil {
		return
	}
	if val, ok := n.Attrs[attr]; ok {
		if s, ok := val.(string); ok && s != "" {
			store[key] = s
		}
		delete(n.Attrs, attr)
	}
}

func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
