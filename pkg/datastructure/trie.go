package datastructure

import (
	"sort"
)

const trieChildren = 26

type trieNode struct {
	children    [trieChildren]*trieNode
	isTerminal  bool
	displayName string
}

// Trie is a 26-way prefix tree over canonical place names (lowercase a-z
// plus spaces). spaces are skipped while descending, they are never stored,
// so "gourmet ghetto" and "gourmetghetto" land on the same node.
type Trie struct {
	root *trieNode
}

func NewTrie() *Trie {
	return &Trie{root: &trieNode{}}
}

// Insert stores the display name under the canonical key. inserting the same
// key twice keeps the latest display name. keys without any letter are not
// stored, the root never becomes terminal.
func (t *Trie) Insert(key, displayName string) {
	node := t.root
	for _, r := range key {
		if r < 'a' || r > 'z' {
			continue
		}
		idx := r - 'a'
		if node.children[idx] == nil {
			node.children[idx] = &trieNode{}
		}
		node = node.children[idx]
	}
	if node == t.root {
		return
	}
	node.isTerminal = true
	node.displayName = displayName
}

// PrefixSearch returns the display names of every stored key starting with
// the canonical prefix, sorted and deduplicated. the empty prefix matches
// everything, a prefix that leaves the tree matches nothing.
func (t *Trie) PrefixSearch(prefix string) []string {
	node := t.root
	for _, r := range prefix {
		if r < 'a' || r > 'z' {
			continue
		}
		child := node.children[r-'a']
		if child == nil {
			return []string{}
		}
		node = child
	}

	seen := make(map[string]struct{})
	collect(node, seen)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collect(node *trieNode, seen map[string]struct{}) {
	if node.isTerminal {
		seen[node.displayName] = struct{}{}
	}
	for _, child := range node.children {
		if child != nil {
			collect(child, seen)
		}
	}
}
