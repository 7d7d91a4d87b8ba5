// Package checksum is the Checksum System (spec.md §4.8): a canonical,
// ascending-id walk of the world that folds every hashed field into a
// 32-bit digest and, on request, the same data assembled into a three-level
// Merkle tree for desync localization.
package checksum

import (
	"sort"

	"github.com/voidmarch/simcore/core"
	"github.com/voidmarch/simcore/worldstate"
)

// fold is the boost-style combiner named by spec.md §4.8: "h ^= v +
// 0x9e3779b9 + (h << 6) + (h >> 2)". 0x9e3779b9 is the 32-bit golden-ratio
// constant; its purpose here is only to decorrelate adjacent fields, not
// cryptographic strength.
func fold(h, v uint32) uint32 {
	return h ^ (v + 0x9e3779b9 + (h << 6) + (h >> 2))
}

func foldAll(seed uint32, values ...uint32) uint32 {
	h := seed
	for _, v := range values {
		h = fold(h, v)
	}
	return h
}

// Category is one of the four canonical Merkle categories.
type Category string

const (
	CategoryUnits        Category = "units"
	CategoryBuildings    Category = "buildings"
	CategoryResources    Category = "resources"
	CategoryProjectiles  Category = "projectiles"
)

// categoryOrder fixes the iteration order used to fold categories into the
// root hash — map iteration order is forbidden anywhere on the hash path.
var categoryOrder = []Category{CategoryUnits, CategoryBuildings, CategoryResources, CategoryProjectiles}

// Leaf is one entity's hash, the tree's finest granularity.
type Leaf struct {
	Entity core.Entity
	Hash   uint32
}

// Group is every entity in a category owned by one player, sorted by id.
type Group struct {
	Label  string // stringified owning player id, sorted ascending
	Hash   uint32
	Leaves []Leaf
}

// CategoryNode folds every group's hash, sorted by label, into one hash.
type CategoryNode struct {
	Category Category
	Hash     uint32
	Groups   []Group
}

// Tree is the full three-level Merkle tree: root -> category -> group ->
// leaf (spec.md §4.8). Root is the fold of every CategoryNode's hash in
// categoryOrder.
type Tree struct {
	Root       uint32
	Categories []CategoryNode
}

// Compact strips entity leaves, transmitting only root/category/group
// hashes (spec.md §4.8 "network-compact form").
type Compact struct {
	Root       uint32
	Categories map[Category]uint32
	Groups     map[Category]map[string]uint32
}

func (t Tree) Compact() Compact {
	c := Compact{
		Root:       t.Root,
		Categories: make(map[Category]uint32, len(t.Categories)),
		Groups:     make(map[Category]map[string]uint32, len(t.Categories)),
	}
	for _, cat := range t.Categories {
		c.Categories[cat.Category] = cat.Hash
		groups := make(map[string]uint32, len(cat.Groups))
		for _, g := range cat.Groups {
			groups[g.Label] = g.Hash
		}
		c.Groups[cat.Category] = groups
	}
	return c
}

// Walk performs the canonical entity walk and builds the full tree.
func Walk(w *worldstate.World) Tree {
	byCategory := map[Category][]Leaf{
		CategoryUnits:       unitLeaves(w),
		CategoryBuildings:   buildingLeaves(w),
		CategoryResources:   resourceLeaves(w),
		CategoryProjectiles: projectileLeaves(w),
	}
	labelByCategory := map[Category]func(core.Entity) string{
		CategoryUnits:       unitOwnerLabel(w),
		CategoryBuildings:   buildingOwnerLabel(w),
		CategoryResources:   func(core.Entity) string { return "0" },
		CategoryProjectiles: projectileOwnerLabel(w),
	}

	tree := Tree{}
	for _, cat := range categoryOrder {
		leaves := byCategory[cat]
		node := buildCategory(cat, leaves, labelByCategory[cat])
		tree.Categories = append(tree.Categories, node)
	}

	rootHashes := make([]uint32, len(tree.Categories))
	for i, cat := range tree.Categories {
		rootHashes[i] = cat.Hash
	}
	tree.Root = foldAll(0, rootHashes...)
	return tree
}

// Root computes just the scalar root hash, the value exchanged every
// checksumInterval ticks (spec.md §6 "checksum — { tick, checksum, ... }").
func Root(w *worldstate.World) uint32 {
	return Walk(w).Root
}

func buildCategory(cat Category, leaves []Leaf, labelOf func(core.Entity) string) CategoryNode {
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].Entity < leaves[j].Entity })

	byLabel := make(map[string][]Leaf)
	for _, l := range leaves {
		label := labelOf(l.Entity)
		byLabel[label] = append(byLabel[label], l)
	}
	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	node := CategoryNode{Category: cat}
	groupHashes := make([]uint32, 0, len(labels))
	for _, label := range labels {
		groupLeaves := byLabel[label]
		hashes := make([]uint32, len(groupLeaves))
		for i, l := range groupLeaves {
			hashes[i] = l.Hash
		}
		groupHash := foldAll(0, hashes...)
		node.Groups = append(node.Groups, Group{Label: label, Hash: groupHash, Leaves: groupLeaves})
		groupHashes = append(groupHashes, groupHash)
	}
	node.Hash = foldAll(0, groupHashes...)
	return node
}
