package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/meigma/pak"
)

const padLabel = "|<pad>|"

// node is a directory level of the listing. Children keep the order in
// which they first appear in the archive.
type node struct {
	label    string
	children []*node
	dirs     map[string]*node
	leaf     bool
}

func newNode(label string) *node {
	return &node{label: label, dirs: make(map[string]*node)}
}

func (n *node) dir(name string) *node {
	if d, ok := n.dirs[name]; ok {
		return d
	}
	d := newNode(name)
	n.dirs[name] = d
	n.children = append(n.children, d)
	return d
}

func (n *node) file(label string) {
	n.children = append(n.children, &node{label: label, leaf: true})
}

// renderTree draws the entries of a as a directory tree under root.
// Name components are split on "/", so nested archives show up as
// "outer.pak>" directories.
func renderTree(root string, a *pak.Archive) string {
	top := newNode(root)
	for e := range a.All() {
		if e.IsPad() {
			top.file(padLabel)
			continue
		}
		parts := strings.Split(e.Name(), "/")
		branch := top
		for _, part := range parts[:len(parts)-1] {
			branch = branch.dir(part)
		}
		branch.file(parts[len(parts)-1])
	}
	return top.tree().String()
}

func (n *node) tree() *tree.Tree {
	t := tree.Root(n.label)
	for _, c := range n.children {
		if c.leaf {
			t.Child(c.label)
		} else {
			t.Child(c.tree())
		}
	}
	return t
}
