package ast

import (
	"testing"

	"github.com/ellisgrant-audio/aldacore/token"
)

func TestContainsAbsentSpecifierMeansAllReps(t *testing.T) {
	if !Contains(nil, 1) || !Contains(nil, 99) {
		t.Fatalf("absent specifier should select every repetition")
	}
}

func TestContainsRangesAndSingletons(t *testing.T) {
	ranges := []RepRange{{Lo: 1, Hi: 2}, {Lo: 4, Hi: 4}}
	for _, n := range []int{1, 2, 4} {
		if !Contains(ranges, n) {
			t.Fatalf("expected rep %d to be selected", n)
		}
	}
	for _, n := range []int{3, 5} {
		if Contains(ranges, n) {
			t.Fatalf("did not expect rep %d to be selected", n)
		}
	}
}

func TestWalkVisitsChildrenInOrder(t *testing.T) {
	root := NewRoot(token.Position{Line: 1, Col: 1})
	a := &Node{Kind: Note, Letter: 'a'}
	b := &Node{Kind: Note, Letter: 'b'}
	root.Children = []*Node{a, b}

	var visited []byte
	Walk(root, func(n *Node) {
		if n.Kind == Note {
			visited = append(visited, n.Letter)
		}
	})
	if string(visited) != "ab" {
		t.Fatalf("expected ab, got %s", visited)
	}
}

func TestWalkVisitsDurationChild(t *testing.T) {
	dur := &Node{Kind: Duration}
	note := &Node{Kind: Note, Letter: 'c', Dur: dur}
	var sawDuration bool
	Walk(note, func(n *Node) {
		if n.Kind == Duration {
			sawDuration = true
		}
	})
	if !sawDuration {
		t.Fatalf("expected Walk to descend into Dur")
	}
}
