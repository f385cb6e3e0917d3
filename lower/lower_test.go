package lower

import (
	"testing"

	"github.com/ellisgrant-audio/aldacore/ast"
	"github.com/ellisgrant-audio/aldacore/event"
	"github.com/stretchr/testify/require"
)

func TestLowerRecoversSingleNote(t *testing.T) {
	tl := &event.Timeline{Events: []event.Event{
		{Kind: event.ProgramChange, Time: 0, Channel: 0, Program: 0},
		{Kind: event.NoteOn, Time: 0, Channel: 0, Pitch: 60, Velocity: 100},
		{Kind: event.NoteOff, Time: 0.45, Channel: 0, Pitch: 60},
	}}
	tree := Lower(tl, 16)
	require.Len(t, tree.Root.Children, 2)
	pd := tree.Root.Children[0]
	require.Equal(t, ast.PartDecl, pd.Kind)
	require.Equal(t, "acoustic-grand-piano", pd.Instruments[0])

	seq := tree.Root.Children[1]
	var note *ast.Node
	for _, c := range seq.Children {
		if c.Kind == ast.Note {
			note = c
		}
	}
	require.NotNil(t, note)
	require.Equal(t, byte('c'), note.Letter)
}

func TestLowerGroupsSimultaneousStartsIntoChord(t *testing.T) {
	tl := &event.Timeline{Events: []event.Event{
		{Kind: event.ProgramChange, Time: 0, Channel: 0, Program: 0},
		{Kind: event.NoteOn, Time: 0, Channel: 0, Pitch: 60, Velocity: 100},
		{Kind: event.NoteOn, Time: 0, Channel: 0, Pitch: 64, Velocity: 100},
		{Kind: event.NoteOff, Time: 0.5, Channel: 0, Pitch: 60},
		{Kind: event.NoteOff, Time: 0.5, Channel: 0, Pitch: 64},
	}}
	tree := Lower(tl, 16)
	seq := tree.Root.Children[1]
	var chord *ast.Node
	for _, c := range seq.Children {
		if c.Kind == ast.Chord {
			chord = c
		}
	}
	require.NotNil(t, chord)
	require.Len(t, chord.Children, 2)
}

func TestLowerInsertsRestForGap(t *testing.T) {
	tl := &event.Timeline{Events: []event.Event{
		{Kind: event.ProgramChange, Time: 0, Channel: 0, Program: 0},
		{Kind: event.NoteOn, Time: 0, Channel: 0, Pitch: 60, Velocity: 100},
		{Kind: event.NoteOff, Time: 0.25, Channel: 0, Pitch: 60},
		{Kind: event.NoteOn, Time: 2.0, Channel: 0, Pitch: 62, Velocity: 100},
		{Kind: event.NoteOff, Time: 2.25, Channel: 0, Pitch: 62},
	}}
	tree := Lower(tl, 16)
	seq := tree.Root.Children[1]
	var sawRest bool
	for _, c := range seq.Children {
		if c.Kind == ast.Rest {
			sawRest = true
		}
	}
	require.True(t, sawRest)
}

func TestLowerUsesPercussionKitOnChannel10(t *testing.T) {
	tl := &event.Timeline{Events: []event.Event{
		{Kind: event.NoteOn, Time: 0, Channel: 9, Pitch: 36, Velocity: 100},
		{Kind: event.NoteOff, Time: 0.25, Channel: 9, Pitch: 36},
	}}
	tree := Lower(tl, 16)
	require.Equal(t, "standard-kit", tree.Root.Children[0].Instruments[0])
}
