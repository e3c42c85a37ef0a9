package engine

import (
	"testing"

	"nggo/internal/domain/game"
)

func TestHistoryPopKeepsInitial(t *testing.T) {
	initial := NewPosition(3)
	h := NewHistory(initial)
	if h.Pop() != nil || h.Len() != 1 {
		t.Fatal("initial position popped")
	}

	next := initial.Clone()
	h.Push(next)
	if h.Top() != next || h.Len() != 2 {
		t.Fatal("push did not become the top")
	}
	if h.Pop() != next || h.Top() != initial {
		t.Fatal("pop returned the wrong position")
	}
	if h.At(5) != nil || h.At(-1) != nil {
		t.Fatal("At out of range must be nil")
	}
}

func TestIsRepeating(t *testing.T) {
	empty := NewPosition(3)
	one := empty.Clone()
	one.Stones.Set(0, 0, game.Black)
	two := one.Clone()
	two.Stones.Set(2, 2, game.White)

	h := NewHistory(empty)
	h.Push(one)
	h.Push(two)

	tests := []struct {
		name      string
		candidate *Position
		mode      RepeatMode
		want      bool
	}{
		{"ko previous", one.Clone(), RepeatKo, true},
		{"ko older", empty.Clone(), RepeatKo, false},
		{"all older", empty.Clone(), RepeatAll, true},
		{"all current", two.Clone(), RepeatAll, false},
		{"off", one.Clone(), RepeatOff, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.IsRepeating(tt.candidate, tt.mode); got != tt.want {
				t.Errorf("IsRepeating() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRepeatingSkipsEditPositions(t *testing.T) {
	before := NewPosition(3)
	after := before.Clone()
	after.Stones.Set(1, 1, game.Black)
	edit := after.Clone()
	edit.edit = true

	h := NewHistory(before)
	h.Push(after)
	h.Push(edit)
	if !h.IsRepeating(before.Clone(), RepeatKo) {
		t.Fatal("ko check must look past positions of edit nodes")
	}
	if !h.Clone().Top().edit {
		t.Fatal("history clone lost the edit flag")
	}
}

func TestHistoryCloneKeepsCaptures(t *testing.T) {
	p := NewPosition(3)
	p.Stones.Set(0, 0, game.Black)
	p.CaptureGroup(0, 0)

	h := NewHistory(NewPosition(3))
	h.Push(p)
	c := h.Clone()
	if c.Top().CaptureCount(game.White) != 1 {
		t.Fatal("history clone lost capture counts")
	}
	c.Top().Stones.Set(1, 1, game.Black)
	if p.Stones.Has(1, 1) {
		t.Fatal("history clone shares positions")
	}
}

func TestParseRepeatMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RepeatMode
		wantErr bool
	}{
		{"", RepeatOff, false},
		{"off", RepeatOff, false},
		{"KO", RepeatKo, false},
		{"all", RepeatAll, false},
		{"superko", RepeatOff, true},
	}
	for _, tt := range tests {
		got, err := ParseRepeatMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseRepeatMode(%q) error = %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseRepeatMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
