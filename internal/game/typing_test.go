package game_test

import (
	"testing"
	"time"

	"github.com/robalobadob/arcade/internal/game"
	"github.com/robalobadob/arcade/internal/game/gametest"
)

func TestTypingCountsCorrectWords(t *testing.T) {
	sched := gametest.New(epoch)
	var got game.Outcome
	ty := game.NewTyping([]string{"golang"}, sched, game.SeededRand(3), func(o game.Outcome) bool {
		got = o
		return true
	})
	ty.Start()

	if ty.Input("gol") {
		t.Error("partial word should not count")
	}
	if !ty.Input("  GoLang ") {
		t.Error("case and surrounding space should be ignored")
	}
	for i := 0; i < 19; i++ {
		ty.Input("golang")
	}

	sched.Advance(10 * time.Second)
	s := ty.Snapshot()
	if s.TimeLeft != 20 {
		t.Errorf("expected 20s left, got %d", s.TimeLeft)
	}
	if s.WPM != 120 {
		t.Errorf("expected live 120 wpm, got %d", s.WPM)
	}

	sched.Advance(20 * time.Second)
	s = ty.Snapshot()
	if s.State != game.RunFinished || s.Result == nil {
		t.Fatalf("expected finished with result, got %+v", s)
	}
	if s.Result.WordsTyped != 20 || s.Result.WPM != 40 {
		t.Errorf("expected 20 words at 40 wpm, got %+v", *s.Result)
	}
	if s.Result.Rating != "Great speed!" || !s.Result.NewBest {
		t.Errorf("unexpected result %+v", *s.Result)
	}
	if got.Kind != game.KindTyping || got.Score.IntPart() != 40 {
		t.Errorf("unexpected outcome %+v", got)
	}
	if ty.Input("golang") {
		t.Error("input after finish should be ignored")
	}
}

func TestTypingEmptyWordList(t *testing.T) {
	ty := game.NewTyping(nil, gametest.New(epoch), nil, nil)
	ty.Start()
	if ty.Input("") {
		t.Error("empty word list should accept nothing")
	}
}
