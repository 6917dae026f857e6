package game

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryFirstJoinGoesToTeam1(t *testing.T) {
	r := NewRegistry()

	p := r.AddPlayer("a")
	assert.Equal(t, Team1, p.Team)
	assert.Equal(t, PaddleStart, p.PaddleY)

	q := r.AddPlayer("b")
	assert.Equal(t, Team2, q.Team)
}

func TestRegistryBalanceHoldsForEveryJoinSequence(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 20; round++ {
		r := NewRegistry()
		for i := 0; i < 25; i++ {
			id := fmt.Sprintf("p%d", i)
			if rng.IntN(2) == 0 {
				r.AddBot(id)
			} else {
				r.AddPlayer(id)
			}
			a, b := r.TeamSizes()
			require.LessOrEqual(t, abs(a-b), 1, "round %d join %d: %d vs %d", round, i, a, b)
			require.Equal(t, r.Len(), a+b)
		}
	}
}

func TestRegistryRejoinReturnsExistingSeat(t *testing.T) {
	r := NewRegistry()
	first := r.AddPlayer("a")
	again := r.AddPlayer("a")

	assert.Same(t, first, again)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.AddPlayer("a")
	r.AddPlayer("b")
	r.AddPlayer("c")

	removed := r.Remove("b")
	require.NotNil(t, removed)
	assert.Equal(t, Team2, removed.Team)

	a, b := r.TeamSizes()
	assert.Equal(t, 2, a)
	assert.Equal(t, 0, b)
	assert.Nil(t, r.Remove("b"), "second remove is a no-op")
	assert.Nil(t, r.Remove("nobody"))

	// The next join fills the emptier side.
	assert.Equal(t, Team2, r.AddPlayer("d").Team)
}

func TestRegistryPaddleAlwaysClamped(t *testing.T) {
	r := NewRegistry()
	r.AddPlayer("a")

	for _, delta := range []float64{-1000, 37.5, 12, 99, -0.5, 1e9, -1e9} {
		y, ok := r.MovePaddle("a", delta)
		require.True(t, ok)
		assert.GreaterOrEqual(t, y, PaddleMin)
		assert.LessOrEqual(t, y, PaddleMax)
	}

	y, _ := r.SetPaddle("a", 250)
	assert.Equal(t, PaddleMax, y)
	y, _ = r.SetPaddle("a", -3)
	assert.Equal(t, PaddleMin, y)

	_, ok := r.MovePaddle("ghost", 5)
	assert.False(t, ok)
}

func TestRegistryBotsNamedAfterCounter(t *testing.T) {
	r := NewRegistry()
	b1 := r.AddBot("x")
	b2 := r.AddBot("y")

	assert.Equal(t, "Bot 1", b1.Name)
	assert.Equal(t, "Bot 2", b2.Name)
	assert.True(t, b1.IsBot)
	assert.Equal(t, 2, r.BotCount())
}

func TestRegistryPopBotIsStackOrder(t *testing.T) {
	r := NewRegistry()
	r.AddPlayer("human")
	r.AddBot("b1")
	r.AddBot("b2")
	r.AddBot("b3")

	assert.Equal(t, "b3", r.PopBot().ID)
	assert.Equal(t, "b2", r.PopBot().ID)
	assert.Equal(t, 1, r.BotCount())

	// The counter was decremented, so the next bot reuses the name.
	assert.Equal(t, "Bot 2", r.AddBot("b4").Name)

	assert.Equal(t, "b4", r.PopBot().ID)
	assert.Equal(t, "b1", r.PopBot().ID)
	assert.Nil(t, r.PopBot())
	assert.Equal(t, 1, r.Len(), "humans are never popped")
}

func TestRegistryRemoveAllBotsResetsCounter(t *testing.T) {
	r := NewRegistry()
	r.AddPlayer("human")
	r.AddBot("b1")
	r.AddBot("b2")

	removed := r.RemoveAllBots()
	assert.Len(t, removed, 2)
	assert.Equal(t, 0, r.BotCount())
	assert.Empty(t, r.Bots())
	assert.Equal(t, 1, r.Len())

	assert.Equal(t, "Bot 1", r.AddBot("b3").Name)
}

func TestRegistryFindByName(t *testing.T) {
	r := NewRegistry()
	r.AddPlayer("a").Name = "Ann"
	r.AddBot("b")

	assert.Equal(t, "a", r.FindByName("Ann").ID)
	assert.Equal(t, "b", r.FindByName("Bot 1").ID)
	assert.Nil(t, r.FindByName("Zed"))
}

func TestRegistryClearKeepsScores(t *testing.T) {
	r := NewRegistry()
	r.AddPlayer("a")
	r.AddBot("b")
	r.Team(Team1).Score = 3

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.BotCount())
	assert.Equal(t, 3, r.Team(Team1).Score)

	r.ResetScores()
	assert.Equal(t, 0, r.Team(Team1).Score)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestIsBotName(t *testing.T) {
	tests := map[string]bool{
		"Bot 1":   true,
		"Bot 42":  true,
		"Bot":     false,
		"Bot one": false,
		"bot 1":   false,
		"Bot 1x":  false,
		"Robot 1": false,
	}
	for name, want := range tests {
		if got := isBotName(name); got != want {
			t.Errorf("isBotName(%q) = %v, want %v", name, got, want)
		}
	}
}
