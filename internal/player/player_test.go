package player

import (
	"testing"

	"github.com/sonpython/loot-server/internal/game"
)

func TestNewTokenFormat(t *testing.T) {
	tok, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	if !ValidTokenFormat(tok) {
		t.Errorf("minted token %q fails its own format check", tok)
	}
}

func TestNewTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewToken()
		if err != nil {
			t.Fatalf("NewToken: %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token minted: %s", tok)
		}
		seen[tok] = true
	}
}

func TestValidTokenFormat(t *testing.T) {
	cases := map[string]bool{
		"":                                 false,
		"short":                            false,
		"0123456789abcdef0123456789abcdeF": false, // uppercase rejected
		"0123456789abcdef0123456789abcde":  false, // 31 chars
		"0123456789abcdef0123456789abcdef": true,
	}
	for in, want := range cases {
		if got := ValidTokenFormat(in); got != want {
			t.Errorf("ValidTokenFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCommandResolve(t *testing.T) {
	cases := []struct {
		cmd        Command
		wantDir    game.Direction
		wantVx     float64
		wantVy     float64
	}{
		{CommandLeft, game.West, -3, 0},
		{CommandRight, game.East, 3, 0},
		{CommandUp, game.North, 0, -3},
		{CommandDown, game.South, 0, 3},
		{CommandStop, "", 0, 0},
	}
	for _, c := range cases {
		dir, vx, vy, err := c.cmd.Resolve(3)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", c.cmd, err)
		}
		if dir != c.wantDir || vx != c.wantVx || vy != c.wantVy {
			t.Errorf("Resolve(%q) = (%v,%v,%v), want (%v,%v,%v)", c.cmd, dir, vx, vy, c.wantDir, c.wantVx, c.wantVy)
		}
	}
}

func TestCommandResolveInvalid(t *testing.T) {
	if _, _, _, err := Command("X").Resolve(3); err == nil {
		t.Error("expected error for unknown command")
	}
}
