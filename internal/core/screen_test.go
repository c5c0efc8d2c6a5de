package core

import (
	"strings"
	"testing"
)

// rowText returns the runes of row y.
func rowText(s *Screen, y int) string {
	var sb strings.Builder
	for x := 0; x < s.Width(); x++ {
		sb.WriteRune(s.GetCell(x, y).Rune)
	}
	return sb.String()
}

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", c.Rune, x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, 'X', ColorCyan)
	cell := s.GetCell(5, 5)
	if cell.Rune != 'X' || cell.Color != ColorCyan {
		t.Errorf("GetCell(5, 5) = %+v, expected X/cyan", cell)
	}

	s.SetColored(-1, 0, 'A', ColorRed)
	s.SetColored(100, 0, 'A', ColorRed)
	s.SetColored(0, -1, 'A', ColorRed)
	s.SetColored(0, 100, 'A', ColorRed)

	if c := s.GetCell(-1, 0); c != blankCell {
		t.Errorf("Out of bounds GetCell = %+v, expected blank", c)
	}
	if rowText(s, 0) != strings.Repeat(" ", 10) {
		t.Errorf("Out of bounds writes leaked into row 0: %q", rowText(s, 0))
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(10, 10)
	s.FillRect(0, 0, 10, 10, 'X', ColorRed)
	s.Clear()

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c := s.GetCell(x, y); c != blankCell {
				t.Fatalf("After Clear, expected blank at (%d, %d), got %+v", x, y, c)
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColored(2, 1, "Hello", ColorYellow)

	for i, ch := range "Hello" {
		if c := s.GetCell(2+i, 1); c.Rune != ch || c.Color != ColorYellow {
			t.Errorf("DrawTextColored: expected %q at (%d, 1), got %+v", ch, 2+i, c)
		}
	}

	s.DrawTextColored(18, 0, "Hello", ColorDefault)
	if !strings.HasSuffix(rowText(s, 0), "He") {
		t.Errorf("Text should be clipped at right boundary, row 0 = %q", rowText(s, 0))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCenteredColored(2, "Hi", ColorGreen)

	if row := rowText(s, 2); row != strings.Repeat(" ", 9)+"Hi"+strings.Repeat(" ", 9) {
		t.Errorf("row 2 = %q, expected Hi centered", row)
	}
}

func TestScreenFillRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.FillRect(2, 2, 3, 3, '#', ColorGreen)

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if c := s.GetCell(x, y); c.Rune != '#' {
				t.Errorf("FillRect: expected '#' at (%d, %d), got %q", x, y, c.Rune)
			}
		}
	}
	if s.GetCell(1, 1).Rune != ' ' || s.GetCell(5, 5).Rune != ' ' {
		t.Error("FillRect should not affect outside area")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(1, 1, 5, 4, ColorDefault)

	rows := []struct {
		y    int
		want string
	}{
		{1, " ┌───┐    "},
		{2, " │   │    "},
		{3, " │   │    "},
		{4, " └───┘    "},
	}
	for _, r := range rows {
		if got := rowText(s, r.y); got != r.want {
			t.Errorf("row %d = %q, expected %q", r.y, got, r.want)
		}
	}
}

func TestScreenDrawHLine(t *testing.T) {
	s := NewScreen(8, 2)
	s.DrawHLine(5, 1, 6, '=', ColorBlue)

	if got := rowText(s, 1); got != "     ===" {
		t.Errorf("row 1 = %q, expected the line clipped at the edge", got)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColored(0, 0, "Hello", ColorDefault)

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("After resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}
	if !strings.HasPrefix(rowText(s, 0), "Hello") {
		t.Errorf("Content should be preserved, row 0 = %q", rowText(s, 0))
	}

	s.Resize(15, 8)
	if !strings.HasPrefix(rowText(s, 0), "Hello") {
		t.Errorf("Content should be preserved after enlarging, row 0 = %q", rowText(s, 0))
	}
	if len([]rune(rowText(s, 7))) != 15 {
		t.Errorf("new row has %d cells, expected 15", len([]rune(rowText(s, 7))))
	}
}
