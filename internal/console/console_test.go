package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func newTestConsole(input string, verbose bool) (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	c := New(Options{
		Out:     &out,
		In:      strings.NewReader(input),
		Verbose: verbose,
	})
	return c, &out
}

func TestFormatHeading(t *testing.T) {
	left := FormatHeading("Listing for handle 1", false)
	if len(left) != HeadingWidth {
		t.Errorf("Ожидалась ширина %d, получено: %d", HeadingWidth, len(left))
	}
	if !strings.HasPrefix(left, "= Listing for handle 1 =") {
		t.Errorf("Неверный заголовок: %s", left)
	}

	right := FormatHeading("End", true)
	if !strings.HasSuffix(right, " End =") || len(right) != HeadingWidth {
		t.Errorf("Неверный заголовок по правому краю: %s", right)
	}

	if FormatHeading("", false) != strings.Repeat("=", HeadingWidth) {
		t.Error("Пустой заголовок должен состоять из знаков =")
	}

	long := strings.Repeat("x", 200)
	if got := FormatHeading(long, false); got != "= "+long+" " {
		t.Errorf("Длинный заголовок не должен дополняться: %q", got)
	}
}

func TestVerboseLines(t *testing.T) {
	c, out := newTestConsole("", false)
	c.Line("подробно", NoColor, true)
	c.Line("обычно", NoColor, false)

	if strings.Contains(out.String(), "подробно") {
		t.Error("Подробная строка не должна печататься без verbose")
	}
	if !strings.Contains(out.String(), "обычно") {
		t.Error("Обычная строка должна печататься")
	}

	vc, vout := newTestConsole("", true)
	vc.Line("подробно", Blue, true)
	if !strings.Contains(vout.String(), "подробно") {
		t.Error("Подробная строка должна печататься в режиме verbose")
	}
}

func TestReplaceColors(t *testing.T) {
	c, _ := newTestConsole("", false)

	got := c.ReplaceColors("[COLOR gold]Новое[/COLOR] видео[CR][B]жирный[/B] [COLOR pink]x[/COLOR]")
	for _, want := range []string{"Новое", "видео\n", "жирный", "x"} {
		if !strings.Contains(got, want) {
			t.Errorf("Ожидалось %q в %q", want, got)
		}
	}
	if strings.Contains(got, "[COLOR") || strings.Contains(got, "[/COLOR]") || strings.Contains(got, "[B]") {
		t.Errorf("Теги разметки должны быть удалены: %q", got)
	}
}

func TestReadInput(t *testing.T) {
	c, out := newTestConsole("первый\nвторой", false)

	line, err := c.ReadInput("Вопрос?", Yellow)
	if err != nil || line != "первый" {
		t.Errorf("Ожидалось 'первый', получено: %q (%v)", line, err)
	}
	if !strings.Contains(out.String(), "Вопрос?") {
		t.Error("Вопрос должен быть напечатан")
	}

	line, err = c.ReadInput("", NoColor)
	if err != nil || line != "второй" {
		t.Errorf("Ожидалось 'второй', получено: %q (%v)", line, err)
	}

	_, err = c.ReadInput("", NoColor)
	if !errors.Is(err, io.EOF) {
		t.Errorf("Ожидался io.EOF, получено: %v", err)
	}
}
