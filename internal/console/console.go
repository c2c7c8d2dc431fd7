// Package console содержит вывод эмулятора для пользователя: цветные строки, заголовки и ввод
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// HeadingWidth ширина строки заголовка
const HeadingWidth = 120

// Color задает цвет строки
type Color int

// Доступные цвета
const (
	NoColor Color = iota
	Yellow
	Red
	Blue
	White
	LightBlue
	DarkGrey
	Green
)

var colorCodes = map[Color]lipgloss.Color{
	Yellow:    lipgloss.Color("11"),
	Red:       lipgloss.Color("1"),
	Blue:      lipgloss.Color("4"),
	White:     lipgloss.Color("7"),
	LightBlue: lipgloss.Color("12"),
	DarkGrey:  lipgloss.Color("8"),
	Green:     lipgloss.Color("2"),
}

// Имена цветов в разметке Kodi
var kodiColors = map[string]Color{
	"gold":    Yellow,
	"dimgray": DarkGrey,
	"aqua":    LightBlue,
	"red":     Red,
}

var (
	colorTagRe   = regexp.MustCompile(`(?s)\[COLOR (\w+)\](.*?)\[/COLOR\]`)
	strayColorRe = regexp.MustCompile(`\[/?COLOR[^\]]*\]`)
	boldTagRe    = regexp.MustCompile(`(?s)\[B\](.*?)\[/B\]`)
	italicTagRe  = regexp.MustCompile(`(?s)\[I\](.*?)\[/I\]`)
)

// Options настройки консоли
type Options struct {
	Out         io.Writer
	In          io.Reader
	Verbose     bool
	Interactive bool
	// ForceColor включает ANSI цвета, даже если Out не терминал
	ForceColor bool
}

// Console печатает строки и читает ввод пользователя
type Console struct {
	mu          sync.Mutex
	out         io.Writer
	in          *bufio.Reader
	renderer    *lipgloss.Renderer
	verbose     bool
	interactive bool
}

// New создает консоль. Пустые Out и In заменяются на stdout и stdin
func New(opts Options) *Console {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}

	renderer := lipgloss.NewRenderer(out)
	if opts.ForceColor {
		renderer.SetColorProfile(termenv.ANSI)
	}

	return &Console{
		out:         out,
		in:          bufio.NewReader(in),
		renderer:    renderer,
		verbose:     opts.Verbose,
		interactive: opts.Interactive,
	}
}

// Verbose сообщает, включен ли подробный вывод
func (c *Console) Verbose() bool { return c.verbose }

// Interactive сообщает, читается ли ввод с клавиатуры
func (c *Console) Interactive() bool { return c.interactive }

// Writer возвращает writer, в который пишет консоль
func (c *Console) Writer() io.Writer { return c.out }

// Line печатает строку. Подробные строки печатаются только в режиме verbose
func (c *Console) Line(line string, color Color, verbose bool) {
	if verbose && !c.verbose {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.paint(line, color))
}

// Println печатает строку без цвета
func (c *Console) Println(line string) {
	c.Line(line, NoColor, false)
}

// Printf печатает форматированную строку без цвета
func (c *Console) Printf(format string, args ...any) {
	c.Line(fmt.Sprintf(format, args...), NoColor, false)
}

// Heading печатает заголовок, выровненный по ширине HeadingWidth
func (c *Console) Heading(text string, alignRight bool, color Color) {
	c.Line(FormatHeading(text, alignRight), color, false)
}

// FormatHeading выравнивает текст заголовка знаками "="
func FormatHeading(text string, alignRight bool) string {
	if text == "" {
		return strings.Repeat("=", HeadingWidth)
	}

	fill := strings.Repeat("=", max(0, HeadingWidth-3-utf8.RuneCountInString(text)))
	if alignRight {
		return fmt.Sprintf("%s %s =", fill, text)
	}
	return fmt.Sprintf("= %s %s", text, fill)
}

// ReplaceColors заменяет разметку Kodi ([COLOR], [B], [I], [CR]) на стили терминала
func (c *Console) ReplaceColors(text string) string {
	text = colorTagRe.ReplaceAllStringFunc(text, func(m string) string {
		groups := colorTagRe.FindStringSubmatch(m)
		color, ok := kodiColors[strings.ToLower(groups[1])]
		if !ok {
			return groups[2]
		}
		return c.paint(groups[2], color)
	})
	text = strayColorRe.ReplaceAllString(text, "")

	text = boldTagRe.ReplaceAllStringFunc(text, func(m string) string {
		return c.renderer.NewStyle().Bold(true).Render(boldTagRe.FindStringSubmatch(m)[1])
	})
	text = italicTagRe.ReplaceAllStringFunc(text, func(m string) string {
		return c.renderer.NewStyle().Italic(true).Render(italicTagRe.FindStringSubmatch(m)[1])
	})

	return strings.ReplaceAll(text, "[CR]", "\n")
}

// ReadInput печатает вопрос и читает строку ввода.
// При конце ввода без данных возвращает io.EOF
func (c *Console) ReadInput(prompt string, color Color) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprint(c.out, c.paint(prompt+" ", color))

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Colorize окрашивает текст для вставки в строку
func (c *Console) Colorize(text string, color Color) string {
	return c.paint(text, color)
}

// paint окрашивает каждую строку текста отдельно, чтобы lipgloss не выравнивал их по ширине
func (c *Console) paint(text string, color Color) string {
	code, ok := colorCodes[color]
	if !ok {
		return text
	}

	style := c.renderer.NewStyle().Foreground(code)
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = style.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
