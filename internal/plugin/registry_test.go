package plugin

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/gui"
)

func newTestRegistry() (*Registry, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewRegistry(console.New(console.Options{Out: out})), out
}

func TestRegistryCountMatchesAddItem(t *testing.T) {
	reg, _ := newTestRegistry()

	for n := 0; n < 5; n++ {
		reg.AddItem(1, gui.NewListItem(nil, fmt.Sprintf("item %d", n), "", ""), "plugin://x/", n%2 == 0)
	}
	reg.AddItems(1, []Entry{{URL: "a"}, {URL: "b"}})

	l := reg.Close(1, true, false, true)
	if l == nil {
		t.Fatal("Close должен вернуть закрытый каталог")
	}
	if l.Count() != 7 {
		t.Errorf("Ожидалось 7 элементов, получено: %d", l.Count())
	}
	if reg.Open(1) {
		t.Error("После Close дескриптор должен быть удален")
	}
}

func TestRegistryCloseIsIdempotent(t *testing.T) {
	reg, out := newTestRegistry()

	if reg.Close(42, true, false, true) != nil {
		t.Error("Закрытие неизвестного дескриптора должно возвращать nil")
	}
	if out.Len() != 0 {
		t.Errorf("Закрытие неизвестного дескриптора не должно печатать, получено: %s", out.String())
	}

	reg.AddItem(3, nil, "u", false)
	reg.Close(3, true, false, true)
	if reg.Close(3, true, false, true) != nil {
		t.Error("Повторное закрытие должно возвращать nil")
	}
}

func TestRegistryGetCreates(t *testing.T) {
	reg, _ := newTestRegistry()

	l := reg.Get(7)
	if l.Content != DefaultContent || l.Count() != 0 {
		t.Errorf("Новый дескриптор должен быть пустым: %+v", l)
	}
	if !reg.Open(7) {
		t.Error("Get должен создавать дескриптор")
	}

	l.Entries = append(l.Entries, Entry{URL: "x"})
	if reg.Get(7).Count() != 0 {
		t.Error("Get должен возвращать копию")
	}
}

func TestAddSortMethod(t *testing.T) {
	reg, out := newTestRegistry()

	for _, m := range []int{SortMethodTitle, SortMethodLabel, SortMethodTitle, 12} {
		reg.AddSortMethod(1, m)
	}

	got := reg.Get(1).SortMethods
	if len(got) != 3 || got[0] != SortMethodTitle || got[1] != SortMethodLabel || got[2] != 12 {
		t.Errorf("Ожидались методы [9 1 12] в порядке добавления, получено: %v", got)
	}
	if !strings.Contains(out.String(), "Unknown sort method: 12") {
		t.Errorf("Неизвестный метод должен сопровождаться предупреждением: %s", out.String())
	}

	reg.Close(1, true, false, true)
	if !strings.Contains(out.String(), "Added sortmethod: 12 - <unknown>") {
		t.Errorf("Неизвестный метод должен печататься как <unknown>: %s", out.String())
	}
}

func TestPrintFormat(t *testing.T) {
	reg, out := newTestRegistry()

	reg.AddItem(0, gui.NewListItem(nil, "[COLOR gold]Папка[/COLOR]", "", ""), "plugin://id/folder", true)
	reg.AddItem(0, gui.NewListItem(nil, "Видео", "", ""), "plugin://id/play", false)
	reg.SetContent(0, "videos")
	reg.AddSortMethod(0, SortMethodLabel)
	reg.AddSortMethod(0, SortMethodDate)
	reg.Close(0, true, false, true)

	text := out.String()
	wants := []string{
		"= Listing for handle 0 =",
		"*F: Папка [plugin://id/folder]",
		"*V: Видео [plugin://id/play]",
		"> Added sortmethod: 01 - SORT_METHOD_LABEL",
		"> Added sortmethod: 03 - SORT_METHOD_DATE",
		"End of Folder (items=2,success=true,content=videos,sort=1+3,cache=true,update=false) =",
	}
	for _, want := range wants {
		if !strings.Contains(text, want) {
			t.Errorf("Вывод должен содержать %q:\n%s", want, text)
		}
	}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.HasPrefix(line, "=") && len([]rune(line)) != console.HeadingWidth {
			t.Errorf("Заголовок должен иметь ширину %d: %q", console.HeadingWidth, line)
		}
	}
}

func TestSummaryDefaults(t *testing.T) {
	got := Summary(&Listing{Content: DefaultContent})
	want := "End of Folder (items=0,success=false,content=not-set,sort=,cache=false,update=false)"
	if got != want {
		t.Errorf("Summary = %q, ожидалось %q", got, want)
	}
}

func TestOnCloseHook(t *testing.T) {
	reg, _ := newTestRegistry()

	var closed []*Listing
	calls := 0
	reg.OnClose(func(l *Listing) { closed = append(closed, l) })
	reg.OnClose(func(*Listing) { calls++ })
	reg.AddItem(5, nil, "u", false)
	reg.Close(5, false, true, false)

	if len(closed) != 1 || closed[0].Handle != 5 || !closed[0].UpdateListing {
		t.Errorf("Получатель должен получить закрытый каталог: %+v", closed)
	}
	if calls != 1 {
		t.Errorf("Каждый получатель должен быть вызван один раз, получено: %d", calls)
	}
	if reg.Close(5, true, false, false) != nil || len(closed) != 1 {
		t.Error("Повторное закрытие не должно вызывать получателей")
	}
}

func TestHeadingsAreYellow(t *testing.T) {
	out := &bytes.Buffer{}
	reg := NewRegistry(console.New(console.Options{Out: out, ForceColor: true}))
	reg.Get(3)
	reg.Close(3, true, false, true)

	want := console.New(console.Options{Out: &bytes.Buffer{}, ForceColor: true}).
		Colorize(console.FormatHeading("Listing for handle 3", false), console.Yellow)
	if !strings.Contains(out.String(), want) {
		t.Errorf("Заголовок каталога должен быть желтым: %q", out.String())
	}
}

func TestRegistryConcurrentAdd(t *testing.T) {
	reg, _ := newTestRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.AddItem(9, nil, "u", false)
		}()
	}
	wg.Wait()

	if n := reg.Get(9).Count(); n != 50 {
		t.Errorf("Ожидалось 50 элементов, получено: %d", n)
	}
}

func TestSortMethodTable(t *testing.T) {
	ids := SortMethodIDs()
	if len(ids) != 43 {
		t.Errorf("Ожидалось 43 метода сортировки, получено: %d", len(ids))
	}
	for _, missing := range []int{12, 42} {
		if _, ok := SortMethodName(missing); ok {
			t.Errorf("Метода %d не существует", missing)
		}
	}
	if SortMethods()["SORT_METHOD_DATE_TAKEN"] != 44 {
		t.Error("SORT_METHOD_DATE_TAKEN должен иметь идентификатор 44")
	}
}
