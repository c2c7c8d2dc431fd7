package gui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/keyboard"
)

func newTestConsole(input string, interactive, verbose bool) (*console.Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	con := console.New(console.Options{
		Out:         out,
		In:          strings.NewReader(input),
		Interactive: interactive,
		Verbose:     verbose,
	})
	return con, out
}

func TestListItemProperties(t *testing.T) {
	con, out := newTestConsole("", false, true)
	item := NewListItem(con, "Фильм", "2020", "/tmp/film.mkv")

	item.SetProperty("IsPlayable", "true")
	if got := item.GetProperty("isplayable"); got != "true" {
		t.Errorf("Ключ свойства должен быть нечувствителен к регистру, получено: %q", got)
	}
	if item.GetProperty("missing") != "" {
		t.Error("Отсутствующее свойство должно быть пустым")
	}

	item.SetInfo(InfoVideo, map[string]any{"title": "Фильм", "year": 2020})
	if item.InfoType() != InfoVideo {
		t.Errorf("Ожидался тип video, получено: %s", item.InfoType())
	}
	if v, ok := item.Info("year"); !ok || v != 2020 {
		t.Errorf("Неверное значение year: %v", v)
	}

	item.SetLabel("Новый")
	if v, _ := item.Info("*label1"); v != "Новый" {
		t.Errorf("SetLabel должен обновлять *label1, получено: %v", v)
	}

	if !strings.Contains(out.String(), "Adding property: IsPlayable: true") {
		t.Errorf("Ожидалась подробная строка о свойстве, получено: %s", out.String())
	}
}

func TestListItemString(t *testing.T) {
	quiet := NewListItem(nil, "Метка", "", "")
	if quiet.String() != "Метка" {
		t.Errorf("Без verbose String должен возвращать метку, получено: %s", quiet.String())
	}

	con, _ := newTestConsole("", false, true)
	loud := NewListItem(con, "Метка", "", "")
	loud.SetProperty("b", "2")
	loud.SetProperty("a", "1")

	dump := loud.String()
	for _, want := range []string{"Метка []", "InfoLabels", "Properties", "    - a: 1\n    - b: 2"} {
		if !strings.Contains(dump, want) {
			t.Errorf("Описание должно содержать %q:\n%s", want, dump)
		}
	}
}

func TestDialogSelectFromQueue(t *testing.T) {
	con, out := newTestConsole("", false, false)
	d := NewDialog(con, keyboard.NewQueue("1;"))

	idx, err := d.Select("Выбор", []string{"a", "b", "c"})
	if err != nil || idx != 1 {
		t.Errorf("Ожидался индекс 1, получено: %d (%v)", idx, err)
	}
	if !strings.Contains(out.String(), "What item to select (0,1,2)?") {
		t.Errorf("Ожидался вопрос со списком индексов, получено: %s", out.String())
	}

	idx, err = d.Select("Выбор", []string{"a"})
	if err != nil || idx != -1 {
		t.Errorf("Пустой ответ должен давать -1, получено: %d (%v)", idx, err)
	}

	idx, _ = d.Select("Выбор", []string{"a"})
	if idx != -1 {
		t.Errorf("Пустая очередь должна давать -1, получено: %d", idx)
	}
}

func TestDialogMultiSelectInteractive(t *testing.T) {
	con, _ := newTestConsole("0, 2\n", true, false)
	d := NewDialog(con, nil)

	selected, err := d.MultiSelect("Выбор", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if len(selected) != 2 || selected[0] != 0 || selected[1] != 2 {
		t.Errorf("Ожидалось [0 2], получено: %v", selected)
	}
}

func TestParseSelection(t *testing.T) {
	if got, err := ParseSelection("", 3); got != nil || err != nil {
		t.Errorf("Пустой ввод должен давать nil, получено: %v (%v)", got, err)
	}
	if _, err := ParseSelection("x", 3); err == nil {
		t.Error("Ожидалась ошибка для нечислового ввода")
	}
	if _, err := ParseSelection("5", 3); err == nil {
		t.Error("Ожидалась ошибка для индекса вне диапазона")
	}
}

func TestDialogYesNo(t *testing.T) {
	con, out := newTestConsole("", false, false)
	ok, err := NewDialog(con, nil).YesNo("Вопрос", "Продолжить?", "", "")
	if err != nil || !ok {
		t.Errorf("В неинтерактивном режиме ожидался ответ true, получено: %v (%v)", ok, err)
	}
	if !strings.Contains(out.String(), "Продолжить? [Y]es or [N]o:") {
		t.Errorf("Неверный текст вопроса: %s", out.String())
	}

	con, _ = newTestConsole("n\n", true, false)
	ok, _ = NewDialog(con, nil).YesNo("Вопрос", "Продолжить?", "", "")
	if ok {
		t.Error("Ответ n должен давать false")
	}

	con, _ = newTestConsole("y\n", true, false)
	ok, _ = NewDialog(con, nil).YesNo("Вопрос", "Продолжить?", "", "")
	if !ok {
		t.Error("Ответ y должен давать true")
	}
}

func TestDialogInput(t *testing.T) {
	con, _ := newTestConsole("", false, false)
	d := NewDialog(con, keyboard.NewQueue("поиск"))

	got, err := d.Input("Поиск", "по умолчанию", InputAlphanum)
	if err != nil || got != "поиск" {
		t.Errorf("Ожидалось значение из очереди, получено: %q (%v)", got, err)
	}

	got, _ = d.Input("Поиск", "по умолчанию", InputAlphanum)
	if got != "по умолчанию" {
		t.Errorf("Пустая очередь должна давать значение по умолчанию, получено: %q", got)
	}
}

func TestNotificationColor(t *testing.T) {
	tests := map[string]console.Color{
		NotificationInfo:    console.White,
		NotificationWarning: console.Yellow,
		NotificationError:   console.Red,
		"custom.png":        console.White,
	}
	for icon, want := range tests {
		if got := NotificationColor(icon); got != want {
			t.Errorf("NotificationColor(%s) = %v, ожидалось %v", icon, got, want)
		}
	}
}

func TestProgress(t *testing.T) {
	con, out := newTestConsole("", false, true)

	p := NewDialogProgress(con)
	p.Create("Загрузка", "начало")
	p.Update(150, "почти")
	if p.Percent() != 100 {
		t.Errorf("Процент должен ограничиваться 100, получено: %d", p.Percent())
	}
	if p.IsCanceled() {
		t.Error("Диалог не может быть отменен")
	}
	p.Close()

	bg := NewDialogProgressBG(con)
	bg.Create("Фон", "")
	bg.Update(40, "Шаг", "файл")
	if bg.IsFinished() {
		t.Error("IsFinished должен возвращать false")
	}

	for _, want := range []string{"100%: почти", "40%: Шаг - файл"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Вывод должен содержать %q:\n%s", want, out.String())
		}
	}
}
