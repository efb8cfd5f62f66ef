package page

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"sync"
)

// Element is a control on a rendered page: a text label, a set of classes
// and click listeners.
type Element interface {
	ID() string
	Text() string
	SetText(text string)
	HasClass(name string) bool
	// SetClass sets the class to exactly on. Calling it twice with the same
	// value leaves the element unchanged.
	SetClass(name string, on bool)
	OnClick(listener func())
}

// Document looks up elements by ID. A missing element is reported with
// false, never an error.
type Document interface {
	ElementByID(id string) (Element, bool)
}

// Button is an in-memory Element safe for concurrent use.
type Button struct {
	id string

	mu        sync.Mutex
	text      string
	classes   map[string]bool
	listeners []func()
}

func NewButton(id, text string, classes ...string) *Button {
	b := &Button{id: id, text: text, classes: make(map[string]bool, len(classes))}
	for _, c := range classes {
		b.classes[c] = true
	}
	return b
}

func (b *Button) ID() string { return b.id }

func (b *Button) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

func (b *Button) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}

func (b *Button) HasClass(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.classes[name]
}

func (b *Button) SetClass(name string, on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if on {
		b.classes[name] = true
		return
	}
	delete(b.classes, name)
}

// Classes returns the element's classes in sorted order.
func (b *Button) Classes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.classes))
	for c := range b.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (b *Button) OnClick(listener func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, listener)
}

// Click runs every registered listener in registration order.
func (b *Button) Click() {
	b.mu.Lock()
	listeners := make([]func(), len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, l := range listeners {
		l()
	}
}

// Page is an in-memory Document. Elements keep the order they were added in.
type Page struct {
	mu      sync.RWMutex
	order   []string
	buttons map[string]*Button
}

func New(buttons ...*Button) *Page {
	p := &Page{buttons: make(map[string]*Button, len(buttons))}
	for _, b := range buttons {
		p.Add(b)
	}
	return p
}

// Add places b on the page, replacing any element with the same ID.
func (p *Page) Add(b *Button) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.buttons[b.id]; !exists {
		p.order = append(p.order, b.id)
	}
	p.buttons[b.id] = b
}

func (p *Page) Button(id string) (*Button, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b, ok := p.buttons[id]
	return b, ok
}

func (p *Page) ElementByID(id string) (Element, bool) {
	b, ok := p.Button(id)
	if !ok {
		return nil, false
	}
	return b, true
}

// Click activates the element with the given ID and reports whether it exists.
func (p *Page) Click(id string) bool {
	b, ok := p.Button(id)
	if !ok {
		return false
	}
	b.Click()
	return true
}

func (p *Page) snapshot() []*Button {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Button, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.buttons[id])
	}
	return out
}

func (p *Page) String() string {
	var sb strings.Builder
	for _, b := range p.snapshot() {
		fmt.Fprintf(&sb, "%s [%s] %s\n", b.ID(), strings.Join(b.Classes(), " "), b.Text())
	}
	return sb.String()
}

var buttonsTemplate = template.Must(template.New("buttons").Parse(
	`{{range .}}<button id="{{.ID}}"{{with .Class}} class="{{.}}"{{end}}>{{.Text}}</button>
{{end}}`))

type buttonView struct {
	ID    string
	Class string
	Text  string
}

// WriteHTML renders every element as an HTML button.
func (p *Page) WriteHTML(w io.Writer) error {
	buttons := p.snapshot()
	views := make([]buttonView, 0, len(buttons))
	for _, b := range buttons {
		views = append(views, buttonView{
			ID:    b.ID(),
			Class: strings.Join(b.Classes(), " "),
			Text:  b.Text(),
		})
	}
	if err := buttonsTemplate.Execute(w, views); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
