package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownLayout is returned when a layout key is not registered.
var ErrUnknownLayout = errors.New("unknown card layout")

// Align is the horizontal alignment of text inside a frame.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Frame is a text area on the card. Coordinates and sizes are millimetres
// from the top-left corner of the trimmed card; font sizes are points.
type Frame struct {
	X, Y, W, H float64

	FontSize float64
	// FirstLineSize overrides FontSize for the first paragraph when set.
	FirstLineSize float64
	// Leading is the distance between baselines as a multiple of the font size.
	Leading float64

	Align Align
}

// Layout places the four card blocks on a card of the given trimmed size.
type Layout struct {
	Key   string
	Label string

	Width  float64
	Height float64

	FullName Frame
	Duty     Frame
	Address  Frame
	Contacts Frame
}

// Frame returns the frame for a block name.
func (l Layout) Frame(block string) (Frame, bool) {
	switch block {
	case BlockFullName:
		return l.FullName, true
	case BlockDuty:
		return l.Duty, true
	case BlockAddress:
		return l.Address, true
	case BlockContacts:
		return l.Contacts, true
	}
	return Frame{}, false
}

// Validate checks that every frame lies inside the card.
func (l Layout) Validate() error {
	if l.Key == "" {
		return errors.New("layout key is empty")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("layout %s: card size %.1fx%.1f must be positive", l.Key, l.Width, l.Height)
	}
	for _, name := range []string{BlockFullName, BlockDuty, BlockAddress, BlockContacts} {
		f, _ := l.Frame(name)
		if f.W <= 0 || f.H <= 0 || f.FontSize <= 0 {
			return fmt.Errorf("layout %s: frame %s has no size", l.Key, name)
		}
		if f.X < 0 || f.Y < 0 || f.X+f.W > l.Width || f.Y+f.H > l.Height {
			return fmt.Errorf("layout %s: frame %s lies outside the card", l.Key, name)
		}
	}
	return nil
}

// Registry holds named card layouts.
type Registry struct {
	mu      sync.RWMutex
	layouts map[string]Layout
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{layouts: make(map[string]Layout)}
}

// Register adds a layout. It panics on an invalid or duplicate layout, since
// layouts are registered from init.
func (r *Registry) Register(l Layout) {
	if err := l.Validate(); err != nil {
		panic(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.layouts[l.Key]; exists {
		panic(fmt.Sprintf("layout %q already registered", l.Key))
	}
	r.layouts[l.Key] = l
}

// Get returns a layout by key.
func (r *Registry) Get(key string) (Layout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.layouts[key]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q", ErrUnknownLayout, key)
	}
	return l, nil
}

// All returns every layout sorted by key.
func (r *Registry) All() []Layout {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Layout, 0, len(r.layouts))
	for _, l := range r.layouts {
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// Layouts is the registry of built-in layouts.
var Layouts = NewRegistry()

// DefaultLayout is the key of the layout used when none is configured.
const DefaultLayout = "standard"

func init() {
	// 90x50 mm, the usual Russian card size.
	Layouts.Register(Layout{
		Key:    DefaultLayout,
		Label:  "Standard 90×50",
		Width:  90,
		Height: 50,
		FullName: Frame{
			X: 6, Y: 6, W: 78, H: 11,
			FontSize: 9, FirstLineSize: 11, Leading: 1.25,
		},
		Duty: Frame{
			X: 6, Y: 18, W: 78, H: 8,
			FontSize: 7.5, Leading: 1.2,
		},
		Address: Frame{
			X: 6, Y: 36, W: 40, H: 9,
			FontSize: 6.5, Leading: 1.25,
		},
		Contacts: Frame{
			X: 46, Y: 36, W: 38, H: 10,
			FontSize: 6.5, Leading: 1.25, Align: AlignRight,
		},
	})

	// 85x55 mm, ISO 7810 ID-1 sized card.
	Layouts.Register(Layout{
		Key:    "euro",
		Label:  "Euro 85×55",
		Width:  85,
		Height: 55,
		FullName: Frame{
			X: 6, Y: 7, W: 73, H: 12,
			FontSize: 9.5, FirstLineSize: 12, Leading: 1.25,
		},
		Duty: Frame{
			X: 6, Y: 20, W: 73, H: 9,
			FontSize: 8, Leading: 1.2,
		},
		Address: Frame{
			X: 6, Y: 40, W: 38, H: 10,
			FontSize: 7, Leading: 1.25,
		},
		Contacts: Frame{
			X: 44, Y: 40, W: 35, H: 11,
			FontSize: 7, Leading: 1.25, Align: AlignRight,
		},
	})
}
