// Package prefs persists the tool's scalar user preferences. Each
// preference lives under its own key and falls back to its own default, so a
// missing or unreadable value never affects the others.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Keys the preferences are stored under
const (
	KeyBuffer       = "qhnsl-buffer"
	KeyLayerVisible = "qhnsl-layer-visible"
	KeySelectedOnly = "qhnsl-selected-only"
)

const (
	// DefaultBuffer pads the selection bounds, in working projection units
	DefaultBuffer = 500.0
	// LegacyBuffer is the padding the display-only tool used
	LegacyBuffer = 200.0
)

// ErrInvalidBuffer rejects negative or non-finite buffer distances
var ErrInvalidBuffer = errors.New("buffer must be a finite number >= 0")

// ErrUnknownKey is returned for keys that are not preferences
var ErrUnknownKey = errors.New("unknown preference key")

// Store is a string key/value backend
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Values is every preference at once
type Values struct {
	Buffer       float64 `json:"buffer" yaml:"buffer"`
	LayerVisible bool    `json:"layerVisible" yaml:"layerVisible"`
	SelectedOnly bool    `json:"selectedOnly" yaml:"selectedOnly"`
}

// Defaults returns the values used when nothing is stored
func Defaults() Values {
	return Values{Buffer: DefaultBuffer}
}

// Prefs gives typed access to the preferences in a Store
type Prefs struct {
	store Store
}

// New wraps store
func New(store Store) *Prefs {
	return &Prefs{store: store}
}

// Buffer returns the stored buffer, or DefaultBuffer when unset or invalid
func (p *Prefs) Buffer(ctx context.Context) float64 {
	raw, ok, err := p.store.Get(ctx, KeyBuffer)
	if err != nil || !ok {
		return DefaultBuffer
	}
	v, err := ParseBuffer(raw)
	if err != nil {
		return DefaultBuffer
	}
	return v
}

// SetBuffer stores v. Invalid values are rejected and the stored value kept.
func (p *Prefs) SetBuffer(ctx context.Context, v float64) error {
	if !validBuffer(v) {
		return fmt.Errorf("%w: %v", ErrInvalidBuffer, v)
	}
	return p.store.Set(ctx, KeyBuffer, strconv.FormatFloat(v, 'f', -1, 64))
}

func (p *Prefs) LayerVisible(ctx context.Context) bool {
	return p.flag(ctx, KeyLayerVisible)
}

func (p *Prefs) SetLayerVisible(ctx context.Context, v bool) error {
	return p.setFlag(ctx, KeyLayerVisible, v)
}

func (p *Prefs) SelectedOnly(ctx context.Context) bool {
	return p.flag(ctx, KeySelectedOnly)
}

func (p *Prefs) SetSelectedOnly(ctx context.Context, v bool) error {
	return p.setFlag(ctx, KeySelectedOnly, v)
}

// Load reads every preference
func (p *Prefs) Load(ctx context.Context) Values {
	return Values{
		Buffer:       p.Buffer(ctx),
		LayerVisible: p.LayerVisible(ctx),
		SelectedOnly: p.SelectedOnly(ctx),
	}
}

// Save writes every preference, validating the buffer first
func (p *Prefs) Save(ctx context.Context, v Values) error {
	if err := p.SetBuffer(ctx, v.Buffer); err != nil {
		return err
	}
	if err := p.SetLayerVisible(ctx, v.LayerVisible); err != nil {
		return err
	}
	return p.SetSelectedOnly(ctx, v.SelectedOnly)
}

// Get returns the stored string for a known key, or its default
func (p *Prefs) Get(ctx context.Context, key string) (string, error) {
	switch key {
	case KeyBuffer:
		return strconv.FormatFloat(p.Buffer(ctx), 'f', -1, 64), nil
	case KeyLayerVisible, KeySelectedOnly:
		return encodeFlag(p.flag(ctx, key)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set parses and stores value for a known key
func (p *Prefs) Set(ctx context.Context, key, value string) error {
	switch key {
	case KeyBuffer:
		v, err := ParseBuffer(value)
		if err != nil {
			return err
		}
		return p.SetBuffer(ctx, v)
	case KeyLayerVisible, KeySelectedOnly:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
		}
		return p.setFlag(ctx, key, b)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// ParseBuffer parses a buffer distance and validates it
func ParseBuffer(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBuffer, raw)
	}
	if !validBuffer(v) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBuffer, v)
	}
	return v, nil
}

func validBuffer(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func (p *Prefs) flag(ctx context.Context, key string) bool {
	raw, ok, err := p.store.Get(ctx, key)
	return err == nil && ok && raw == "1"
}

func (p *Prefs) setFlag(ctx context.Context, key string, v bool) error {
	return p.store.Set(ctx, key, encodeFlag(v))
}

func encodeFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
