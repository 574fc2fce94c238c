// Package arena stores meshes and fields behind generation checked handles,
// so long lived holders such as interpolation engines keep handles instead
// of pointers and resolve them on every call.
package arena

import (
	"errors"
	"fmt"
	"sync"

	"github.com/notargets/meshinterp/field"
	"github.com/notargets/meshinterp/mesh"
)

var ErrStaleHandle = errors.New("stale or invalid arena handle")

type Kind uint8

const (
	MeshKind Kind = iota + 1
	FieldKind
)

func (k Kind) String() string {
	switch k {
	case MeshKind:
		return "mesh"
	case FieldKind:
		return "field"
	}
	return "invalid"
}

// Handle is a slot index plus the generation of the slot when issued. The
// zero Handle is never valid.
type Handle struct {
	Kind       Kind
	Index      int
	Generation uint32
}

func (h Handle) String() string {
	return fmt.Sprintf("%s#%d.%d", h.Kind, h.Index, h.Generation)
}

type slot struct {
	generation uint32
	live       bool
	mesh       *mesh.Mesh
	field      *field.Field
}

type Arena struct {
	mu     sync.RWMutex
	meshes []slot
	fields []slot
	free   map[Kind][]int
}

func New() *Arena {
	return &Arena{free: make(map[Kind][]int)}
}

func (a *Arena) table(k Kind) *[]slot {
	if k == MeshKind {
		return &a.meshes
	}
	return &a.fields
}

func (a *Arena) insert(k Kind, s slot) Handle {
	var (
		tab = a.table(k)
		idx int
	)
	if free := a.free[k]; len(free) != 0 {
		idx = free[len(free)-1]
		a.free[k] = free[:len(free)-1]
		s.generation = (*tab)[idx].generation
		(*tab)[idx] = s
	} else {
		idx = len(*tab)
		s.generation = 1
		*tab = append(*tab, s)
	}
	return Handle{Kind: k, Index: idx, Generation: s.generation}
}

func (a *Arena) lookup(h Handle, k Kind) (*slot, error) {
	if h.Kind != k || (k != MeshKind && k != FieldKind) {
		return nil, fmt.Errorf("%v is not a %s handle: %w", h, k, ErrStaleHandle)
	}
	tab := *a.table(k)
	if h.Index < 0 || h.Index >= len(tab) {
		return nil, fmt.Errorf("%v: %w", h, ErrStaleHandle)
	}
	s := &tab[h.Index]
	if !s.live || s.generation != h.Generation {
		return nil, fmt.Errorf("%v: %w", h, ErrStaleHandle)
	}
	return s, nil
}

func (a *Arena) AddMesh(m *mesh.Mesh) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.insert(MeshKind, slot{live: true, mesh: m})
}

func (a *Arena) AddField(f *field.Field) (Handle, error) {
	if f == nil || f.Space == nil {
		return Handle{}, fmt.Errorf("cannot store an empty field")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.insert(FieldKind, slot{live: true, field: f}), nil
}

func (a *Arena) Mesh(h Handle) (*mesh.Mesh, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, err := a.lookup(h, MeshKind)
	if err != nil {
		return nil, err
	}
	return s.mesh, nil
}

func (a *Arena) Field(h Handle) (*field.Field, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, err := a.lookup(h, FieldKind)
	if err != nil {
		return nil, err
	}
	return s.field, nil
}

// ReplaceMesh swaps the mesh behind a live handle. Indexes built on the old
// mesh see a new generation token and rebuild.
func (a *Arena) ReplaceMesh(h Handle, m *mesh.Mesh) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.lookup(h, MeshKind)
	if err != nil {
		return err
	}
	s.mesh = m
	return nil
}

// Remove frees the slot of h. Every outstanding copy of h becomes stale.
func (a *Arena) Remove(h Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.lookup(h, h.Kind)
	if err != nil {
		return err
	}
	*s = slot{generation: s.generation + 1}
	a.free[h.Kind] = append(a.free[h.Kind], h.Index)
	return nil
}

// Len returns the number of live meshes and fields
func (a *Arena) Len() (meshes, fields int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, s := range a.meshes {
		if s.live {
			meshes++
		}
	}
	for _, s := range a.fields {
		if s.live {
			fields++
		}
	}
	return
}
