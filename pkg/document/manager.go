// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package document

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
)

// Manager is an in-memory document collection. Saved documents are copied,
// so later changes to a caller's document are only visible after another Save.
type Manager struct {
	mu    sync.RWMutex
	docs  map[uuid.UUID]*Document
	order []uuid.UUID
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{docs: make(map[uuid.UUID]*Document)}
}

// Save stores a copy of doc, replacing any earlier version with the same ID.
func (m *Manager) Save(doc *Document) error {
	if doc == nil {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "document cannot be nil")
	}
	if doc.ID == uuid.Nil {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "document has no ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[doc.ID]; !ok {
		m.order = append(m.order, doc.ID)
	}
	m.docs[doc.ID] = doc.Clone()

	slog.Debug("document saved", "id", doc.ID, "doneSteps", len(doc.results))
	return nil
}

// Get returns a copy of the document with the given ID.
func (m *Manager) Get(id uuid.UUID) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeNotFound,
			fmt.Sprintf("document %s not found", id), map[string]any{"id": id.String()})
	}
	return doc.Clone(), nil
}

// Len returns the number of stored documents.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// RawDocuments returns every document with empty text, whatever its steps.
func (m *Manager) RawDocuments() []*Document {
	return m.filter(func(d *Document) bool { return d.IsRaw() })
}

// DocumentsLackingPreprocess returns every document for which step is not done,
// including raw documents.
func (m *Manager) DocumentsLackingPreprocess(step Step) ([]*Document, error) {
	if !step.IsValid() {
		return nil, unknownStep(step.String())
	}
	return m.filter(func(d *Document) bool { return !d.WasPreprocessDone(step) }), nil
}

func (m *Manager) filter(keep func(*Document) bool) []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Document
	for _, id := range m.order {
		if d := m.docs[id]; keep(d) {
			out = append(out, d.Clone())
		}
	}
	return out
}
