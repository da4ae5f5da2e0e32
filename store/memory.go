package store

import (
	"context"
	"fmt"
	"sync"

	"mooagg/engine"
)

// Memory is an in-process collection
type Memory struct {
	mu     sync.RWMutex
	docs   map[string]map[string]any
	engine *engine.Engine
}

// NewMemory creates an empty collection
func NewMemory() *Memory {
	return &Memory{
		docs:   make(map[string]map[string]any),
		engine: engine.New(),
	}
}

func (m *Memory) InsertOne(ctx context.Context, doc map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, stored, err := documentID(doc)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docs[id]; exists {
		return "", fmt.Errorf("document %s already exists", id)
	}
	m.docs[id] = stored
	return id, nil
}

func (m *Memory) FindOne(ctx context.Context, id string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return cloneDoc(doc), nil
}

func (m *Memory) UpdateOne(ctx context.Context, id string, pipeline []map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	out, err := applyUpdate(m.engine, doc, pipeline)
	if err != nil {
		return nil, err
	}
	m.docs[id] = out
	log.Debugf("updated %s with %d stages", id, len(pipeline))
	return cloneDoc(out), nil
}

// Len returns the number of stored documents
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *Memory) Drop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]map[string]any)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
