package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Joseda-hg/lazystandup/internal/model"
)

// TodosKey is the state record holding the serialized todo list.
const TodosKey = "standup-todos"

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Get returns the raw value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, "SELECT value FROM state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read state %s: %w", key, err)
	}
	return value, true, nil
}

// Put overwrites the value stored under key.
func (s *Store) Put(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write state %s: %w", key, err)
	}
	return nil
}

func (s *Store) LoadTodos(ctx context.Context) ([]model.Todo, bool, error) {
	value, found, err := s.Get(ctx, TodosKey)
	if err != nil || !found {
		return nil, found, err
	}

	var todos []model.Todo
	if err := json.Unmarshal([]byte(value), &todos); err != nil {
		return nil, true, fmt.Errorf("parse saved todos: %w", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, true, nil
}

func (s *Store) SaveTodos(ctx context.Context, todos []model.Todo) error {
	if todos == nil {
		todos = []model.Todo{}
	}
	payload, err := json.Marshal(todos)
	if err != nil {
		return err
	}
	return s.Put(ctx, TodosKey, string(payload))
}
