// Package firebase implements the document store on the Firebase Realtime
// Database.
package firebase

import (
	"context"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// Config captures the parameters required to connect to the database.
type Config struct {
	DatabaseURL     string
	CredentialsFile string
}

// DocumentStore writes to the Realtime Database over the admin SDK.
type DocumentStore struct {
	client *db.Client
}

// New initializes the Firebase app and database client.
func New(ctx context.Context, cfg Config) (*DocumentStore, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database url is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: cfg.DatabaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("init database client: %w", err)
	}
	return &DocumentStore{client: client}, nil
}

// Update merges the value into the subtree at path.
func (s *DocumentStore) Update(ctx context.Context, path string, value any) error {
	fields, err := asMap(value)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	if err := s.client.NewRef(path).Update(ctx, fields); err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	return nil
}

// Set replaces the subtree at path.
func (s *DocumentStore) Set(ctx context.Context, path string, value any) error {
	if err := s.client.NewRef(path).Set(ctx, value); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// asMap converts struct values to the map form the RTDB update call takes.
func asMap(value any) (map[string]interface{}, error) {
	if m, ok := value.(map[string]interface{}); ok {
		return m, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("merge value must be an object: %w", err)
	}
	return m, nil
}
