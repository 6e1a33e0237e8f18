package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/manuphil/balldash/internal/infra/rediscache"
)

// Fixed key names for the persisted token pair.
const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// TokenStore persists the access/refresh token pair across restarts.
// Tokens are the only durable state this service keeps.
type TokenStore interface {
	Load(ctx context.Context) (access, refresh string, err error)
	Save(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

// FileStore keeps the token pair in a local JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed token store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type tokenFile struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

func (s *FileStore) Load(ctx context.Context) (string, string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("read token file: %w", err)
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", "", fmt.Errorf("decode token file: %w", err)
	}
	return tf.Access, tf.Refresh, nil
}

func (s *FileStore) Save(ctx context.Context, access, refresh string) error {
	data, err := json.Marshal(tokenFile{Access: access, Refresh: refresh})
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// RedisStore keeps the token pair in Redis under fixed keys.
type RedisStore struct {
	cache *rediscache.Client
}

// NewRedisStore creates a Redis-backed token store.
func NewRedisStore(cache *rediscache.Client) *RedisStore {
	return &RedisStore{cache: cache}
}

func (s *RedisStore) Load(ctx context.Context) (string, string, error) {
	access, err := s.cache.GetToken(ctx, accessTokenKey)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.cache.GetToken(ctx, refreshTokenKey)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *RedisStore) Save(ctx context.Context, access, refresh string) error {
	if err := s.cache.SetToken(ctx, accessTokenKey, access); err != nil {
		return err
	}
	return s.cache.SetToken(ctx, refreshTokenKey, refresh)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.Save(ctx, "", "")
}
