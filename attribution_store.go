/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package leadform

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// AttributionStore reads persisted attribution text for a visitor.
type AttributionStore interface {
	// Load returns the raw record for visitorToken. A missing record is reported
	// through the boolean, not the error.
	Load(ctx context.Context, visitorToken string) (string, bool, error)
}

// RedisAttributionStore reads records the site tracker writes under "<key>:<visitor token>".
type RedisAttributionStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisAttributionStore creates a store reading keys prefixed with storageKey.
func NewRedisAttributionStore(client redis.UniversalClient, storageKey string) *RedisAttributionStore {
	return &RedisAttributionStore{client: client, key: storageKey}
}

func (s *RedisAttributionStore) Load(ctx context.Context, visitorToken string) (string, bool, error) {
	raw, err := s.client.Get(ctx, fmt.Sprintf("%s:%s", s.key, visitorToken)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "failed to load attribution record")
	}
	return raw, true, nil
}
