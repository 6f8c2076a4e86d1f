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
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisAttributionStore_Load(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set("dlmc:abc123", `{"utmSource":"google"}`))

	store := NewRedisAttributionStore(client, "dlmc")

	raw, ok, err := store.Load(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"utmSource":"google"}`, raw)
}

func TestRedisAttributionStore_Missing(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisAttributionStore(client, "dlmc")

	raw, ok, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, raw)
}

func TestRedisAttributionStore_Unavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()

	store := NewRedisAttributionStore(client, "dlmc")

	_, ok, err := store.Load(context.Background(), "abc123")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCookieVisitor_AttributionRecord(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set("dlmc:abc123", `{"utmSource":"bing"}`))
	store := NewRedisAttributionStore(client, "dlmc")

	inline := `{"utmSource":"google"}`
	withInline := CookieVisitor{Cookies: "hubspotutk=abc123", Record: &inline, Store: store}
	assert.Equal(t, inline, withInline.AttributionRecord(context.Background(), "abc123"))

	fromStore := CookieVisitor{Cookies: "hubspotutk=abc123", Store: store}
	assert.Equal(t, `{"utmSource":"bing"}`, fromStore.AttributionRecord(context.Background(), "abc123"))

	noStore := CookieVisitor{Cookies: "hubspotutk=abc123"}
	assert.Empty(t, noStore.AttributionRecord(context.Background(), "abc123"))

	mr.Close()
	assert.Empty(t, fromStore.AttributionRecord(context.Background(), "abc123"))
}
