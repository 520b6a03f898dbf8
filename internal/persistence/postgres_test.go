package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresPingWithoutPool(t *testing.T) {
	ctx := context.Background()

	var nilWrapper *Postgres
	assert.Error(t, nilWrapper.Ping(ctx))

	unconfigured := &Postgres{Pool: nil}
	assert.Error(t, unconfigured.Ping(ctx))
}

func TestRedisPingWithoutClient(t *testing.T) {
	ctx := context.Background()

	var nilWrapper *Redis
	assert.Error(t, nilWrapper.Ping(ctx))

	unconfigured := &Redis{Client: nil}
	assert.Error(t, unconfigured.Ping(ctx))
}
