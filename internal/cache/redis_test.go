package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogue struct {
	IDs []string `json:"ids"`
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewClient(context.Background(), mr.Addr())
	require.NotNil(t, client)
	defer client.Close()

	url := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NotNil(t, url)
	defer url.Close()

	assert.Nil(t, NewClient(context.Background(), "redis://%zz"))
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	assert.Nil(t, NewClient(context.Background(), addr))
}

func TestRemember(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(context.Background(), mr.Addr())
	require.NotNil(t, client)
	defer client.Close()

	calls := 0
	load := func(context.Context) (catalogue, error) {
		calls++
		return catalogue{IDs: []string{"BASIC", "BUSINESS"}}, nil
	}

	first, err := Remember(context.Background(), client, "member-types", time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(context.Background(), client, "member-types", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("member-types"))

	mr.FastForward(2 * time.Minute)
	_, err = Remember(context.Background(), client, "member-types", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRemember_NilClientAndLoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Remember(context.Background(), nil, "k", time.Minute, func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := Remember(context.Background(), nil, "k", time.Minute, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
