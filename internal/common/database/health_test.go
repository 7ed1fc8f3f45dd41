// internal/common/database/health_test.go
package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAll(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := &RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	defer rc.Close()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()
	pg := &PostgresClient{DB: db}

	status, err := CheckAll(context.Background(), time.Second, pg, rc)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"postgres": "up", "redis": "up"}, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAll_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := &RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})}
	defer rc.Close()
	mr.Close()

	status, err := CheckAll(context.Background(), time.Second, rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
	assert.Equal(t, "down", status["redis"])
}
