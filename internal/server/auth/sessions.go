package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisstore "github.com/gin-contrib/sessions/redis"
	redigo "github.com/gomodule/redigo/redis"
	"github.com/redis/go-redis/v9"
)

const (
	redisMaxIdle     = 10
	redisIdleTimeout = 4 * time.Minute
)

// NewCookieSessionStore keeps the whole session in a cookie signed with
// secret. Nothing is held server-side.
func NewCookieSessionStore(secret []byte) sessions.Store {
	return cookie.NewStore(secret)
}

// NewRedisSessionStore keeps session bodies in Redis, keyed by the id the
// cookie carries. Keys expire together with the cookie's MaxAge. The
// returned func closes the connection pool.
func NewRedisSessionStore(url string, secret []byte) (sessions.Store, func() error, error) {
	pool := &redigo.Pool{
		MaxIdle:     redisMaxIdle,
		IdleTimeout: redisIdleTimeout,
		Dial: func() (redigo.Conn, error) {
			return redigo.DialURL(url)
		},
	}

	store, err := redisstore.NewStoreWithPool(pool, secret)
	if err != nil {
		_ = pool.Close()
		return nil, nil, fmt.Errorf("redis session store: %w", err)
	}
	return store, pool.Close, nil
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// RedisPinger lets a go-redis client report readiness like *sql.DB does.
type RedisPinger struct {
	Client *redis.Client
}

func (p RedisPinger) PingContext(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}
