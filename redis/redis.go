package redis

import (
	"context"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/theuzairlab/WrenchEX-Backend/logger"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// InitRedis connects the shared client. The server refuses to start with a
// configured but unreachable Redis; leaving REDIS_ADDR unset skips this
// entirely and the response caches stay no-op.
func InitRedis() {
	dbNum, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	Client = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbNum,
	})

	if err := Client.Ping(Ctx).Err(); err != nil {
		logger.L().Fatal("redis connection failed", zap.Error(err))
	}
	logger.L().Info("connected to redis", zap.String("addr", os.Getenv("REDIS_ADDR")))
}
