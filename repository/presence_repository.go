/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\repository\presence_repository.go
 * @Description: 采集会话在线状态管理 - 支持 Redis 分布式存储
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"
	"fmt"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/json"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/redis/go-redis/v9"
)

// PresenceRepository 在线采集会话仓库接口
type PresenceRepository interface {
	// SetSessionLive 标记会话在线
	SetSessionLive(ctx context.Context, live *LiveSession) error

	// SetSessionOver 标记会话结束
	SetSessionOver(ctx context.Context, sessionID string) error

	// IsLive 检查会话是否在线
	IsLive(ctx context.Context, sessionID string) (bool, error)

	// GetLiveSession 获取在线会话信息
	GetLiveSession(ctx context.Context, sessionID string) (*LiveSession, error)

	// GetLiveSessionsByKey 获取 API Key 下的全部在线会话
	GetLiveSessionsByKey(ctx context.Context, apiKey string) ([]*LiveSession, error)

	// GetLiveCount 获取在线会话总数
	GetLiveCount(ctx context.Context) (int64, error)

	// UpdateHeartbeat 更新心跳时间并续期
	UpdateHeartbeat(ctx context.Context, sessionID string) error
}

// RedisPresenceRepository Redis 实现
type RedisPresenceRepository struct {
	client    *redis.Client
	keyPrefix string        // key 前缀
	ttl       time.Duration // 过期时间
}

// NewRedisPresenceRepository 创建 Redis 在线会话仓库
// 参数:
//   - client: Redis 客户端 (github.com/redis/go-redis/v9)
//   - config: 在线状态配置对象
func NewRedisPresenceRepository(client *redis.Client, config *wscconfig.OnlineStatus) PresenceRepository {
	return &RedisPresenceRepository{
		client:    client,
		keyPrefix: mathx.IF(config.KeyPrefix == "", DefaultPresenceKeyPrefix, config.KeyPrefix),
		ttl:       mathx.IF(config.TTL == 0, 5*time.Minute, config.TTL),
	}
}

// GetSessionKey 获取会话在线状态的 key
func (r *RedisPresenceRepository) GetSessionKey(sessionID string) string {
	return fmt.Sprintf("%ssession:%s", r.keyPrefix, sessionID)
}

// GetAPIKeySetKey 获取 API Key 在线会话集合的 key
func (r *RedisPresenceRepository) GetAPIKeySetKey(apiKey string) string {
	return fmt.Sprintf("%skey:%s", r.keyPrefix, apiKey)
}

// GetAllSessionsSetKey 获取所有在线会话集合的 key
func (r *RedisPresenceRepository) GetAllSessionsSetKey() string {
	return fmt.Sprintf("%sall", r.keyPrefix)
}

// SetSessionLive 标记会话在线
func (r *RedisPresenceRepository) SetSessionLive(ctx context.Context, live *LiveSession) error {
	data, err := json.Marshal(live)
	if err != nil {
		return errorx.WrapError("failed to marshal live session", err)
	}

	// 使用 pipeline 批量执行
	pipe := r.client.Pipeline()

	// 1. 设置会话在线信息
	pipe.Set(ctx, r.GetSessionKey(live.SessionID), data, r.ttl)

	// 2. 添加到全局在线会话集合
	pipe.SAdd(ctx, r.GetAllSessionsSetKey(), live.SessionID)

	// 3. 添加到 API Key 在线会话集合
	if live.APIKey != "" {
		pipe.SAdd(ctx, r.GetAPIKeySetKey(live.APIKey), live.SessionID)
	}

	_, err = pipe.Exec(ctx)
	return err
}

// SetSessionOver 标记会话结束
func (r *RedisPresenceRepository) SetSessionOver(ctx context.Context, sessionID string) error {
	// 先取会话信息，以便从 API Key 集合中移除；取不到时仍继续删除
	live, err := r.GetLiveSession(ctx, sessionID)
	if err != nil {
		live = nil
	}

	pipe := r.client.Pipeline()

	// 1. 删除会话在线信息
	pipe.Del(ctx, r.GetSessionKey(sessionID))

	// 2. 从全局在线会话集合中移除
	pipe.SRem(ctx, r.GetAllSessionsSetKey(), sessionID)

	// 3. 从 API Key 集合中移除
	if live != nil && live.APIKey != "" {
		pipe.SRem(ctx, r.GetAPIKeySetKey(live.APIKey), sessionID)
	}

	_, err = pipe.Exec(ctx)
	return err
}

// IsLive 检查会话是否在线
func (r *RedisPresenceRepository) IsLive(ctx context.Context, sessionID string) (bool, error) {
	count, err := r.client.Exists(ctx, r.GetSessionKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLiveSession 获取在线会话信息
func (r *RedisPresenceRepository) GetLiveSession(ctx context.Context, sessionID string) (*LiveSession, error) {
	data, err := r.client.Get(ctx, r.GetSessionKey(sessionID)).Bytes()
	if err != nil {
		return nil, err
	}

	var live LiveSession
	if err := json.Unmarshal(data, &live); err != nil {
		return nil, errorx.WrapError("failed to unmarshal live session", err)
	}
	return &live, nil
}

// GetLiveSessionsByKey 获取 API Key 下的全部在线会话
// 集合成员可能因 TTL 过期而无对应信息，取不到的成员顺带从集合中清理
func (r *RedisPresenceRepository) GetLiveSessionsByKey(ctx context.Context, apiKey string) ([]*LiveSession, error) {
	sessionIDs, err := r.client.SMembers(ctx, r.GetAPIKeySetKey(apiKey)).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*LiveSession, 0, len(sessionIDs))
	var stale []any
	for _, sessionID := range sessionIDs {
		live, err := r.GetLiveSession(ctx, sessionID)
		if err == redis.Nil {
			stale = append(stale, sessionID)
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, live)
	}

	if len(stale) > 0 {
		pipe := r.client.Pipeline()
		pipe.SRem(ctx, r.GetAPIKeySetKey(apiKey), stale...)
		pipe.SRem(ctx, r.GetAllSessionsSetKey(), stale...)
		_, _ = pipe.Exec(ctx)
	}

	return sessions, nil
}

// GetLiveCount 获取在线会话总数
func (r *RedisPresenceRepository) GetLiveCount(ctx context.Context) (int64, error) {
	return r.client.SCard(ctx, r.GetAllSessionsSetKey()).Result()
}

// UpdateHeartbeat 更新心跳时间并续期
func (r *RedisPresenceRepository) UpdateHeartbeat(ctx context.Context, sessionID string) error {
	live, err := r.GetLiveSession(ctx, sessionID)
	if err != nil {
		return err
	}

	live.LastBeatAt = time.Now()
	data, err := json.Marshal(live)
	if err != nil {
		return errorx.WrapError("failed to marshal live session", err)
	}

	return r.client.Set(ctx, r.GetSessionKey(sessionID), data, r.ttl).Err()
}
