/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\hub\registry.go
 * @Description: 观察者注册表 - API Key 到观察者连接列表的映射
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package hub

import (
	"sync"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// Registry 观察者注册表
// 同一 API Key 可挂任意数量的观察者，扇出时对列表快照遍历
type Registry struct {
	mutex     sync.RWMutex
	observers map[string][]*Client
}

// NewRegistry 创建观察者注册表
func NewRegistry() *Registry {
	return &Registry{
		observers: make(map[string][]*Client),
	}
}

// Attach 将观察者连接挂到指定 API Key 下
// 不做去重：同一连接重复 associateUser 会收到重复下发，由调用方保证幂等
func (r *Registry) Attach(apiKey string, client *Client) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.observers[apiKey] = append(r.observers[apiKey], client)
}

// Lookup 获取 API Key 下的观察者连接快照
// 返回副本，调用方遍历期间注册表可被并发修改
func (r *Registry) Lookup(apiKey string) []*Client {
	return syncx.WithRLockReturnValue(&r.mutex, func() []*Client {
		clients, ok := r.observers[apiKey]
		if !ok || len(clients) == 0 {
			return nil
		}
		snapshot := make([]*Client, len(clients))
		copy(snapshot, clients)
		return snapshot
	})
}

// Remove 将连接从注册表摘除
// knownKey 非空且命中时走快路径，否则全表扫描（连接可能从未 associateUser）
// 摘除后空列表的 key 一并清理，防止 key 集合无界增长
func (r *Registry) Remove(client *Client, knownKey string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if knownKey != "" {
		if r.removeFromKey(client, knownKey) {
			return
		}
	}

	for apiKey := range r.observers {
		if r.removeFromKey(client, apiKey) {
			return
		}
	}
}

// removeFromKey 从单个 key 的列表中摘除连接，调用方持有写锁
func (r *Registry) removeFromKey(client *Client, apiKey string) bool {
	clients, ok := r.observers[apiKey]
	if !ok {
		return false
	}

	for i, c := range clients {
		if c == client {
			clients = append(clients[:i], clients[i+1:]...)
			if len(clients) == 0 {
				delete(r.observers, apiKey)
			} else {
				r.observers[apiKey] = clients
			}
			return true
		}
	}
	return false
}

// HasObservers 是否存在该 API Key 的观察者
func (r *Registry) HasObservers(apiKey string) bool {
	return syncx.WithRLockReturnValue(&r.mutex, func() bool {
		return len(r.observers[apiKey]) > 0
	})
}

// Counts 统计观察者连接数与被观察 key 数
func (r *Registry) Counts() (observers int, keys int) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, clients := range r.observers {
		observers += len(clients)
	}
	return observers, len(r.observers)
}

// ============================================================================
// 关联策略
// ============================================================================

// AssociationPolicy 扇出目标选取策略
// 注册表只负责存取，哪些连接应收到下发由策略决定，便于上层替换
type AssociationPolicy interface {
	// FindAssociatedClients 返回应接收该 API Key 消息的连接快照
	FindAssociatedClients(apiKey string, registry *Registry) []*Client
}

// DirectAssociationPolicy 默认策略：API Key 下登记的全部观察者
type DirectAssociationPolicy struct{}

// FindAssociatedClients 返回注册表中该 key 下的全部观察者
func (DirectAssociationPolicy) FindAssociatedClients(apiKey string, registry *Registry) []*Client {
	return registry.Lookup(apiKey)
}

// ObservedKeys 获取当前存在观察者的 API Key 列表
func (r *Registry) ObservedKeys() []string {
	return syncx.WithRLockReturnValue(&r.mutex, func() []string {
		keys := make([]string, 0, len(r.observers))
		for apiKey := range r.observers {
			keys = append(keys, apiKey)
		}
		return keys
	})
}
