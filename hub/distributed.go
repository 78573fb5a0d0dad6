/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\hub\distributed.go
 * @Description: 分布式多节点支持 - 跨节点扇出发布与订阅
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package hub

import (
	"context"
	"time"

	"github.com/kamalyes/go-logrelay/models"
	"github.com/kamalyes/go-toolbox/pkg/json"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// FanoutChannel 跨节点扇出的 PubSub 频道
const FanoutChannel = "relay:fanout"

// FanoutMessage 跨节点扇出消息别名
type FanoutMessage = models.FanoutMessage

// ============================================================================
// 跨节点扇出发布
// ============================================================================

// publishFanout 将本节点的下发消息发布给其他节点
// 未配置 PubSub 即单机模式，静默跳过
func (h *Hub) publishFanout(ctx context.Context, apiKey string, payload []byte) {
	if h.pubsub == nil {
		return
	}

	fanoutMsg := &FanoutMessage{
		NodeID:    h.nodeID,
		APIKey:    apiKey,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(fanoutMsg)
	if err != nil {
		h.logger.ErrorKV("扇出消息序列化失败", "api_key", apiKey, "error", err)
		return
	}

	if err := h.pubsub.Publish(ctx, FanoutChannel, string(data)); err != nil {
		h.logger.ErrorKV("跨节点扇出发布失败",
			"error", err,
			"api_key", apiKey,
			"channel", FanoutChannel,
		)
	}
}

// ============================================================================
// 跨节点扇出订阅
// ============================================================================

// SubscribeFanout 订阅其他节点发布的扇出消息
// 收到消息后仅对本节点注册表中的观察者下发，不再二次发布
func (h *Hub) SubscribeFanout(ctx context.Context) error {
	if h.pubsub == nil {
		return ErrPubSubNotSet
	}

	h.logger.InfoKV("订阅跨节点扇出频道", "channel", FanoutChannel)

	// 使用 EventLoop 包装订阅过程，提供 panic 恢复和优雅关闭
	syncx.Go(ctx).
		OnPanic(func(r any) {
			h.logger.ErrorKV("跨节点扇出订阅 panic", "panic", r, "channel", FanoutChannel)
		}).
		Exec(func() {
			_, err := h.pubsub.Subscribe([]string{FanoutChannel}, func(subCtx context.Context, ch string, msg string) error {
				var fanoutMsg FanoutMessage
				if err := json.Unmarshal([]byte(msg), &fanoutMsg); err != nil {
					h.logger.ErrorKV("解析跨节点扇出消息失败", "error", err)
					return err
				}

				return h.handleFanoutMessage(subCtx, &fanoutMsg)
			})

			if err != nil {
				h.logger.ErrorKV("订阅跨节点扇出失败", "error", err, "channel", FanoutChannel)
			}

			// 使用 EventLoop 保持订阅活跃，直到 context 取消
			syncx.NewEventLoop(ctx).
				OnShutdown(func() {
					h.logger.InfoKV("跨节点扇出订阅已停止", "channel", FanoutChannel)
				}).
				Run()
		})

	return nil
}

// handleFanoutMessage 处理其他节点发布的扇出消息
func (h *Hub) handleFanoutMessage(ctx context.Context, fanoutMsg *FanoutMessage) error {
	// 自己发布的消息本地已经下发过，跳过
	if fanoutMsg.NodeID == h.nodeID {
		return nil
	}

	h.logger.DebugKV("收到跨节点扇出消息",
		"from_node", fanoutMsg.NodeID,
		"api_key", fanoutMsg.APIKey,
	)

	h.fanoutLocal(fanoutMsg.APIKey, fanoutMsg.Payload)
	return nil
}
