/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\distributed.go
 * @Description: 跨节点扇出消息模型
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"encoding/json"
	"time"
)

// FanoutMessage 跨节点扇出消息
// 生产者与观察者可能连在不同节点，解析结果经 PubSub 广播给其他节点的观察者
type FanoutMessage struct {
	NodeID    string          `json:"node_id"`   // 来源节点ID（接收方据此跳过自己发布的消息）
	APIKey    string          `json:"api_key"`   // 目标 API Key
	Payload   json.RawMessage `json:"payload"`   // 已编码的下发消息（logData 或 deviceMetrics 原文）
	Timestamp time.Time       `json:"timestamp"` // 发布时间
}
