/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\hub\hub.go
 * @Description: Hub 核心结构和类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package hub

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kamalyes/go-cachex"
	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/idgen"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/osx"
	"github.com/kamalyes/go-toolbox/pkg/safe"

	"github.com/kamalyes/go-logrelay/middleware"
	"github.com/kamalyes/go-logrelay/models"
	"github.com/kamalyes/go-logrelay/parsing"
	"github.com/kamalyes/go-logrelay/repository"
)

// ============================================================================
// 类型别名 - 从 models repository middleware 包导入
// ============================================================================

type (
	Client                  = models.Client
	Session                 = models.Session
	Envelope                = models.Envelope
	LogEntry                = models.LogEntry
	LogDataMessage          = models.LogDataMessage
	ClientRole              = models.ClientRole
	DisconnectReason        = models.DisconnectReason
	IDGenerator             = models.IDGenerator
	HubStats                = models.HubStats
	LiveSession             = models.LiveSession
	ErrorType               = errorx.ErrorType
	RelayLogger             = middleware.RelayLogger
	LogRecordRepository     = repository.LogRecordRepository
	SessionRecordRepository = repository.SessionRecordRepository
	PresenceRepository      = repository.PresenceRepository
)

// 函数导入
var (
	NewClient         = models.NewClient
	NewSession        = models.NewSession
	DecodeEnvelope    = models.DecodeEnvelope
	NewLogDataMessage = models.NewLogDataMessage
	InitLogger        = middleware.InitLogger
	IsParseError      = models.IsParseError
	IsConnectionFatal = models.IsConnectionFatal
)

// 常量别名
const (
	MessageTypeStartSession  = models.MessageTypeStartSession
	MessageTypeLogDump       = models.MessageTypeLogDump
	MessageTypeEndSession    = models.MessageTypeEndSession
	MessageTypeAssociateUser = models.MessageTypeAssociateUser
	MessageTypeDeviceMetrics = models.MessageTypeDeviceMetrics
	MessageTypeLogData       = models.MessageTypeLogData

	ClientRoleUnknown  = models.ClientRoleUnknown
	ClientRoleProducer = models.ClientRoleProducer
	ClientRoleObserver = models.ClientRoleObserver

	DisconnectReasonReadError      = models.DisconnectReasonReadError
	DisconnectReasonDecodeError    = models.DisconnectReasonDecodeError
	DisconnectReasonHandlerError   = models.DisconnectReasonHandlerError
	DisconnectReasonCloseMessage   = models.DisconnectReasonCloseMessage
	DisconnectReasonServerShutdown = models.DisconnectReasonServerShutdown
)

// 错误常量
var (
	ErrEmptyLogDump   = models.ErrEmptyLogDump
	ErrClientClosed   = models.ErrClientClosed
	ErrSendBufferFull = models.ErrSendBufferFull
	ErrPubSubNotSet   = models.ErrPubSubNotSet

	ErrTypeDecodeFailure     = models.ErrTypeDecodeFailure
	ErrTypeMissingField      = models.ErrTypeMissingField
	ErrTypeSessionNotStarted = models.ErrTypeSessionNotStarted
	ErrTypeRepositoryNotSet  = models.ErrTypeRepositoryNotSet
)

// ============================================================================
// Hub 核心结构
// ============================================================================

// Hub 日志中继连接管理中心
// 生产者连接推送原始日志，解析归一化后按 API Key 扇出给观察者连接
type Hub struct {
	nodeID    string
	workerID  int64
	startTime time.Time

	registry *Registry
	router   *Router
	parser   *parsing.Parser
	policy   AssociationPolicy

	logRecordRepo     LogRecordRepository
	sessionRecordRepo SessionRecordRepository
	presenceRepo      PresenceRepository
	idGenerator       IDGenerator

	// 📡 跨节点扇出发布订阅
	pubsub *cachex.PubSub

	// 原子计数器：避免为统计加锁
	activeClientsCount atomic.Int64
	messagesReceived   atomic.Int64
	messagesFanout     atomic.Int64
	entriesParsed      atomic.Int64
	droppedSends       atomic.Int64

	wg       sync.WaitGroup
	shutdown atomic.Bool

	logger RelayLogger
	ctx    context.Context
	cancel context.CancelFunc
	config *wscconfig.WSC
}

// NewHub 创建新的Hub
func NewHub(config *wscconfig.WSC) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	// 生成节点ID（支持K8s环境），统一使用短哈希格式
	nodeID := safe.ShortHash(generateNodeID(config))

	workerID := osx.GetWorkerIdForSnowflake()
	idGenerator := idgen.NewShortFlakeGenerator(workerID)
	// 设置默认值
	config.MessageBufferSize = mathx.IfEmpty(config.MessageBufferSize, 1024)

	hub := &Hub{
		nodeID:      nodeID,
		workerID:    workerID,
		idGenerator: idGenerator,
		startTime:   time.Now(),
		registry:    NewRegistry(),
		parser:      parsing.NewParser(),
		policy:      DirectAssociationPolicy{},
		ctx:         ctx,
		cancel:      cancel,
		config:      config,
		logger:      InitLogger(config),
	}
	hub.router = NewRouter(hub.logger)
	hub.registerHandlers()
	return hub
}

// registerHandlers 登记全部入站消息类型的处理器
func (h *Hub) registerHandlers() {
	h.router.Register(MessageTypeStartSession, h.handleStartSession)
	h.router.Register(MessageTypeLogDump, h.handleLogDump)
	h.router.Register(MessageTypeEndSession, h.handleEndSession)
	h.router.Register(MessageTypeAssociateUser, h.handleAssociateUser)
	h.router.Register(MessageTypeDeviceMetrics, h.handleDeviceMetrics)
}

// ============================================================================
// 基础 Getter/Setter 方法
// ============================================================================

func (h *Hub) GetNodeID() string            { return h.nodeID }
func (h *Hub) GetWorkerID() int64           { return h.workerID }
func (h *Hub) GetIDGenerator() IDGenerator  { return h.idGenerator }
func (h *Hub) GetLogger() RelayLogger       { return h.logger }
func (h *Hub) GetContext() context.Context  { return h.ctx }
func (h *Hub) GetConfig() *wscconfig.WSC    { return h.config }
func (h *Hub) GetRegistry() *Registry       { return h.registry }
func (h *Hub) GetRouter() *Router           { return h.router }
func (h *Hub) GetParser() *parsing.Parser   { return h.parser }
func (h *Hub) IsShutdown() bool             { return h.shutdown.Load() }

func (h *Hub) SetAssociationPolicy(policy AssociationPolicy) {
	h.policy = policy
	h.logger.InfoKV("关联策略已设置", "enabled", policy != nil)
}

func (h *Hub) SetIDGenerator(generator IDGenerator) {
	h.idGenerator = generator
	h.logger.InfoKV("ID生成器已设置", "generator_type", "idgen")
}

func (h *Hub) SetLogRecordRepository(repo LogRecordRepository) {
	h.logRecordRepo = repo
	h.logger.InfoKV("日志记录仓库已设置", "enabled", repo != nil)
}

func (h *Hub) SetSessionRecordRepository(repo SessionRecordRepository) {
	h.sessionRecordRepo = repo
	h.logger.InfoKV("会话记录仓库已设置", "enabled", repo != nil)
}

func (h *Hub) SetPresenceRepository(repo PresenceRepository) {
	h.presenceRepo = repo
	h.logger.InfoKV("在线状态仓库已设置", "enabled", repo != nil)
}

func (h *Hub) SetPubSub(pubsub *cachex.PubSub) {
	h.pubsub = pubsub
	h.logger.InfoKV("PubSub已设置", "enabled", true)
}

func (h *Hub) GetPubSub() *cachex.PubSub {
	return h.pubsub
}

// GetStats 获取运行统计
func (h *Hub) GetStats() *HubStats {
	observers, keys := h.registry.Counts()
	total := int(h.activeClientsCount.Load())
	return &HubStats{
		TotalClients:     total,
		ProducerClients:  total - observers,
		ObserverClients:  observers,
		ObservedKeys:     keys,
		MessagesReceived: h.messagesReceived.Load(),
		MessagesFanout:   h.messagesFanout.Load(),
		EntriesParsed:    h.entriesParsed.Load(),
		DroppedSends:     h.droppedSends.Load(),
		NodeID:           h.nodeID,
		UptimeSeconds:    int64(time.Since(h.startTime).Seconds()),
	}
}

// Shutdown 关闭Hub，取消上下文并等待全部连接循环退出
func (h *Hub) Shutdown(timeout time.Duration) error {
	if !h.shutdown.CompareAndSwap(false, true) {
		return nil
	}

	h.logger.InfoKV("Hub开始关闭", "node_id", h.nodeID)
	h.cancel()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.logger.InfoKV("Hub已关闭", "node_id", h.nodeID)
		return nil
	case <-time.After(timeout):
		return errorx.WrapError("hub shutdown timed out")
	}
}

// ============================================================================
// K8s 兼容的节点ID生成
// ============================================================================

// generateNodeID 生成节点ID（支持K8s环境）
// 优先级：
// 1. 环境变量 POD_NAME（K8s推荐）
// 2. 环境变量 HOSTNAME（容器环境）
// 3. 环境变量 NODE_ID（自定义）
// 4. IP:Port（传统方式）
func generateNodeID(config *wscconfig.WSC) string {
	// 1. 优先使用 K8s Pod Name
	if podName := osx.Getenv("POD_NAME", ""); podName != "" {
		return podName
	}

	// 2. 使用 Hostname（容器环境）
	if hostname := osx.Getenv("HOSTNAME", ""); hostname != "" {
		return hostname
	}

	// 3. 使用自定义 NODE_ID
	if nodeID := osx.Getenv("NODE_ID", ""); nodeID != "" {
		return nodeID
	}

	// 4. 回退到 IP:Port（传统方式）
	return fmt.Sprintf("%s-%d", config.NodeIP, config.NodePort)
}
