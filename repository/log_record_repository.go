/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\repository\log_record_repository.go
 * @Description: 日志记录管理 - 使用 GORM 数据库持久化
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"
	"time"

	"github.com/kamalyes/go-logrelay/models"
	sqlbuilder "github.com/kamalyes/go-sqlbuilder/repository"
	"gorm.io/gorm"
)

// LogQueryOptions 日志查询条件
type LogQueryOptions struct {
	SessionID  string // 会话ID
	APIKey     string // API Key
	DeviceName string // 设备名称
	AppName    string // 应用名称
	LogType    string // 日志级别
	Tag        string // 日志Tag
	Limit      int    // 返回条数限制
	Offset     int    // 偏移量
}

// LogRecordRepository 日志记录仓库接口
type LogRecordRepository interface {
	// Create 创建单条记录
	Create(ctx context.Context, record *LogRecord) error

	// CreateBatch 批量创建记录（单次 logDump 的全部条目一次落库）
	CreateBatch(ctx context.Context, records []*LogRecord) error

	// StoreEntries 将一次 logDump 解析出的条目按会话落库
	StoreEntries(ctx context.Context, sessionID string, session *Session, entries []LogEntry) error

	// FindBySessionID 查询会话的全部日志（按日志时间升序）
	FindBySessionID(ctx context.Context, sessionID string, limit int) ([]*LogRecord, error)

	// Query 按条件查询日志
	Query(ctx context.Context, opts *LogQueryOptions) ([]*LogRecord, error)

	// CountBySessionID 统计会话日志条数
	CountBySessionID(ctx context.Context, sessionID string) (int64, error)

	// CleanupOld 清理旧记录
	CleanupOld(ctx context.Context, before time.Time) (int64, error)

	// GetDB 获取底层 GORM DB（用于复杂查询）
	GetDB() *gorm.DB
}

// LogRecordGormRepository GORM 实现
type LogRecordGormRepository struct {
	db *gorm.DB
}

// NewLogRecordRepository 创建日志记录仓库
func NewLogRecordRepository(db *gorm.DB) LogRecordRepository {
	return &LogRecordGormRepository{db: db}
}

// Create 创建单条记录
func (r *LogRecordGormRepository) Create(ctx context.Context, record *LogRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// CreateBatch 批量创建记录
func (r *LogRecordGormRepository) CreateBatch(ctx context.Context, records []*LogRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(records).Error
}

// StoreEntries 将一次 logDump 解析出的条目按会话落库
func (r *LogRecordGormRepository) StoreEntries(ctx context.Context, sessionID string, session *Session, entries []LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	records := make([]*LogRecord, 0, len(entries))
	for i := range entries {
		records = append(records, models.NewLogRecord(sessionID, session, &entries[i]))
	}
	return r.CreateBatch(ctx, records)
}

// FindBySessionID 查询会话的全部日志
func (r *LogRecordGormRepository) FindBySessionID(ctx context.Context, sessionID string, limit int) ([]*LogRecord, error) {
	var records []*LogRecord
	query := r.db.WithContext(ctx).
		Where(QuerySessionIDWhere, sessionID).
		Order(OrderByLogTimeAsc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

// Query 按条件查询日志
func (r *LogRecordGormRepository) Query(ctx context.Context, opts *LogQueryOptions) ([]*LogRecord, error) {
	query := r.db.WithContext(ctx).Model(&LogRecord{})

	if opts != nil {
		// 使用 go-sqlbuilder 构建过滤条件
		sqlQuery := sqlbuilder.NewQuery().
			AddFilterIfNotEmpty("session_id", opts.SessionID).
			AddFilterIfNotEmpty("api_key", opts.APIKey).
			AddFilterIfNotEmpty("device_name", opts.DeviceName).
			AddFilterIfNotEmpty("app_name", opts.AppName).
			AddFilterIfNotEmpty("log_type", opts.LogType).
			AddFilterIfNotEmpty("tag", opts.Tag)

		query = sqlbuilder.ApplyFilters(query, sqlQuery.Filters)

		if opts.Offset > 0 {
			query = query.Offset(opts.Offset)
		}
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
	}

	var records []*LogRecord
	err := query.Order(OrderByLogTimeDesc).Find(&records).Error
	return records, err
}

// CountBySessionID 统计会话日志条数
func (r *LogRecordGormRepository) CountBySessionID(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LogRecord{}).
		Where(QuerySessionIDWhere, sessionID).
		Count(&count).Error
	return count, err
}

// CleanupOld 清理旧记录
func (r *LogRecordGormRepository) CleanupOld(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&LogRecord{})
	return result.RowsAffected, result.Error
}

// GetDB 获取底层 GORM DB
func (r *LogRecordGormRepository) GetDB() *gorm.DB {
	return r.db
}
