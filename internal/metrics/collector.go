package metrics

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abhikumar45444/movie-night-decider/internal/domain"
)

// ConnectionCounter reports the number of live websocket channels; the hub
// implements it.
type ConnectionCounter interface {
	ConnectionCount() int
}

// Collector samples gauges (active rooms, DB pool stats, live channels) on a
// fixed interval.
type Collector struct {
	db      *gorm.DB
	metrics *Metrics
	conns   ConnectionCounter
	logger  *zap.Logger
	ticker  *time.Ticker
	done    chan struct{}
}

// NewCollector creates a collector sampling every interval
func NewCollector(db *gorm.DB, m *Metrics, conns ConnectionCounter, logger *zap.Logger, interval time.Duration) *Collector {
	return &Collector{
		db:      db,
		metrics: m,
		conns:   conns,
		logger:  logger,
		ticker:  time.NewTicker(interval),
		done:    make(chan struct{}),
	}
}

// Start begins collecting in the background
func (c *Collector) Start() {
	go func() {
		c.collect()
		for {
			select {
			case <-c.ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop halts collection
func (c *Collector) Stop() {
	c.ticker.Stop()
	close(c.done)
}

func (c *Collector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in metrics collection", zap.Any("panic", r))
		}
	}()

	var activeRooms int64
	if err := c.db.Model(&domain.Room{}).
		Where("status = ?", domain.RoomStatusActive).
		Count(&activeRooms).Error; err != nil {
		c.logger.Warn("Failed to count active rooms", zap.Error(err))
	} else {
		c.metrics.SetRoomsActive(activeRooms)
	}

	if sqlDB, err := c.db.DB(); err == nil {
		stats := sqlDB.Stats()
		c.metrics.safeExecute("UpdateDBStats", func() {
			c.metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
			c.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
			c.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
		})
	}

	if c.conns != nil {
		c.metrics.SetWebsocketConnections(c.conns.ConnectionCount())
	}
}
