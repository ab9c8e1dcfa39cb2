package constants

import "time"

var CacheTTL = struct {
	MovieFact time.Duration
}{
	MovieFact: 30 * time.Second,
}

var APIConfig = struct {
	RequestTimeout time.Duration
}{
	RequestTimeout: 10 * time.Second,
}

var RedisConfig = struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ReadyTimeout time.Duration
	MaxRetries   int
	PoolSize     int
}{
	DialTimeout:  5 * time.Second,
	ReadTimeout:  3 * time.Second,
	WriteTimeout: 3 * time.Second,
	ReadyTimeout: 5 * time.Second,
	MaxRetries:   3,
	PoolSize:     10,
}

var WarmupConfig = struct {
	MaxConcurrent int
	Timeout       time.Duration
}{
	MaxConcurrent: 2,
	Timeout:       15 * time.Second,
}

var SessionConfig = struct {
	FactDisplayLimit int
	HistoryPageSize  int
}{
	FactDisplayLimit: 500,
	HistoryPageSize:  10,
}
