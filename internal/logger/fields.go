package logger

import (
	"time"

	"go.uber.org/zap"
)

func String(key, val string) Field { return zap.String(key, val) }

func Strings(key string, val []string) Field { return zap.Strings(key, val) }

func Int(key string, val int) Field { return zap.Int(key, val) }

func Bool(key string, val bool) Field { return zap.Bool(key, val) }

func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }

func Time(key string, val time.Time) Field { return zap.Time(key, val) }

func Any(key string, val any) Field { return zap.Any(key, val) }

// Error creates an error field with the key "error".
func Error(err error) Field { return zap.Error(err) }

// MediaID tags an entry with the monitored media it concerns.
func MediaID(id int) Field { return zap.Int("media_id", id) }

func TaskID(id string) Field { return zap.String("task_id", id) }

// Period tags report entries; p is a report period name such as "weekly".
func Period[T ~string](p T) Field { return zap.String("period", string(p)) }
