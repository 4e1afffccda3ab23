package logging

import (
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// FlatEncoder is a custom Zap encoder that outputs a single-level JSON
// object per entry, for log shippers that cannot index nested fields.
type FlatEncoder struct {
	zapcore.Encoder
	config zapcore.EncoderConfig
}

// NewFlatEncoder creates a new flat JSON encoder
func NewFlatEncoder(config zapcore.EncoderConfig) zapcore.Encoder {
	return &FlatEncoder{
		Encoder: zapcore.NewJSONEncoder(config),
		config:  config,
	}
}

// EncodeEntry encodes a log entry as flat JSON
func (e *FlatEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	logObj := map[string]interface{}{
		"timestamp": entry.Time.Format(time.RFC3339Nano),
		"level":     entry.Level.String(),
		"message":   entry.Message,
		"logger":    entry.LoggerName,
	}

	// Add caller information if available
	if entry.Caller.Defined {
		logObj["file"] = entry.Caller.File
		logObj["line"] = entry.Caller.Line
		logObj["function"] = entry.Caller.Function
	}

	// Add stack trace if available
	if entry.Stack != "" {
		logObj["stack"] = entry.Stack
	}

	// Add fields at the top level
	for _, field := range fields {
		switch field.Type {
		case zapcore.StringType:
			logObj[field.Key] = field.String
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
			logObj[field.Key] = field.Integer
		case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
			logObj[field.Key] = uint64(field.Integer)
		case zapcore.BoolType:
			logObj[field.Key] = field.Integer == 1
		case zapcore.Float64Type:
			logObj[field.Key] = math.Float64frombits(uint64(field.Integer))
		case zapcore.Float32Type:
			logObj[field.Key] = float64(math.Float32frombits(uint32(field.Integer)))
		case zapcore.DurationType:
			logObj[field.Key] = time.Duration(field.Integer).String()
		case zapcore.TimeType:
			if field.Interface != nil {
				logObj[field.Key] = time.Unix(0, field.Integer).In(field.Interface.(*time.Location)).Format(time.RFC3339Nano)
			} else {
				logObj[field.Key] = time.Unix(0, field.Integer).Format(time.RFC3339Nano)
			}
		case zapcore.ErrorType:
			if err, ok := field.Interface.(error); ok {
				logObj[field.Key] = err.Error()
			}
		default:
			logObj[field.Key] = field.Interface
		}
	}

	encoded, err := json.Marshal(logObj)
	if err != nil {
		return nil, err
	}

	buf := buffer.NewPool().Get()
	buf.Write(encoded)
	buf.AppendString("\n")
	return buf, nil
}
