package logging

import "time"

// Generic field constructors

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

func UserID(id int64) Field {
	return Int64("user_id", id)
}

func SessionID(id int64) Field {
	return Int64("session_id", id)
}

func Intent(name string) Field {
	return String("intent", name)
}

func Category(name string) Field {
	return String("category", name)
}

func Anomaly(kind string) Field {
	return String("anomaly", kind)
}

func Count(n int) Field {
	return Int("count", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func RequestID(id string) Field {
	return String("request_id", id)
}
