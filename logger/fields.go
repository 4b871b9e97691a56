package logger

// Field keys shared by every component so log lines can be joined on them.
const (
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldOperation = "operation"
	FieldOwnerType = "owner_type"
	FieldOwnerID   = "owner_id"
	FieldKey       = "key"
	FieldCacheKey  = "cache_key"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields pairs up alternating keys and values. Pairs whose key is not a
// string are skipped, as is a trailing key without a value.
//
//	log.Debug("option set", logger.Fields("key", "color", "owner_type", "widget"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 1; i < len(kvs); i += 2 {
		if key, ok := kvs[i-1].(string); ok {
			m[key] = kvs[i]
		}
	}
	return m
}

// OptionFields describes one option operation. Empty parts are left out.
func OptionFields(op, ownerType, ownerID, key string) map[string]interface{} {
	m := map[string]interface{}{FieldOperation: op}
	for k, v := range map[string]string{FieldOwnerType: ownerType, FieldOwnerID: ownerID, FieldKey: key} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// MergeWithError sets the error field on fields, allocating when nil.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{}, 1)
	}
	fields[FieldError] = err.Error()
	return fields
}
