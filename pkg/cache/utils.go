package cache

import "fmt"

// GenerateKeyWithParams joins a prefix and parameters into a colon-separated
// cache key, e.g. ("series", "enterprise", 90) -> "series:enterprise:90".
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}

// BuildPattern turns a key prefix into a glob pattern accepted by
// DeleteByPattern, matching every key under the prefix.
func BuildPattern(prefix string) string {
	return fmt.Sprintf("%s*", prefix)
}
