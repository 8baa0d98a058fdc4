package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RemarkProgressChannel returns the Redis PubSub channel carrying remark progress for an import
func (r *CacheKeyStruct) RemarkProgressChannel(importID string) string {
	return fmt.Sprintf("import:%s:remarks", importID)
}

// RemarkRunKey returns the key guarding a single queued or running remark job per import
func (r *CacheKeyStruct) RemarkRunKey(importID string) string {
	return fmt.Sprintf("import:%s:remark_run", importID)
}

var CacheKey = NewCacheKeyStruct()
