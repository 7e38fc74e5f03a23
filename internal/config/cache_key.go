package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserLoginKey returns the cache key holding a user's active login JTI.
func (r *CacheKeyStruct) UserLoginKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// SessionStartKey returns the cache key for an exam session's start time.
func (r *CacheKeyStruct) SessionStartKey(userID int, paperID string) string {
	return fmt.Sprintf("user:%d:paper:%s:session_start", userID, paperID)
}

// PaperPayloadKey returns the cache key for a paper's student-facing payload.
func (r *CacheKeyStruct) PaperPayloadKey(paperID string) string {
	return fmt.Sprintf("paper:%s:payload", paperID)
}

var CacheKey = NewCacheKeyStruct()
