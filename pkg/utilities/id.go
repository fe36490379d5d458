package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string. Used for
// store-assigned record identifiers (users, tasks).
func NewKSUID() string {
	return ksuid.New().String()
}

var (
	snowflakeOnce sync.Once
	snowflakeNode *snowflake.Node
)

// NewRequestID generates a snowflake ID string for request correlation.
// The node ID comes from the SNOWFLAKE_NODE environment variable and
// defaults to 1. If the node cannot be initialized it falls back to a
// KSUID string so a unique ID is always returned.
func NewRequestID() string {
	snowflakeOnce.Do(func() {
		nodeID := int64(1)
		if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				nodeID = parsed
			}
		}
		node, err := snowflake.NewNode(nodeID)
		if err != nil {
			return
		}
		snowflakeNode = node
	})
	if snowflakeNode == nil {
		return NewKSUID()
	}
	return snowflakeNode.Generate().String()
}
