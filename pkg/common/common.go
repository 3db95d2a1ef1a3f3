package common

import (
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	nodeOnce sync.Once
	idNode   *snowflake.Node
)

// UUIDint64 returns a new snowflake id. The node id may be set through
// the RADMAN_NODE_ID environment variable when several instances share
// one database.
func UUIDint64() int64 {
	nodeOnce.Do(func() {
		nodeID := cast.ToInt64(os.Getenv("RADMAN_NODE_ID")) % 1024
		node, err := snowflake.NewNode(nodeID)
		if err != nil {
			node, _ = snowflake.NewNode(0)
		}
		idNode = node
	})
	return idNode.Generate().Int64()
}
